package automation

import (
	"context"
	"errors"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/remitx-network/remitx-ledger/types"
)

// Ledger is the slice of the remittance core the scheduler drives.
type Ledger interface {
	CreateRemittance(
		ctx context.Context,
		sender, recipient common.Address,
		amount math.Int,
		sourceToken, targetToken common.Address,
		destinationChain uint64,
		feeValue math.Int,
	) (*types.Remittance, error)

	GetFee(destinationChain uint64, recipient common.Address, amount math.Int) math.Int
}

// ErrInvalidInterval rejects non-positive schedule intervals.
var ErrInvalidInterval = errors.New("schedule interval must be positive")

// Schedule is one recurring remittance: the same transfer fired every
// Interval until canceled or until a run fails.
type Schedule struct {
	ID               uint64         `json:"id"`
	Sender           common.Address `json:"sender"`
	Recipient        common.Address `json:"recipient"`
	Amount           math.Int       `json:"amount"`
	SourceToken      common.Address `json:"sourceToken"`
	TargetToken      common.Address `json:"targetToken"`
	DestinationChain uint64         `json:"destinationChain"`
	Interval         time.Duration  `json:"interval"`
	NextRun          time.Time      `json:"nextRun"`
	Active           bool           `json:"active"`
	RunsCompleted    uint64         `json:"runsCompleted"`
}

// Scheduler fires due schedules through the ledger. A schedule that
// fails a run (expired allowance, removed token, drained liquidity) is
// deactivated rather than retried forever; the owner re-activates by
// creating a new schedule.
type Scheduler struct {
	mu sync.Mutex

	logger    log.Logger
	ledger    Ledger
	schedules map[uint64]*Schedule
	nextID    uint64

	// injectable clock
	now func() time.Time
}

func NewScheduler(logger log.Logger, ledger Ledger) *Scheduler {
	return &Scheduler{
		logger:    logger,
		ledger:    ledger,
		schedules: map[uint64]*Schedule{},
		now:       time.Now,
	}
}

// CreateSchedule registers a recurring remittance. The first run fires
// one interval from now.
func (s *Scheduler) CreateSchedule(
	sender, recipient common.Address,
	amount math.Int,
	sourceToken, targetToken common.Address,
	destinationChain uint64,
	interval time.Duration,
) (*Schedule, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	sched := &Schedule{
		ID:               s.nextID,
		Sender:           sender,
		Recipient:        recipient,
		Amount:           amount,
		SourceToken:      sourceToken,
		TargetToken:      targetToken,
		DestinationChain: destinationChain,
		Interval:         interval,
		NextRun:          s.now().Add(interval),
		Active:           true,
	}
	s.schedules[sched.ID] = sched

	s.logger.Info("schedule created",
		"id", sched.ID,
		"sender", sender.Hex(),
		"interval", interval.String(),
	)
	return sched, nil
}

// CancelSchedule deactivates a schedule. Only its owner may cancel.
func (s *Scheduler) CancelSchedule(caller common.Address, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sched, ok := s.schedules[id]
	if !ok {
		return types.ErrNotFound
	}
	if caller != sched.Sender {
		return types.ErrUnauthorized
	}
	sched.Active = false
	s.logger.Info("schedule canceled", "id", id)
	return nil
}

// Schedules returns copies of the caller's schedules, active and not.
func (s *Scheduler) Schedules(sender common.Address) []Schedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Schedule
	for _, sched := range s.schedules {
		if sched.Sender == sender {
			out = append(out, *sched)
		}
	}
	return out
}

// RunDue fires every active schedule whose NextRun has passed and
// returns the number of remittances created.
func (s *Scheduler) RunDue(ctx context.Context) int {
	s.mu.Lock()
	now := s.now()
	var due []*Schedule
	for _, sched := range s.schedules {
		if sched.Active && !sched.NextRun.After(now) {
			due = append(due, sched)
		}
	}
	s.mu.Unlock()

	fired := 0
	for _, sched := range due {
		fee := s.ledger.GetFee(sched.DestinationChain, sched.Recipient, sched.Amount)
		r, err := s.ledger.CreateRemittance(ctx,
			sched.Sender, sched.Recipient, sched.Amount,
			sched.SourceToken, sched.TargetToken, sched.DestinationChain, fee)

		s.mu.Lock()
		if err != nil {
			sched.Active = false
			s.logger.Error("schedule run failed, deactivating",
				"id", sched.ID, "err", err)
		} else {
			sched.NextRun = sched.NextRun.Add(sched.Interval)
			sched.RunsCompleted++
			fired++
			s.logger.Info("schedule fired",
				"id", sched.ID, "remittance_id", r.ID)
		}
		s.mu.Unlock()
	}
	return fired
}

// Start runs the scheduler loop until ctx is canceled.
func (s *Scheduler) Start(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.RunDue(ctx)
		}
	}
}
