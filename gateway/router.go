package gateway

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SentMessage is the router's record of one dispatched message.
type SentMessage struct {
	ID                  common.Hash
	SourceSelector      uint64
	DestinationSelector uint64
	Payload             Payload
	Fee                 math.Int
	Delivered           bool
}

// Router is a loopback Messenger for local deployments and tests. It
// quotes a configured base fee per destination selector, assigns
// keccak-derived message ids, and delivers to registered receivers on
// demand. Re-delivering an already delivered message is allowed so
// receiver idempotency can be exercised.
type Router struct {
	mu sync.Mutex

	logger        log.Logger
	localSelector uint64
	baseFees      map[uint64]math.Int
	sequence      *SequenceMap
	receivers     map[uint64]Receiver
	sent          map[common.Hash]*SentMessage
	// ids in send order, for DeliverPending
	order []common.Hash
}

var _ Messenger = (*Router)(nil)

func NewRouter(logger log.Logger, localSelector uint64) *Router {
	return &Router{
		logger:        logger,
		localSelector: localSelector,
		baseFees:      map[uint64]math.Int{},
		sequence:      NewSequenceMap(),
		receivers:     map[uint64]Receiver{},
		sent:          map[common.Hash]*SentMessage{},
	}
}

// SetBaseFee configures the fee quoted for a destination selector.
func (r *Router) SetBaseFee(destinationSelector uint64, fee math.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baseFees[destinationSelector] = fee
}

// RegisterReceiver binds the destination-side receiver for a selector.
func (r *Router) RegisterReceiver(selector uint64, receiver Receiver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.receivers[selector] = receiver
}

func (r *Router) GetFee(destinationSelector uint64, payload Payload) math.Int {
	r.mu.Lock()
	defer r.mu.Unlock()

	fee, ok := r.baseFees[destinationSelector]
	if !ok {
		// unconfigured chains quote zero, they do not error
		return math.ZeroInt()
	}
	return fee
}

func (r *Router) Send(ctx context.Context, destinationSelector uint64, payload Payload, feeValue math.Int) (common.Hash, error) {
	fee := r.GetFee(destinationSelector, payload)
	if feeValue.LT(fee) {
		return common.Hash{}, fmt.Errorf("fee value %s below quoted fee %s", feeValue, fee)
	}

	nonce := r.sequence.Next(destinationSelector)

	bz := payload.Bytes()
	suffix := make([]byte, 16)
	binary.BigEndian.PutUint64(suffix[:8], destinationSelector)
	binary.BigEndian.PutUint64(suffix[8:], nonce)
	id := common.BytesToHash(crypto.Keccak256(append(bz, suffix...)))

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sent[id] = &SentMessage{
		ID:                  id,
		SourceSelector:      r.localSelector,
		DestinationSelector: destinationSelector,
		Payload:             payload,
		Fee:                 fee,
	}
	r.order = append(r.order, id)

	r.logger.Info("message dispatched",
		"message_id", id.Hex(),
		"destination", destinationSelector,
		"fee", fee.String(),
	)
	return id, nil
}

// Message returns the router's record of a sent message.
func (r *Router) Message(id common.Hash) (SentMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.sent[id]
	if !ok {
		return SentMessage{}, false
	}
	return *msg, true
}

// Deliver invokes the destination receiver for one message. Calling it
// again for the same id re-delivers.
func (r *Router) Deliver(ctx context.Context, id common.Hash) error {
	r.mu.Lock()
	msg, ok := r.sent[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("unknown message id %s", id.Hex())
	}
	receiver, ok := r.receivers[msg.DestinationSelector]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("no receiver registered for selector %d", msg.DestinationSelector)
	}
	delivery := Delivery{
		MessageID:      msg.ID,
		SourceSelector: msg.SourceSelector,
		Payload:        msg.Payload,
	}
	r.mu.Unlock()

	if err := receiver.HandleDelivery(ctx, delivery); err != nil {
		return fmt.Errorf("delivery of %s failed: %w", id.Hex(), err)
	}

	r.mu.Lock()
	msg.Delivered = true
	r.mu.Unlock()
	return nil
}

// DeliverPending delivers every not-yet-delivered message in send order.
func (r *Router) DeliverPending(ctx context.Context) error {
	r.mu.Lock()
	var due []common.Hash
	for _, id := range r.order {
		if !r.sent[id].Delivered {
			due = append(due, id)
		}
	}
	r.mu.Unlock()

	for _, id := range due {
		if err := r.Deliver(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
