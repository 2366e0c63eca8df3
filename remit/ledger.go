package remit

import (
	"fmt"
	"math/big"
	"sync"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/remitx-network/remitx-ledger/gateway"
	"github.com/remitx-network/remitx-ledger/oracle"
	"github.com/remitx-network/remitx-ledger/token"
	"github.com/remitx-network/remitx-ledger/types"
)

const (
	// DefaultFeeBps is the protocol fee applied to the source amount.
	DefaultFeeBps = 50 // 0.5%

	maxFeeBps = 10_000
)

// rateScale is the fixed-point scale of stored exchange rates.
var rateScale = math.NewIntWithDecimal(1, 18)

// Ledger is the remittance settlement core. It owns the supported-token
// and supported-chain registries, the remittance records and per-user
// indices, and is the custodian of every escrowed balance.
//
// Every mutating operation runs under one mutex, giving the
// serialized-transaction semantics the caller surface assumes: an
// operation either applies all of its effects or none, and no caller
// can observe in-progress state.
type Ledger struct {
	mu sync.Mutex

	logger    log.Logger
	metrics   *PromMetrics
	events    *eventBus
	messenger gateway.Messenger
	oracles   *oracle.Registry

	owner common.Address
	// the ledger's own account in each vault, holder of all custody
	custody      common.Address
	homeSelector uint64
	feeBps       uint64

	vaults      map[common.Address]token.Vault
	tokens      map[common.Address]types.TokenConfig
	chains      map[uint64]bool
	remittances map[uint64]*types.Remittance
	sent        map[common.Address][]uint64
	received    map[common.Address][]uint64
	// message ids already settled by HandleDelivery
	processed map[common.Hash]bool

	nextID uint64
	// native-currency vault used to collect and refund cross-chain fees
	feeVault token.Vault
}

var _ gateway.Receiver = (*Ledger)(nil)

// NewLedger constructs an empty ledger. The custody address is the
// ledger's identity inside every vault; feeVault holds the native
// currency cross-chain fees are paid in.
func NewLedger(
	logger log.Logger,
	owner common.Address,
	custody common.Address,
	homeSelector uint64,
	messenger gateway.Messenger,
	oracles *oracle.Registry,
	feeVault token.Vault,
) *Ledger {
	return &Ledger{
		logger:       logger,
		events:       newEventBus(logger),
		messenger:    messenger,
		oracles:      oracles,
		owner:        owner,
		custody:      custody,
		homeSelector: homeSelector,
		feeBps:       DefaultFeeBps,
		vaults:       map[common.Address]token.Vault{},
		tokens:       map[common.Address]types.TokenConfig{},
		chains:       map[uint64]bool{},
		remittances:  map[uint64]*types.Remittance{},
		sent:         map[common.Address][]uint64{},
		received:     map[common.Address][]uint64{},
		processed:    map[common.Hash]bool{},
		feeVault:     feeVault,
	}
}

// WithMetrics attaches Prometheus metrics. Safe to skip; all metric
// helpers are nil-tolerant.
func (l *Ledger) WithMetrics(m *PromMetrics) *Ledger {
	l.metrics = m
	return l
}

// Owner returns the admin account.
func (l *Ledger) Owner() common.Address { return l.owner }

// CustodyAddress returns the account holding escrowed balances.
func (l *Ledger) CustodyAddress() common.Address { return l.custody }

// HomeSelector returns the local chain selector.
func (l *Ledger) HomeSelector() uint64 { return l.homeSelector }

// RegisterVault makes a token's vault reachable by address. Vault
// registration is deployment wiring, not an owner operation.
func (l *Ledger) RegisterVault(v token.Vault) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.vaults[v.Address()] = v
}

// Subscribe returns a channel of lifecycle events. Slow consumers drop
// events rather than stalling settlement.
func (l *Ledger) Subscribe() <-chan types.Event {
	return l.events.subscribe()
}

// RemittanceFee returns the protocol fee in basis points.
func (l *Ledger) RemittanceFee() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.feeBps
}

// exchangeRate computes sourcePrice/targetPrice at rateScale from the
// two tokens' oracle feeds. Identical feeds yield exactly rateScale.
func (l *Ledger) exchangeRate(source, target types.TokenConfig) (math.Int, error) {
	sourceFeed, ok := l.oracles.Feed(source.PriceFeed)
	if !ok {
		return math.Int{}, fmt.Errorf("no oracle feed at %s", source.PriceFeed.Hex())
	}
	targetFeed, ok := l.oracles.Feed(target.PriceFeed)
	if !ok {
		return math.Int{}, fmt.Errorf("no oracle feed at %s", target.PriceFeed.Hex())
	}

	sourcePrice, err := sourceFeed.LatestAnswer()
	if err != nil {
		return math.Int{}, fmt.Errorf("reading %s: %w", sourceFeed.Description(), err)
	}
	targetPrice, err := targetFeed.LatestAnswer()
	if err != nil {
		return math.Int{}, fmt.Errorf("reading %s: %w", targetFeed.Description(), err)
	}
	if !sourcePrice.IsPositive() || !targetPrice.IsPositive() {
		return math.Int{}, fmt.Errorf("non-positive oracle answer (%s=%s, %s=%s)",
			sourceFeed.Description(), sourcePrice, targetFeed.Description(), targetPrice)
	}

	// rate = sourcePrice * 10^targetFeedDecimals * scale /
	//        (targetPrice * 10^sourceFeedDecimals)
	num := sourcePrice.
		Mul(math.NewIntWithDecimal(1, int(targetFeed.Decimals()))).
		Mul(rateScale)
	den := targetPrice.Mul(math.NewIntWithDecimal(1, int(sourceFeed.Decimals())))
	return num.Quo(den), nil
}

// convert applies the protocol fee to a source amount and converts the
// remainder to target-token units using a rateScale-scaled rate.
func (l *Ledger) convert(amount, rate math.Int, sourceDecimals, targetDecimals uint8) math.Int {
	fee := amount.MulRaw(int64(l.feeBps)).QuoRaw(maxFeeBps)
	net := amount.Sub(fee)

	out := net.Mul(rate).
		Mul(math.NewIntWithDecimal(1, int(targetDecimals))).
		Quo(rateScale.Mul(math.NewIntWithDecimal(1, int(sourceDecimals))))
	return out
}

// vault returns the registered vault for a token address.
func (l *Ledger) vault(tokenAddr common.Address) (token.Vault, error) {
	v, ok := l.vaults[tokenAddr]
	if !ok {
		return nil, fmt.Errorf("%w: no vault registered at %s", types.ErrTokenNotSupported, tokenAddr.Hex())
	}
	return v, nil
}

func (l *Ledger) updateCustodyMetric(v token.Vault) {
	bal := v.BalanceOf(l.custody)
	f, _ := new(big.Float).SetInt(bal.BigInt()).Float64()
	l.metrics.SetCustodyBalance(v.Address().Hex(), v.Symbol(), f)
}

func (l *Ledger) recordFeeMetric(v token.Vault, amount math.Int) {
	fee := amount.MulRaw(int64(l.feeBps)).QuoRaw(maxFeeBps)
	f, _ := new(big.Float).SetInt(fee.BigInt()).Float64()
	l.metrics.AddFeesCharged(v.Symbol(), f)
}
