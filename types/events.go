package types

import (
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// EventType identifies a ledger event for off-chain consumers.
type EventType string

const (
	RemittanceCreated   EventType = "remittance_created"
	RemittanceCompleted EventType = "remittance_completed"
	RemittanceDeleted   EventType = "remittance_deleted"
	TokenSwapped        EventType = "token_swapped"
)

// Swap records one completed fixed-rate token swap.
type Swap struct {
	Caller    common.Address `json:"caller"`
	TokenIn   common.Address `json:"tokenIn"`
	TokenOut  common.Address `json:"tokenOut"`
	AmountIn  math.Int       `json:"amountIn"`
	AmountOut math.Int       `json:"amountOut"`
}

// Event is emitted on every lifecycle transition. Indexers and UIs
// subscribe to the stream; snapshots are taken at emission time so later
// transitions do not mutate delivered events.
type Event struct {
	Type       EventType   `json:"type"`
	Remittance *Remittance `json:"remittance,omitempty"`
	Swap       *Swap       `json:"swap,omitempty"`
	EmittedAt  time.Time   `json:"emittedAt"`
}
