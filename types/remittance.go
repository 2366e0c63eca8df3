package types

import (
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// RemittanceStatus is the lifecycle state of a remittance. Pending is the
// only non-terminal state; Completed and Deleted are terminal and mutually
// exclusive.
type RemittanceStatus uint8

const (
	StatusPending RemittanceStatus = iota
	StatusCompleted
	StatusDeleted
)

func (s RemittanceStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCompleted:
		return "completed"
	case StatusDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// Terminal returns true once the remittance can no longer change state.
func (s RemittanceStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusDeleted
}

func (s RemittanceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *RemittanceStatus) UnmarshalJSON(bz []byte) error {
	var str string
	if err := json.Unmarshal(bz, &str); err != nil {
		return err
	}
	switch str {
	case "pending":
		*s = StatusPending
	case "completed":
		*s = StatusCompleted
	case "deleted":
		*s = StatusDeleted
	default:
		return fmt.Errorf("unknown remittance status %q", str)
	}
	return nil
}

// TokenConfig holds the per-token settings managed by the owner.
// Removing a token is a soft delete: IsSupported flips to false and the
// record is retained so in-flight remittances stay resolvable.
type TokenConfig struct {
	PriceFeed common.Address `json:"priceFeed" yaml:"price-feed"`
	MinAmount math.Int       `json:"minAmount" yaml:"min-amount"`
	MaxAmount math.Int       `json:"maxAmount" yaml:"max-amount"`
	IsSupported bool         `json:"isSupported" yaml:"is-supported"`
}

// Remittance is one transfer request. ExchangeRate is frozen at creation
// time (1e18-scaled) and reused at settlement, so the quoted conversion
// cannot drift between request and delivery.
type Remittance struct {
	ID               uint64           `json:"id"`
	Sender           common.Address   `json:"sender"`
	Recipient        common.Address   `json:"recipient"`
	Amount           math.Int         `json:"amount"`
	SourceToken      common.Address   `json:"sourceToken"`
	TargetToken      common.Address   `json:"targetToken"`
	DestinationChain uint64           `json:"destinationChain"`
	Timestamp        time.Time        `json:"timestamp"`
	ExchangeRate     math.Int         `json:"exchangeRate"`
	TargetAmount     math.Int         `json:"targetAmount"`
	IsCrossChain     bool             `json:"isCrossChain"`
	CCIPFee          math.Int         `json:"ccipFee"`
	CCIPMessageID    common.Hash      `json:"ccipMessageId"`
	Status           RemittanceStatus `json:"status"`
}

// Completed reports whether the tokens were delivered to the recipient.
func (r *Remittance) Completed() bool { return r.Status == StatusCompleted }

// Deleted reports whether the remittance was canceled and refunded.
func (r *Remittance) Deleted() bool { return r.Status == StatusDeleted }
