package gateway

import (
	"context"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Messenger is the cross-chain messaging surface the ledger sends
// through. Fee quotes are read-only; unconfigured destination selectors
// quote zero rather than erroring.
type Messenger interface {
	// GetFee quotes the native fee for delivering payload to the
	// destination selector.
	GetFee(destinationSelector uint64, payload Payload) math.Int

	// Send dispatches payload to the destination selector, consuming
	// feeValue in native currency, and returns the assigned message id.
	Send(ctx context.Context, destinationSelector uint64, payload Payload, feeValue math.Int) (common.Hash, error)
}

// Delivery is handed to the destination-side receiver when a message
// arrives.
type Delivery struct {
	MessageID      common.Hash
	SourceSelector uint64
	Payload        Payload
}

// Receiver is the destination-side callback invoked by the gateway on
// message delivery. Implementations must tolerate duplicate deliveries
// of the same message id.
type Receiver interface {
	HandleDelivery(ctx context.Context, delivery Delivery) error
}
