package remit

import (
	"sync"
	"time"

	"cosmossdk.io/log"

	"github.com/remitx-network/remitx-ledger/types"
)

// eventBus fans ledger events out to subscribers. Emission never blocks
// a ledger operation: a subscriber that falls behind loses events and a
// warning is logged.
type eventBus struct {
	mu     sync.Mutex
	logger log.Logger
	subs   []chan types.Event
}

func newEventBus(logger log.Logger) *eventBus {
	return &eventBus{logger: logger}
}

const subscriberBuffer = 64

func (b *eventBus) subscribe() <-chan types.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan types.Event, subscriberBuffer)
	b.subs = append(b.subs, ch)
	return ch
}

func (b *eventBus) emitRemittance(eventType types.EventType, remittance types.Remittance) {
	b.emit(types.Event{
		Type:       eventType,
		Remittance: &remittance,
		EmittedAt:  time.Now(),
	})
}

func (b *eventBus) emitSwap(swap types.Swap) {
	b.emit(types.Event{
		Type:      types.TokenSwapped,
		Swap:      &swap,
		EmittedAt: time.Now(),
	})
}

func (b *eventBus) emit(event types.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.logger.Warn("dropping event for slow subscriber", "type", event.Type)
		}
	}
}
