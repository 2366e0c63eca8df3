package oracle

import (
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// PriceFeed is a read-only price source for one token pair, modeled on
// the aggregator surface the ledger consumes to compute exchange rates.
type PriceFeed interface {
	// Address returns the feed's identity.
	Address() common.Address

	// LatestAnswer returns the most recent price, scaled by Decimals.
	LatestAnswer() (math.Int, error)

	// Decimals returns the answer's scale.
	Decimals() uint8

	// Description returns a human-readable pair name, e.g. "USDC / USD".
	Description() string
}

// StaticFeed answers with a fixed price. Local deployments use one per
// mock token (USDC/USD, USDT/USD, DAI/USD at 1e8).
type StaticFeed struct {
	address     common.Address
	answer      math.Int
	decimals    uint8
	description string
}

var _ PriceFeed = (*StaticFeed)(nil)

func NewStaticFeed(address common.Address, answer math.Int, decimals uint8, description string) *StaticFeed {
	return &StaticFeed{
		address:     address,
		answer:      answer,
		decimals:    decimals,
		description: description,
	}
}

func (f *StaticFeed) Address() common.Address { return f.address }

func (f *StaticFeed) LatestAnswer() (math.Int, error) { return f.answer, nil }

func (f *StaticFeed) Decimals() uint8 { return f.decimals }

func (f *StaticFeed) Description() string { return f.description }

// Registry resolves feed addresses to feeds. The ledger looks feeds up by
// the address stored in each TokenConfig.
type Registry struct {
	feeds map[common.Address]PriceFeed
}

func NewRegistry(feeds ...PriceFeed) *Registry {
	r := &Registry{feeds: map[common.Address]PriceFeed{}}
	for _, f := range feeds {
		r.feeds[f.Address()] = f
	}
	return r
}

func (r *Registry) Register(feed PriceFeed) {
	r.feeds[feed.Address()] = feed
}

func (r *Registry) Feed(address common.Address) (PriceFeed, bool) {
	f, ok := r.feeds[address]
	return f, ok
}
