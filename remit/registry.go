package remit

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/remitx-network/remitx-ledger/types"
)

// AddSupportedToken registers or overwrites a token's configuration.
// Owner only. Re-adding a previously removed token reinstates it.
func (l *Ledger) AddSupportedToken(caller, tokenAddr, priceFeed common.Address, minAmount, maxAmount math.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return types.ErrUnauthorized
	}
	if minAmount.IsNegative() || maxAmount.LT(minAmount) {
		return fmt.Errorf("%w: min %s, max %s", types.ErrAmountOutOfBounds, minAmount, maxAmount)
	}

	l.tokens[tokenAddr] = types.TokenConfig{
		PriceFeed:   priceFeed,
		MinAmount:   minAmount,
		MaxAmount:   maxAmount,
		IsSupported: true,
	}
	l.logger.Info("token supported",
		"token", tokenAddr.Hex(),
		"price_feed", priceFeed.Hex(),
		"min_amount", minAmount.String(),
		"max_amount", maxAmount.String(),
	)
	return nil
}

// RemoveSupportedToken soft-deletes a token: the config is retained with
// IsSupported false so in-flight remittances stay resolvable.
func (l *Ledger) RemoveSupportedToken(caller, tokenAddr common.Address) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return types.ErrUnauthorized
	}

	cfg, ok := l.tokens[tokenAddr]
	if !ok {
		return fmt.Errorf("%w: token %s", types.ErrNotFound, tokenAddr.Hex())
	}
	cfg.IsSupported = false
	l.tokens[tokenAddr] = cfg

	l.logger.Info("token support removed", "token", tokenAddr.Hex())
	return nil
}

// AddSupportedChain allows a destination selector for new remittances.
func (l *Ledger) AddSupportedChain(caller common.Address, selector uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return types.ErrUnauthorized
	}
	l.chains[selector] = true
	l.logger.Info("chain supported", "selector", selector)
	return nil
}

// RemoveSupportedChain blocks new remittances to a selector. Pending
// cross-chain deliveries are unaffected.
func (l *Ledger) RemoveSupportedChain(caller common.Address, selector uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return types.ErrUnauthorized
	}
	delete(l.chains, selector)
	l.logger.Info("chain support removed", "selector", selector)
	return nil
}

// SupportedToken returns a token's config. The second return is false
// for tokens that were never registered.
func (l *Ledger) SupportedToken(tokenAddr common.Address) (types.TokenConfig, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cfg, ok := l.tokens[tokenAddr]
	return cfg, ok
}

// SupportedChain reports whether a selector accepts new remittances.
func (l *Ledger) SupportedChain(selector uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chains[selector]
}

// SetRemittanceFee sets the protocol fee in basis points. Owner only.
func (l *Ledger) SetRemittanceFee(caller common.Address, bps uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return types.ErrUnauthorized
	}
	if bps > maxFeeBps {
		return fmt.Errorf("%w: %d bps", types.ErrInvalidFeeValue, bps)
	}
	l.feeBps = bps
	l.logger.Info("remittance fee updated", "bps", bps)
	return nil
}

// FundContract pre-seeds custody liquidity by pulling amount from the
// owner's balance. Owner only; the owner must have approved the custody
// account first.
func (l *Ledger) FundContract(caller, tokenAddr common.Address, amount math.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if caller != l.owner {
		return types.ErrUnauthorized
	}
	v, err := l.vault(tokenAddr)
	if err != nil {
		return err
	}
	if v.Allowance(l.owner, l.custody).LT(amount) {
		return types.ErrInsufficientAllowance
	}
	if err := v.TransferFrom(l.custody, l.owner, l.custody, amount); err != nil {
		return fmt.Errorf("funding custody: %w", err)
	}

	l.updateCustodyMetric(v)
	l.logger.Info("custody funded",
		"token", tokenAddr.Hex(),
		"amount", amount.String(),
	)
	return nil
}
