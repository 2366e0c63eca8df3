package remit

import (
	"context"
	"fmt"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/remitx-network/remitx-ledger/gateway"
	"github.com/remitx-network/remitx-ledger/token"
	"github.com/remitx-network/remitx-ledger/types"
)

// GetFee quotes the cross-chain delivery fee for a prospective
// remittance. Read-only; unconfigured destinations quote zero.
func (l *Ledger) GetFee(destinationChain uint64, recipient common.Address, amount math.Int) math.Int {
	return l.messenger.GetFee(destinationChain, gateway.Payload{
		Recipient: recipient,
		Amount:    amount,
	})
}

// CreateRemittance escrows amount of sourceToken from sender and either
// settles immediately (destinationChain == home selector) or dispatches
// a cross-chain message. feeValue is the native currency the sender is
// willing to spend on the messaging fee; only the quoted fee is pulled,
// so any excess stays with the sender.
//
// Validation runs before any token movement. A failed call leaves no
// record and moves nothing.
func (l *Ledger) CreateRemittance(
	ctx context.Context,
	sender, recipient common.Address,
	amount math.Int,
	sourceToken, targetToken common.Address,
	destinationChain uint64,
	feeValue math.Int,
) (*types.Remittance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sourceCfg, ok := l.tokens[sourceToken]
	if !ok || !sourceCfg.IsSupported {
		return nil, fmt.Errorf("%w: source %s", types.ErrTokenNotSupported, sourceToken.Hex())
	}
	targetCfg, ok := l.tokens[targetToken]
	if !ok || !targetCfg.IsSupported {
		return nil, fmt.Errorf("%w: target %s", types.ErrTokenNotSupported, targetToken.Hex())
	}
	if amount.LT(sourceCfg.MinAmount) || amount.GT(sourceCfg.MaxAmount) {
		return nil, fmt.Errorf("%w: %s not in [%s, %s]",
			types.ErrAmountOutOfBounds, amount, sourceCfg.MinAmount, sourceCfg.MaxAmount)
	}
	if !l.chains[destinationChain] {
		return nil, fmt.Errorf("%w: selector %d", types.ErrChainNotSupported, destinationChain)
	}

	sourceVault, err := l.vault(sourceToken)
	if err != nil {
		return nil, err
	}
	targetVault, err := l.vault(targetToken)
	if err != nil {
		return nil, err
	}
	if sourceVault.Allowance(sender, l.custody).LT(amount) {
		return nil, types.ErrInsufficientAllowance
	}

	rate, err := l.exchangeRate(sourceCfg, targetCfg)
	if err != nil {
		return nil, err
	}
	targetAmount := l.convert(amount, rate, sourceVault.Decimals(), targetVault.Decimals())

	r := &types.Remittance{
		ID:               l.nextID + 1,
		Sender:           sender,
		Recipient:        recipient,
		Amount:           amount,
		SourceToken:      sourceToken,
		TargetToken:      targetToken,
		DestinationChain: destinationChain,
		Timestamp:        time.Now(),
		ExchangeRate:     rate,
		TargetAmount:     targetAmount,
		IsCrossChain:     destinationChain != l.homeSelector,
		CCIPFee:          math.ZeroInt(),
		Status:           types.StatusPending,
	}

	if r.IsCrossChain {
		if err := l.dispatchCrossChain(ctx, r, sourceVault, feeValue); err != nil {
			return nil, err
		}
	} else {
		if err := l.settleLocal(r, sourceVault, targetVault); err != nil {
			return nil, err
		}
	}

	l.nextID++
	l.remittances[r.ID] = r
	l.sent[sender] = append(l.sent[sender], r.ID)
	l.received[recipient] = append(l.received[recipient], r.ID)

	l.updateCustodyMetric(sourceVault)
	l.updateCustodyMetric(targetVault)
	l.recordFeeMetric(sourceVault, amount)
	l.metrics.IncCreated(r.IsCrossChain)
	l.events.emitRemittance(types.RemittanceCreated, *r)
	if r.Status == types.StatusCompleted {
		l.metrics.IncCompleted(false)
		l.events.emitRemittance(types.RemittanceCompleted, *r)
	}

	l.logger.Info("remittance created",
		"id", r.ID,
		"sender", sender.Hex(),
		"recipient", recipient.Hex(),
		"amount", amount.String(),
		"cross_chain", r.IsCrossChain,
		"status", r.Status.String(),
	)
	return r, nil
}

// settleLocal pulls the source escrow and delivers the target amount in
// the same operation. The custody liquidity check runs first so a
// failure moves no tokens at all.
func (l *Ledger) settleLocal(r *types.Remittance, sourceVault, targetVault token.Vault) error {
	if targetVault.BalanceOf(l.custody).LT(r.TargetAmount) {
		return types.ErrInsufficientContractBalance
	}
	if err := sourceVault.TransferFrom(l.custody, r.Sender, l.custody, r.Amount); err != nil {
		return fmt.Errorf("escrow pull: %w", err)
	}
	if err := targetVault.Transfer(l.custody, r.Recipient, r.TargetAmount); err != nil {
		// undo the escrow pull so the whole call is a no-op
		if undoErr := sourceVault.Transfer(l.custody, r.Sender, r.Amount); undoErr != nil {
			l.logger.Error("escrow rollback failed", "id", r.ID, "err", undoErr)
		}
		return fmt.Errorf("local delivery: %w", err)
	}
	r.Status = types.StatusCompleted
	return nil
}

// dispatchCrossChain escrows the source amount, collects the quoted
// native fee and sends the settlement payload through the gateway.
func (l *Ledger) dispatchCrossChain(ctx context.Context, r *types.Remittance, sourceVault token.Vault, feeValue math.Int) error {
	payload := gateway.Payload{
		RemittanceID: r.ID,
		Recipient:    r.Recipient,
		Token:        r.TargetToken,
		Amount:       r.TargetAmount,
	}

	fee := l.messenger.GetFee(r.DestinationChain, payload)
	if feeValue.LT(fee) {
		return fmt.Errorf("%w: need %s, offered %s", types.ErrInsufficientFee, fee, feeValue)
	}
	if fee.IsPositive() && l.feeVault.Allowance(r.Sender, l.custody).LT(fee) {
		return fmt.Errorf("%w: fee allowance below %s", types.ErrInsufficientFee, fee)
	}

	if err := sourceVault.TransferFrom(l.custody, r.Sender, l.custody, r.Amount); err != nil {
		return fmt.Errorf("escrow pull: %w", err)
	}
	if fee.IsPositive() {
		if err := l.feeVault.TransferFrom(l.custody, r.Sender, l.custody, fee); err != nil {
			if undoErr := sourceVault.Transfer(l.custody, r.Sender, r.Amount); undoErr != nil {
				l.logger.Error("escrow rollback failed", "id", r.ID, "err", undoErr)
			}
			return fmt.Errorf("fee pull: %w", err)
		}
	}

	msgID, err := l.messenger.Send(ctx, r.DestinationChain, payload, fee)
	if err != nil {
		if undoErr := sourceVault.Transfer(l.custody, r.Sender, r.Amount); undoErr != nil {
			l.logger.Error("escrow rollback failed", "id", r.ID, "err", undoErr)
		}
		if fee.IsPositive() {
			if undoErr := l.feeVault.Transfer(l.custody, r.Sender, fee); undoErr != nil {
				l.logger.Error("fee rollback failed", "id", r.ID, "err", undoErr)
			}
		}
		return fmt.Errorf("gateway send: %w", err)
	}

	r.CCIPFee = fee
	r.CCIPMessageID = msgID
	return nil
}

// HandleDelivery is the gateway's destination-side callback. It delivers
// the target amount from custody and completes the remittance. Duplicate
// deliveries of the same message id are no-ops.
func (l *Ledger) HandleDelivery(ctx context.Context, delivery gateway.Delivery) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.processed[delivery.MessageID] {
		l.logger.Info("duplicate delivery ignored", "message_id", delivery.MessageID.Hex())
		return nil
	}

	r, ok := l.remittances[delivery.Payload.RemittanceID]
	if !ok {
		return fmt.Errorf("%w: remittance %d", types.ErrNotFound, delivery.Payload.RemittanceID)
	}
	if r.Status.Terminal() {
		// deleted before the message arrived; the escrow was already
		// refunded, so the delivery is dropped
		l.processed[delivery.MessageID] = true
		l.logger.Info("delivery for terminal remittance dropped",
			"id", r.ID, "status", r.Status.String())
		return nil
	}

	targetVault, err := l.vault(delivery.Payload.Token)
	if err != nil {
		return err
	}
	if targetVault.BalanceOf(l.custody).LT(delivery.Payload.Amount) {
		// leave unprocessed so the gateway can retry once liquidity
		// is restored
		return types.ErrInsufficientContractBalance
	}
	if err := targetVault.Transfer(l.custody, delivery.Payload.Recipient, delivery.Payload.Amount); err != nil {
		return fmt.Errorf("destination delivery: %w", err)
	}

	r.Status = types.StatusCompleted
	l.processed[delivery.MessageID] = true

	l.updateCustodyMetric(targetVault)
	l.metrics.IncCompleted(true)
	l.events.emitRemittance(types.RemittanceCompleted, *r)

	l.logger.Info("remittance completed",
		"id", r.ID,
		"message_id", delivery.MessageID.Hex(),
		"recipient", delivery.Payload.Recipient.Hex(),
		"amount", delivery.Payload.Amount.String(),
	)
	return nil
}

// DeleteRemittance cancels a pending remittance and refunds the sender:
// the escrowed source amount plus, for cross-chain remittances, the
// collected native fee. Only the original sender may delete.
func (l *Ledger) DeleteRemittance(ctx context.Context, caller common.Address, id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, ok := l.remittances[id]
	if !ok {
		return fmt.Errorf("%w: remittance %d", types.ErrNotFound, id)
	}
	if caller != r.Sender {
		return types.ErrUnauthorized
	}
	switch r.Status {
	case types.StatusCompleted:
		return types.ErrAlreadyCompleted
	case types.StatusDeleted:
		return types.ErrAlreadyDeleted
	}

	sourceVault, err := l.vault(r.SourceToken)
	if err != nil {
		return err
	}

	// both refunds are pre-checked so the state flip below cannot be
	// followed by a failed transfer
	if sourceVault.BalanceOf(l.custody).LT(r.Amount) {
		return types.ErrInsufficientContractBalance
	}
	refundFee := r.IsCrossChain && r.CCIPFee.IsPositive()
	if refundFee && l.feeVault.BalanceOf(l.custody).LT(r.CCIPFee) {
		return types.ErrInsufficientContractBalance
	}

	if err := sourceVault.Transfer(l.custody, r.Sender, r.Amount); err != nil {
		return fmt.Errorf("escrow refund: %w", err)
	}
	if refundFee {
		if err := l.feeVault.Transfer(l.custody, r.Sender, r.CCIPFee); err != nil {
			// unreachable with a conforming vault given the pre-checks
			return fmt.Errorf("fee refund: %w", err)
		}
	}

	r.Status = types.StatusDeleted

	l.updateCustodyMetric(sourceVault)
	l.metrics.IncDeleted()
	l.events.emitRemittance(types.RemittanceDeleted, *r)

	l.logger.Info("remittance deleted",
		"id", r.ID,
		"refunded", r.Amount.String(),
		"fee_refunded", r.CCIPFee.String(),
	)
	return nil
}

// SwapTokens performs a fixed-rate swap against custody liquidity: pulls
// amountIn of tokenIn from the caller and pays out the converted amount
// of tokenOut. Not an AMM; the rate comes from the same oracle path as
// remittances.
func (l *Ledger) SwapTokens(
	ctx context.Context,
	caller common.Address,
	tokenIn, tokenOut common.Address,
	amountIn, minAmountOut math.Int,
) (math.Int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	inCfg, ok := l.tokens[tokenIn]
	if !ok || !inCfg.IsSupported {
		return math.Int{}, fmt.Errorf("%w: %s", types.ErrTokenNotSupported, tokenIn.Hex())
	}
	outCfg, ok := l.tokens[tokenOut]
	if !ok || !outCfg.IsSupported {
		return math.Int{}, fmt.Errorf("%w: %s", types.ErrTokenNotSupported, tokenOut.Hex())
	}

	inVault, err := l.vault(tokenIn)
	if err != nil {
		return math.Int{}, err
	}
	outVault, err := l.vault(tokenOut)
	if err != nil {
		return math.Int{}, err
	}
	if inVault.Allowance(caller, l.custody).LT(amountIn) {
		return math.Int{}, types.ErrInsufficientAllowance
	}

	rate, err := l.exchangeRate(inCfg, outCfg)
	if err != nil {
		return math.Int{}, err
	}
	amountOut := l.convert(amountIn, rate, inVault.Decimals(), outVault.Decimals())
	if amountOut.LT(minAmountOut) {
		return math.Int{}, fmt.Errorf("%w: %s below %s", types.ErrInsufficientOutputAmount, amountOut, minAmountOut)
	}
	if outVault.BalanceOf(l.custody).LT(amountOut) {
		return math.Int{}, types.ErrInsufficientContractBalance
	}

	if err := inVault.TransferFrom(l.custody, caller, l.custody, amountIn); err != nil {
		return math.Int{}, fmt.Errorf("swap pull: %w", err)
	}
	if err := outVault.Transfer(l.custody, caller, amountOut); err != nil {
		if undoErr := inVault.Transfer(l.custody, caller, amountIn); undoErr != nil {
			l.logger.Error("swap rollback failed", "err", undoErr)
		}
		return math.Int{}, fmt.Errorf("swap payout: %w", err)
	}

	l.updateCustodyMetric(inVault)
	l.updateCustodyMetric(outVault)
	l.recordFeeMetric(inVault, amountIn)
	l.events.emitSwap(types.Swap{
		Caller:    caller,
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountIn:  amountIn,
		AmountOut: amountOut,
	})

	l.logger.Info("tokens swapped",
		"caller", caller.Hex(),
		"amount_in", amountIn.String(),
		"amount_out", amountOut.String(),
	)
	return amountOut, nil
}
