package types

import "errors"

// Failure taxonomy surfaced by the ledger. Every operation either applies
// all of its effects or returns one of these with no effects at all.
var (
	ErrUnauthorized                = errors.New("caller is not authorized")
	ErrNotFound                    = errors.New("remittance not found")
	ErrTokenNotSupported           = errors.New("token not supported")
	ErrChainNotSupported           = errors.New("destination chain not supported")
	ErrAmountOutOfBounds           = errors.New("amount outside configured bounds")
	ErrInsufficientAllowance       = errors.New("insufficient token allowance")
	ErrInsufficientContractBalance = errors.New("insufficient contract token balance")
	ErrInsufficientFee             = errors.New("insufficient cross-chain fee")
	ErrAlreadyCompleted            = errors.New("remittance already completed")
	ErrAlreadyDeleted              = errors.New("remittance already deleted")
	ErrInvalidFeeValue             = errors.New("invalid fee value")
	ErrInsufficientOutputAmount    = errors.New("output amount below minimum")
)
