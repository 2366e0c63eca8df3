package token

import (
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Vault is the ERC-20-like surface the ledger relies on for custody.
// Transfer and TransferFrom must fail loudly on insufficient balance or
// allowance rather than silently no-op.
type Vault interface {
	// Symbol returns the token's display symbol.
	Symbol() string

	// Address returns the token's identity on the home chain.
	Address() common.Address

	// Decimals returns the token's display precision.
	Decimals() uint8

	// BalanceOf returns the balance held by account.
	BalanceOf(account common.Address) math.Int

	// Allowance returns the amount spender may still pull from owner.
	Allowance(owner, spender common.Address) math.Int

	// Approve sets spender's allowance over the caller's balance.
	Approve(caller, spender common.Address, amount math.Int) error

	// Transfer moves amount from the caller to recipient.
	Transfer(caller, recipient common.Address, amount math.Int) error

	// TransferFrom moves amount from owner to recipient, consuming the
	// caller's allowance.
	TransferFrom(caller, owner, recipient common.Address, amount math.Int) error
}

// MintableVault extends Vault with supply creation for test tokens and
// the local faucet.
type MintableVault interface {
	Vault

	// Mint credits amount to account and grows total supply.
	Mint(account common.Address, amount math.Int) error

	// TotalSupply returns the amount minted so far.
	TotalSupply() math.Int
}
