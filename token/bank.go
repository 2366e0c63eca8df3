package token

import (
	"fmt"
	"sync"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Bank is an in-memory MintableVault with standard ERC-20 semantics.
// It backs the mock stablecoins (USDC, USDT, DAI) in local deployments
// and tests.
type Bank struct {
	mu sync.Mutex

	symbol   string
	address  common.Address
	decimals uint8

	supply     math.Int
	balances   map[common.Address]math.Int
	allowances map[common.Address]map[common.Address]math.Int
}

var _ MintableVault = (*Bank)(nil)

func NewBank(symbol string, address common.Address, decimals uint8) *Bank {
	return &Bank{
		symbol:     symbol,
		address:    address,
		decimals:   decimals,
		supply:     math.ZeroInt(),
		balances:   map[common.Address]math.Int{},
		allowances: map[common.Address]map[common.Address]math.Int{},
	}
}

func (b *Bank) Symbol() string          { return b.symbol }
func (b *Bank) Address() common.Address { return b.address }
func (b *Bank) Decimals() uint8         { return b.decimals }

func (b *Bank) BalanceOf(account common.Address) math.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balanceOf(account)
}

func (b *Bank) balanceOf(account common.Address) math.Int {
	if bal, ok := b.balances[account]; ok {
		return bal
	}
	return math.ZeroInt()
}

func (b *Bank) TotalSupply() math.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.supply
}

func (b *Bank) Allowance(owner, spender common.Address) math.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.allowance(owner, spender)
}

func (b *Bank) allowance(owner, spender common.Address) math.Int {
	if spenders, ok := b.allowances[owner]; ok {
		if amt, ok := spenders[spender]; ok {
			return amt
		}
	}
	return math.ZeroInt()
}

func (b *Bank) Approve(caller, spender common.Address, amount math.Int) error {
	if amount.IsNegative() {
		return fmt.Errorf("%s: negative approval amount %s", b.symbol, amount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	spenders, ok := b.allowances[caller]
	if !ok {
		spenders = map[common.Address]math.Int{}
		b.allowances[caller] = spenders
	}
	spenders[spender] = amount
	return nil
}

func (b *Bank) Transfer(caller, recipient common.Address, amount math.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.move(caller, recipient, amount)
}

func (b *Bank) TransferFrom(caller, owner, recipient common.Address, amount math.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	allowed := b.allowance(owner, caller)
	if allowed.LT(amount) {
		return fmt.Errorf("%s: allowance %s below transfer amount %s", b.symbol, allowed, amount)
	}
	if err := b.move(owner, recipient, amount); err != nil {
		return err
	}
	b.allowances[owner][caller] = allowed.Sub(amount)
	return nil
}

func (b *Bank) Mint(account common.Address, amount math.Int) error {
	if amount.IsNegative() {
		return fmt.Errorf("%s: negative mint amount %s", b.symbol, amount)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.balances[account] = b.balanceOf(account).Add(amount)
	b.supply = b.supply.Add(amount)
	return nil
}

func (b *Bank) move(from, to common.Address, amount math.Int) error {
	if amount.IsNegative() {
		return fmt.Errorf("%s: negative transfer amount %s", b.symbol, amount)
	}
	bal := b.balanceOf(from)
	if bal.LT(amount) {
		return fmt.Errorf("%s: balance %s below transfer amount %s", b.symbol, bal, amount)
	}
	b.balances[from] = bal.Sub(amount)
	b.balances[to] = b.balanceOf(to).Add(amount)
	return nil
}
