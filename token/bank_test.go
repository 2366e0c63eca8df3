package token_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/remitx-network/remitx-ledger/token"
)

var (
	usdcAddr = common.HexToAddress("0x990eD65B9E55a2b157Fc4ea2e150cD4DDbF86D3f")
	alice    = common.HexToAddress("0x0000000000000000000000000000000000000a11")
	bob      = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	spender  = common.HexToAddress("0x00000000000000000000000000000000000005e5")
)

func TestBankMintAndTransfer(t *testing.T) {
	bank := token.NewBank("USDC", usdcAddr, 6)

	require.NoError(t, bank.Mint(alice, math.NewInt(1_000_000_000)))
	require.Equal(t, math.NewInt(1_000_000_000), bank.BalanceOf(alice))
	require.Equal(t, math.NewInt(1_000_000_000), bank.TotalSupply())

	require.NoError(t, bank.Transfer(alice, bob, math.NewInt(250_000_000)))
	require.Equal(t, math.NewInt(750_000_000), bank.BalanceOf(alice))
	require.Equal(t, math.NewInt(250_000_000), bank.BalanceOf(bob))
}

func TestBankTransferInsufficientBalance(t *testing.T) {
	bank := token.NewBank("USDC", usdcAddr, 6)
	require.NoError(t, bank.Mint(alice, math.NewInt(100)))

	err := bank.Transfer(alice, bob, math.NewInt(101))
	require.Error(t, err)
	require.Equal(t, math.NewInt(100), bank.BalanceOf(alice))
	require.True(t, bank.BalanceOf(bob).IsZero())
}

func TestBankTransferFromConsumesAllowance(t *testing.T) {
	bank := token.NewBank("USDC", usdcAddr, 6)
	require.NoError(t, bank.Mint(alice, math.NewInt(500)))
	require.NoError(t, bank.Approve(alice, spender, math.NewInt(300)))

	require.NoError(t, bank.TransferFrom(spender, alice, bob, math.NewInt(200)))
	require.Equal(t, math.NewInt(100), bank.Allowance(alice, spender))
	require.Equal(t, math.NewInt(200), bank.BalanceOf(bob))

	// remaining allowance is 100, pulling 150 must fail without effects
	err := bank.TransferFrom(spender, alice, bob, math.NewInt(150))
	require.Error(t, err)
	require.Equal(t, math.NewInt(100), bank.Allowance(alice, spender))
	require.Equal(t, math.NewInt(300), bank.BalanceOf(alice))
}

func TestBankTransferFromNoAllowance(t *testing.T) {
	bank := token.NewBank("USDT", usdcAddr, 6)
	require.NoError(t, bank.Mint(alice, math.NewInt(500)))

	err := bank.TransferFrom(spender, alice, bob, math.NewInt(1))
	require.Error(t, err)
	require.Equal(t, math.NewInt(500), bank.BalanceOf(alice))
}
