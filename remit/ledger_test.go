package remit_test

import (
	"context"
	"os"
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remitx-network/remitx-ledger/gateway"
	"github.com/remitx-network/remitx-ledger/oracle"
	"github.com/remitx-network/remitx-ledger/remit"
	"github.com/remitx-network/remitx-ledger/token"
	"github.com/remitx-network/remitx-ledger/types"
)

const (
	homeSelector    = uint64(2810)
	sepoliaSelector = uint64(16015286601757825753)
)

var (
	owner     = common.HexToAddress("0x00000000000000000000000000000000000000aa")
	custody   = common.HexToAddress("0x24D11988d717C0B24afD36eaC4939cB0b2b980E7")
	sender    = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	recipient = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	stranger  = common.HexToAddress("0x00000000000000000000000000000000000000d1")

	usdcAddr = common.HexToAddress("0x990eD65B9E55a2b157Fc4ea2e150cD4DDbF86D3f")
	usdtAddr = common.HexToAddress("0x7605c932F561567cC538a6209084BD69eE9b5188")
	daiAddr  = common.HexToAddress("0xCd35b98e3a6bA62e0F37782431B530101c420E15")
	wethAddr = common.HexToAddress("0x9b14B28f6Ce775bD5a55d8858D51D8627747D0e2")

	usdcFeedAddr = common.HexToAddress("0x3b22D2faF45da955Fb33EEf8D52e60AeB7e4b339")
	usdtFeedAddr = common.HexToAddress("0x544565F826340A263CdF72d0409487D0AA9bcA6F")
	daiFeedAddr  = common.HexToAddress("0x81B77F36971B9173cb49A7B17ea42F8a52eb3254")

	oneUSD = math.NewInt(100_000_000) // 8 decimal feed answer

	minUSDC = math.NewInt(1_000_000)      // 1 USDC
	maxUSDC = math.NewInt(10_000_000_000) // 10,000 USDC
)

type fixture struct {
	ledger *remit.Ledger
	router *gateway.Router

	usdc   *token.Bank
	usdt   *token.Bank
	dai    *token.Bank
	native *token.Bank
}

// newFixture mirrors the local deployment: three mock stablecoins with
// $1 static feeds, a loopback router with a fee-charging remote chain,
// USDC/USDT supported, and custody funded with USDT liquidity.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := log.NewLogger(os.Stdout)

	f := &fixture{
		usdc:   token.NewBank("USDC", usdcAddr, 6),
		usdt:   token.NewBank("USDT", usdtAddr, 6),
		dai:    token.NewBank("DAI", daiAddr, 18),
		native: token.NewBank("WETH", wethAddr, 18),
	}

	feeds := oracle.NewRegistry(
		oracle.NewStaticFeed(usdcFeedAddr, oneUSD, 8, "USDC / USD"),
		oracle.NewStaticFeed(usdtFeedAddr, oneUSD, 8, "USDT / USD"),
		oracle.NewStaticFeed(daiFeedAddr, oneUSD, 8, "DAI / USD"),
	)

	f.router = gateway.NewRouter(logger, homeSelector)
	f.router.SetBaseFee(sepoliaSelector, math.NewInt(1_000_000_000_000_000)) // 0.001 ETH

	f.ledger = remit.NewLedger(logger, owner, custody, homeSelector, f.router, feeds, f.native)
	f.router.RegisterReceiver(sepoliaSelector, f.ledger)

	for _, b := range []*token.Bank{f.usdc, f.usdt, f.dai, f.native} {
		f.ledger.RegisterVault(b)
	}

	require.NoError(t, f.ledger.AddSupportedToken(owner, usdcAddr, usdcFeedAddr, minUSDC, maxUSDC))
	require.NoError(t, f.ledger.AddSupportedToken(owner, usdtAddr, usdtFeedAddr, minUSDC, maxUSDC))
	require.NoError(t, f.ledger.AddSupportedChain(owner, homeSelector))
	require.NoError(t, f.ledger.AddSupportedChain(owner, sepoliaSelector))

	// sender funds and approvals
	require.NoError(t, f.usdc.Mint(sender, math.NewInt(1_000_000_000))) // 1,000 USDC
	require.NoError(t, f.native.Mint(sender, math.NewIntWithDecimal(1, 18)))
	require.NoError(t, f.native.Approve(sender, custody, math.NewIntWithDecimal(1, 18)))

	// custody liquidity: owner mints and funds 500 USDT
	require.NoError(t, f.usdt.Mint(owner, math.NewInt(1_000_000_000)))
	require.NoError(t, f.usdt.Approve(owner, custody, math.NewInt(1_000_000_000)))
	require.NoError(t, f.ledger.FundContract(owner, usdtAddr, math.NewInt(500_000_000)))

	return f
}

func (f *fixture) approveUSDC(t *testing.T, amount math.Int) {
	t.Helper()
	require.NoError(t, f.usdc.Approve(sender, custody, amount))
}

const hundredUSDC = 100_000_000

// 100 USDC at the default 50 bps fee and a 1:1 rate
var expectedTarget = math.NewInt(99_500_000)

func TestTokenRegistrySoftDelete(t *testing.T) {
	f := newFixture(t)

	cfg, ok := f.ledger.SupportedToken(usdcAddr)
	require.True(t, ok)
	require.True(t, cfg.IsSupported)
	require.Equal(t, minUSDC, cfg.MinAmount)
	require.Equal(t, maxUSDC, cfg.MaxAmount)

	// create a remittance that references USDC, then remove the token
	f.approveUSDC(t, math.NewInt(hundredUSDC))
	r, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, homeSelector, math.ZeroInt())
	require.NoError(t, err)

	require.NoError(t, f.ledger.RemoveSupportedToken(owner, usdcAddr))
	cfg, ok = f.ledger.SupportedToken(usdcAddr)
	require.True(t, ok)
	require.False(t, cfg.IsSupported)

	// historical record is untouched
	got, err := f.ledger.GetRemittance(r.ID)
	require.NoError(t, err)
	require.Equal(t, usdcAddr, got.SourceToken)
	require.Equal(t, types.StatusCompleted, got.Status)

	// but new remittances are rejected
	f.approveUSDC(t, math.NewInt(hundredUSDC))
	_, err = f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, homeSelector, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrTokenNotSupported)
}

func TestRegistryOwnerOnly(t *testing.T) {
	f := newFixture(t)

	err := f.ledger.AddSupportedToken(stranger, daiAddr, daiFeedAddr, minUSDC, maxUSDC)
	require.ErrorIs(t, err, types.ErrUnauthorized)
	require.ErrorIs(t, f.ledger.RemoveSupportedToken(stranger, usdcAddr), types.ErrUnauthorized)
	require.ErrorIs(t, f.ledger.AddSupportedChain(stranger, 42), types.ErrUnauthorized)
	require.ErrorIs(t, f.ledger.SetRemittanceFee(stranger, 100), types.ErrUnauthorized)
	require.ErrorIs(t, f.ledger.FundContract(stranger, usdtAddr, math.NewInt(1)), types.ErrUnauthorized)
}

func TestLocalRemittanceSettlesInSameCall(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(hundredUSDC))

	custodyBefore := f.usdt.BalanceOf(custody)

	r, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, homeSelector, math.ZeroInt())
	require.NoError(t, err)

	require.False(t, r.IsCrossChain)
	require.Equal(t, types.StatusCompleted, r.Status)
	require.Equal(t, common.Hash{}, r.CCIPMessageID)
	require.EqualValues(t, 1, f.ledger.RemittanceCount())

	// record fields round-trip the call's arguments
	got, err := f.ledger.GetRemittance(r.ID)
	require.NoError(t, err)
	assert.Equal(t, sender, got.Sender)
	assert.Equal(t, recipient, got.Recipient)
	assert.Equal(t, math.NewInt(hundredUSDC), got.Amount)
	assert.Equal(t, usdcAddr, got.SourceToken)
	assert.Equal(t, usdtAddr, got.TargetToken)
	assert.Equal(t, homeSelector, got.DestinationChain)

	// 1:1 stablecoin rate minus the 50 bps protocol fee
	require.Equal(t, expectedTarget, f.usdt.BalanceOf(recipient))
	require.Equal(t, custodyBefore.Sub(expectedTarget), f.usdt.BalanceOf(custody))
	// escrowed source amount now sits in custody
	require.Equal(t, math.NewInt(hundredUSDC), f.usdc.BalanceOf(custody))
}

func TestLocalRemittanceInsufficientLiquidityIsAtomic(t *testing.T) {
	f := newFixture(t)

	// custody holds 500 USDT; ask for ~995 USDT out
	amount := math.NewInt(1_000_000_000)
	f.approveUSDC(t, amount)

	senderBefore := f.usdc.BalanceOf(sender)

	_, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		amount, usdcAddr, usdtAddr, homeSelector, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInsufficientContractBalance)

	// nothing moved, nothing recorded
	require.Equal(t, senderBefore, f.usdc.BalanceOf(sender))
	require.True(t, f.usdc.BalanceOf(custody).IsZero())
	require.EqualValues(t, 0, f.ledger.RemittanceCount())
	require.Empty(t, f.ledger.UserRemittances(sender))
}

func TestCreateRemittanceValidation(t *testing.T) {
	f := newFixture(t)

	// unsupported source token
	_, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewIntWithDecimal(100, 18), daiAddr, usdtAddr, homeSelector, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrTokenNotSupported)
	require.True(t, f.usdc.BalanceOf(custody).IsZero())

	// unsupported destination chain
	f.approveUSDC(t, math.NewInt(hundredUSDC))
	_, err = f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, 999, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrChainNotSupported)

	// missing allowance
	require.NoError(t, f.usdc.Approve(sender, custody, math.ZeroInt()))
	_, err = f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, homeSelector, math.ZeroInt())
	require.ErrorIs(t, err, types.ErrInsufficientAllowance)
}

func TestAmountBounds(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name   string
		amount math.Int
		ok     bool
	}{
		{"min", minUSDC, true},
		{"max", maxUSDC, false}, // max is 10,000 USDC, sender only holds 1,000
		{"below min", minUSDC.SubRaw(1), false},
		{"above max", maxUSDC.AddRaw(1), false},
	}

	// top the sender up so max itself is creatable
	require.NoError(t, f.usdc.Mint(sender, maxUSDC))
	require.NoError(t, f.usdt.Mint(owner, maxUSDC))
	require.NoError(t, f.usdt.Approve(owner, custody, maxUSDC))
	require.NoError(t, f.ledger.FundContract(owner, usdtAddr, maxUSDC))
	cases[1].ok = true

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f.approveUSDC(t, tc.amount)
			_, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
				tc.amount, usdcAddr, usdtAddr, homeSelector, math.ZeroInt())
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, types.ErrAmountOutOfBounds)
			}
		})
	}
}

func TestCrossChainRemittanceLifecycle(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(hundredUSDC))

	fee := f.ledger.GetFee(sepoliaSelector, recipient, math.NewInt(hundredUSDC))
	require.True(t, fee.IsPositive())

	r, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, sepoliaSelector, fee)
	require.NoError(t, err)

	require.True(t, r.IsCrossChain)
	require.Equal(t, types.StatusPending, r.Status)
	require.NotEqual(t, common.Hash{}, r.CCIPMessageID)
	require.Equal(t, fee, r.CCIPFee)

	// escrow and fee are held in custody, recipient not yet paid
	require.Equal(t, math.NewInt(hundredUSDC), f.usdc.BalanceOf(custody))
	require.Equal(t, fee, f.native.BalanceOf(custody))
	require.True(t, f.usdt.BalanceOf(recipient).IsZero())

	// gateway delivers on the destination side
	require.NoError(t, f.router.Deliver(context.Background(), r.CCIPMessageID))

	got, err := f.ledger.GetRemittance(r.ID)
	require.NoError(t, err)
	require.Equal(t, types.StatusCompleted, got.Status)
	require.Equal(t, expectedTarget, f.usdt.BalanceOf(recipient))
}

func TestDuplicateDeliveryIsNoOp(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(hundredUSDC))

	fee := f.ledger.GetFee(sepoliaSelector, recipient, math.NewInt(hundredUSDC))
	r, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, sepoliaSelector, fee)
	require.NoError(t, err)

	require.NoError(t, f.router.Deliver(context.Background(), r.CCIPMessageID))
	require.Equal(t, expectedTarget, f.usdt.BalanceOf(recipient))

	// second delivery of the same message must not double-transfer
	require.NoError(t, f.router.Deliver(context.Background(), r.CCIPMessageID))
	require.Equal(t, expectedTarget, f.usdt.BalanceOf(recipient))
}

func TestCrossChainInsufficientFee(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(hundredUSDC))

	fee := f.ledger.GetFee(sepoliaSelector, recipient, math.NewInt(hundredUSDC))
	_, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, sepoliaSelector, fee.SubRaw(1))
	require.ErrorIs(t, err, types.ErrInsufficientFee)

	require.True(t, f.usdc.BalanceOf(custody).IsZero())
	require.EqualValues(t, 0, f.ledger.RemittanceCount())
}

func TestCrossChainOnlyQuotedFeeIsPulled(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(hundredUSDC))

	fee := f.ledger.GetFee(sepoliaSelector, recipient, math.NewInt(hundredUSDC))
	nativeBefore := f.native.BalanceOf(sender)

	// offer twice the quote; only the quote is consumed
	_, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, sepoliaSelector, fee.MulRaw(2))
	require.NoError(t, err)
	require.Equal(t, nativeBefore.Sub(fee), f.native.BalanceOf(sender))
}

func TestDeleteRemittanceRefundsOnce(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(hundredUSDC))

	fee := f.ledger.GetFee(sepoliaSelector, recipient, math.NewInt(hundredUSDC))
	r, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, sepoliaSelector, fee)
	require.NoError(t, err)

	usdcBefore := f.usdc.BalanceOf(sender)
	nativeBefore := f.native.BalanceOf(sender)

	require.NoError(t, f.ledger.DeleteRemittance(context.Background(), sender, r.ID))

	// exactly one escrow refund and one fee refund
	require.Equal(t, usdcBefore.Add(math.NewInt(hundredUSDC)), f.usdc.BalanceOf(sender))
	require.Equal(t, nativeBefore.Add(fee), f.native.BalanceOf(sender))

	got, err := f.ledger.GetRemittance(r.ID)
	require.NoError(t, err)
	require.Equal(t, types.StatusDeleted, got.Status)

	// second delete fails and refunds nothing more
	err = f.ledger.DeleteRemittance(context.Background(), sender, r.ID)
	require.ErrorIs(t, err, types.ErrAlreadyDeleted)
	require.Equal(t, usdcBefore.Add(math.NewInt(hundredUSDC)), f.usdc.BalanceOf(sender))
	require.Equal(t, nativeBefore.Add(fee), f.native.BalanceOf(sender))
}

func TestDeleteCompletedRemittanceFails(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(hundredUSDC))

	r, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, homeSelector, math.ZeroInt())
	require.NoError(t, err)

	senderBefore := f.usdc.BalanceOf(sender)
	err = f.ledger.DeleteRemittance(context.Background(), sender, r.ID)
	require.ErrorIs(t, err, types.ErrAlreadyCompleted)
	require.Equal(t, senderBefore, f.usdc.BalanceOf(sender))
}

func TestDeleteRemittanceAuthorization(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(hundredUSDC))

	fee := f.ledger.GetFee(sepoliaSelector, recipient, math.NewInt(hundredUSDC))
	r, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, sepoliaSelector, fee)
	require.NoError(t, err)

	require.ErrorIs(t, f.ledger.DeleteRemittance(context.Background(), stranger, r.ID), types.ErrUnauthorized)
	require.ErrorIs(t, f.ledger.DeleteRemittance(context.Background(), sender, 404), types.ErrNotFound)
}

func TestDeliveryAfterDeleteIsDropped(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(hundredUSDC))

	fee := f.ledger.GetFee(sepoliaSelector, recipient, math.NewInt(hundredUSDC))
	r, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, sepoliaSelector, fee)
	require.NoError(t, err)

	require.NoError(t, f.ledger.DeleteRemittance(context.Background(), sender, r.ID))

	// late delivery must not pay the recipient of a refunded remittance
	require.NoError(t, f.router.Deliver(context.Background(), r.CCIPMessageID))
	require.True(t, f.usdt.BalanceOf(recipient).IsZero())

	got, err := f.ledger.GetRemittance(r.ID)
	require.NoError(t, err)
	require.Equal(t, types.StatusDeleted, got.Status)
}

func TestSetRemittanceFee(t *testing.T) {
	f := newFixture(t)

	require.EqualValues(t, remit.DefaultFeeBps, f.ledger.RemittanceFee())
	require.ErrorIs(t, f.ledger.SetRemittanceFee(owner, 10_001), types.ErrInvalidFeeValue)

	// zero fee makes the stablecoin conversion exactly 1:1
	require.NoError(t, f.ledger.SetRemittanceFee(owner, 0))
	f.approveUSDC(t, math.NewInt(hundredUSDC))
	_, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, homeSelector, math.ZeroInt())
	require.NoError(t, err)
	require.Equal(t, math.NewInt(hundredUSDC), f.usdt.BalanceOf(recipient))
}

func TestExchangeAcrossDecimals(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ledger.AddSupportedToken(owner, daiAddr, daiFeedAddr,
		math.NewIntWithDecimal(1, 18), math.NewIntWithDecimal(10_000, 18)))
	require.NoError(t, f.ledger.SetRemittanceFee(owner, 0))

	// custody liquidity in DAI
	require.NoError(t, f.dai.Mint(owner, math.NewIntWithDecimal(1_000, 18)))
	require.NoError(t, f.dai.Approve(owner, custody, math.NewIntWithDecimal(1_000, 18)))
	require.NoError(t, f.ledger.FundContract(owner, daiAddr, math.NewIntWithDecimal(1_000, 18)))

	f.approveUSDC(t, math.NewInt(hundredUSDC))
	_, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, daiAddr, homeSelector, math.ZeroInt())
	require.NoError(t, err)

	// 100 USDC (6 decimals) becomes 100 DAI (18 decimals)
	require.Equal(t, math.NewIntWithDecimal(100, 18), f.dai.BalanceOf(recipient))
}

func TestUserIndicesIncludeDeleted(t *testing.T) {
	f := newFixture(t)

	f.approveUSDC(t, math.NewInt(2*hundredUSDC))
	r1, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, homeSelector, math.ZeroInt())
	require.NoError(t, err)

	fee := f.ledger.GetFee(sepoliaSelector, recipient, math.NewInt(hundredUSDC))
	r2, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, sepoliaSelector, fee)
	require.NoError(t, err)
	require.NoError(t, f.ledger.DeleteRemittance(context.Background(), sender, r2.ID))

	require.Equal(t, []uint64{r1.ID, r2.ID}, f.ledger.UserRemittances(sender))
	require.Equal(t, []uint64{r1.ID, r2.ID}, f.ledger.UserReceivedRemittances(recipient))
	require.Empty(t, f.ledger.UserRemittances(stranger))
}

func TestGetFeeUnconfiguredChain(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.ledger.GetFee(999, recipient, math.NewInt(hundredUSDC)).IsZero())
}

func TestContractTokenBalance(t *testing.T) {
	f := newFixture(t)

	bal, err := f.ledger.ContractTokenBalance(usdtAddr)
	require.NoError(t, err)
	require.Equal(t, math.NewInt(500_000_000), bal)

	_, err = f.ledger.ContractTokenBalance(common.HexToAddress("0xbeef"))
	require.ErrorIs(t, err, types.ErrTokenNotSupported)
}

func TestSwapTokens(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(hundredUSDC))

	out, err := f.ledger.SwapTokens(context.Background(), sender,
		usdcAddr, usdtAddr, math.NewInt(hundredUSDC), math.NewInt(95_000_000))
	require.NoError(t, err)
	require.Equal(t, expectedTarget, out)
	require.Equal(t, expectedTarget, f.usdt.BalanceOf(sender))
}

func TestSwapTokensMinAmountOut(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(hundredUSDC))

	senderBefore := f.usdc.BalanceOf(sender)
	_, err := f.ledger.SwapTokens(context.Background(), sender,
		usdcAddr, usdtAddr, math.NewInt(hundredUSDC), math.NewInt(hundredUSDC))
	require.ErrorIs(t, err, types.ErrInsufficientOutputAmount)
	require.Equal(t, senderBefore, f.usdc.BalanceOf(sender))
}

func TestEventsEmitted(t *testing.T) {
	f := newFixture(t)
	events := f.ledger.Subscribe()

	f.approveUSDC(t, math.NewInt(hundredUSDC))
	r, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, homeSelector, math.ZeroInt())
	require.NoError(t, err)

	created := <-events
	require.Equal(t, types.RemittanceCreated, created.Type)
	require.Equal(t, r.ID, created.Remittance.ID)

	completed := <-events
	require.Equal(t, types.RemittanceCompleted, completed.Type)
	require.Equal(t, types.StatusCompleted, completed.Remittance.Status)
}

func TestRemovedChainBlocksCreationNotDelivery(t *testing.T) {
	f := newFixture(t)
	f.approveUSDC(t, math.NewInt(2*hundredUSDC))

	fee := f.ledger.GetFee(sepoliaSelector, recipient, math.NewInt(hundredUSDC))
	r, err := f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, sepoliaSelector, fee)
	require.NoError(t, err)

	require.NoError(t, f.ledger.RemoveSupportedChain(owner, sepoliaSelector))

	// new creations are rejected
	_, err = f.ledger.CreateRemittance(context.Background(), sender, recipient,
		math.NewInt(hundredUSDC), usdcAddr, usdtAddr, sepoliaSelector, fee)
	require.ErrorIs(t, err, types.ErrChainNotSupported)

	// the in-flight remittance still settles
	require.NoError(t, f.router.Deliver(context.Background(), r.CCIPMessageID))

	got, err := f.ledger.GetRemittance(r.ID)
	require.NoError(t, err)
	require.Equal(t, types.StatusCompleted, got.Status)
	require.Equal(t, expectedTarget, f.usdt.BalanceOf(recipient))
}
