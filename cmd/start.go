package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/remitx-network/remitx-ledger/api"
	"github.com/remitx-network/remitx-ledger/automation"
	"github.com/remitx-network/remitx-ledger/gateway"
	"github.com/remitx-network/remitx-ledger/oracle"
	"github.com/remitx-network/remitx-ledger/remit"
	"github.com/remitx-network/remitx-ledger/token"
)

// the wrapped-native vault cross-chain fees are paid in
var nativeTokenAddress = common.HexToAddress("0x9b14B28f6Ce775bD5a55d8858D51D8627747D0e2")

const (
	feedDecimals     = 8
	schedulerTick    = time.Minute
	deliveryInterval = 5 * time.Second
)

func startCmd(a *AppState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the remittance ledger, gateway delivery loop and API server",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.InitAppState()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := cmd.Flags().GetInt16(flagMetricsPort)
			if err != nil {
				return err
			}
			// config value applies unless the flag was given explicitly
			if !cmd.Flags().Changed(flagMetricsPort) && a.Config.MetricsPort != 0 {
				port = a.Config.MetricsPort
			}
			return Start(cmd.Context(), a, port)
		},
	}
	addMetricsPortFlag(cmd)
	return cmd
}

// Start wires the full node from config: mock token vaults and static
// price feeds, the loopback gateway router, the ledger with its
// registries seeded, the recurring-remittance scheduler and the HTTP
// API. It blocks until the context is canceled or the API listener
// fails.
func Start(ctx context.Context, a *AppState, metricsPort int16) error {
	cfg := a.Config
	logger := a.Logger

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	owner := common.HexToAddress(cfg.Owner)
	custody := common.HexToAddress(cfg.CustodyAddress)

	router := gateway.NewRouter(logger, cfg.HomeChainSelector)
	for selector, raw := range cfg.Gateway.BaseFees {
		fee, ok := math.NewIntFromString(raw)
		if !ok {
			return fmt.Errorf("invalid gateway base fee for selector %d: %s", selector, raw)
		}
		router.SetBaseFee(selector, fee)
	}

	native := token.NewBank("WETH", nativeTokenAddress, 18)
	feeds := oracle.NewRegistry()
	banks := make([]*token.Bank, 0, len(cfg.Tokens))
	for symbol, entry := range cfg.Tokens {
		bank := token.NewBank(symbol, common.HexToAddress(entry.Address), entry.Decimals)
		banks = append(banks, bank)

		price, _ := math.NewIntFromString(entry.Price)
		feeds.Register(oracle.NewStaticFeed(
			common.HexToAddress(entry.PriceFeed), price, feedDecimals, symbol+" / USD"))
	}

	ledger := remit.NewLedger(logger, owner, custody, cfg.HomeChainSelector, router, feeds, native).
		WithMetrics(remit.InitPromMetrics(metricsPort))

	ledger.RegisterVault(native)
	for _, bank := range banks {
		ledger.RegisterVault(bank)
	}
	for symbol, entry := range cfg.Tokens {
		minAmount, _ := math.NewIntFromString(entry.MinAmount)
		maxAmount, _ := math.NewIntFromString(entry.MaxAmount)
		if err := ledger.AddSupportedToken(owner,
			common.HexToAddress(entry.Address), common.HexToAddress(entry.PriceFeed),
			minAmount, maxAmount); err != nil {
			return fmt.Errorf("registering token %s: %w", symbol, err)
		}
	}
	for name, selector := range cfg.Chains {
		if err := ledger.AddSupportedChain(owner, selector); err != nil {
			return fmt.Errorf("registering chain %s: %w", name, err)
		}
		// loopback deployment: this ledger is also the destination side
		router.RegisterReceiver(selector, ledger)
	}
	if err := ledger.SetRemittanceFee(owner, cfg.RemittanceFeeBps); err != nil {
		return err
	}

	scheduler := automation.NewScheduler(logger, ledger)
	go scheduler.Start(ctx, schedulerTick)

	// gateway delivery loop, stands in for destination-chain finality
	go func() {
		ticker := time.NewTicker(deliveryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := router.DeliverPending(ctx); err != nil {
					logger.Error("gateway delivery failed", "err", err)
				}
			}
		}
	}()

	server := api.NewServer(logger, ledger, scheduler)
	if cfg.Api.EnableFaucet {
		mintable := make([]token.MintableVault, 0, len(banks)+1)
		for _, bank := range banks {
			mintable = append(mintable, bank)
		}
		mintable = append(mintable, native)
		server.EnableFaucet(mintable...)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Api.ListenAddress, cfg.Api.TrustedProxies)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}
