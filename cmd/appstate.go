package cmd

import (
	"fmt"
	"os"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/remitx-network/remitx-ledger/types"
)

// AppState is the modifiable state of the application.
type AppState struct {
	Config *types.Config

	ConfigPath string

	Debug bool

	LogLevel string

	Logger log.Logger
}

func NewAppState() *AppState {
	return &AppState{}
}

// InitAppState checks if a logger and config are present. If not, it adds them to the AppState
func (a *AppState) InitAppState() {
	if a.Logger == nil {
		a.InitLogger()
	}
	if a.Config == nil {
		a.loadConfigFile()
	}
}

func (a *AppState) InitLogger() {
	// info level is default
	level := zerolog.InfoLevel
	switch a.LogLevel {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// a.Debug overrides a.loglevel
	if a.Debug {
		a.Logger = log.NewLogger(os.Stdout, log.LevelOption(zerolog.DebugLevel))
	} else {
		a.Logger = log.NewLogger(os.Stdout, log.LevelOption(level))
	}
}

// loadConfigFile loads a configuration into the AppState. It uses the AppState ConfigPath
// to determine file path to config.
func (a *AppState) loadConfigFile() {
	if a.Logger == nil {
		a.InitLogger()
	}
	config, err := types.ParseConfig(a.ConfigPath)
	if err != nil {
		a.Logger.Error("Unable to parse config file", "location", a.ConfigPath, "err", err)
		os.Exit(1)
	}
	a.Logger.Info("Successfully parsed config file", "location", a.ConfigPath)
	a.Config = config

	err = a.validateConfig()
	if err != nil {
		a.Logger.Error("Invalid config", "err", err)
		os.Exit(1)
	}
}

// validateConfig checks the AppState Config for any invalid settings.
func (a *AppState) validateConfig() error {
	cfg := a.Config

	if !common.IsHexAddress(cfg.Owner) {
		return fmt.Errorf("owner must be a hex address in the config (owner: %s)", cfg.Owner)
	}
	if !common.IsHexAddress(cfg.CustodyAddress) {
		return fmt.Errorf("custody-address must be a hex address in the config (custody-address: %s)", cfg.CustodyAddress)
	}
	if cfg.HomeChainSelector == 0 {
		return fmt.Errorf("home-chain-selector must be set in the config")
	}
	if cfg.RemittanceFeeBps > 10_000 {
		return fmt.Errorf("remittance-fee-bps must be at most 10000 (got: %d)", cfg.RemittanceFeeBps)
	}
	if cfg.Api.ListenAddress == "" {
		return fmt.Errorf("api listen-address must be set in the config")
	}

	// ensure at least 1 token and 1 chain
	if len(cfg.Tokens) == 0 {
		return fmt.Errorf("at least one token must be configured")
	}
	if len(cfg.Chains) == 0 {
		return fmt.Errorf("at least one chain must be configured")
	}

	for symbol, entry := range cfg.Tokens {
		if err := a.validateToken(symbol, entry); err != nil {
			return err
		}
	}

	for selector, fee := range cfg.Gateway.BaseFees {
		if _, ok := math.NewIntFromString(fee); !ok {
			return fmt.Errorf("gateway base-fee for selector %d is not an integer (fee: %s)", selector, fee)
		}
	}

	return nil
}

// validateToken ensures a token entry is configured correctly.
func (a *AppState) validateToken(symbol string, entry types.TokenEntry) error {
	if !common.IsHexAddress(entry.Address) {
		return fmt.Errorf("token address must be a hex address (token: %s) (address: %s)", symbol, entry.Address)
	}
	if !common.IsHexAddress(entry.PriceFeed) {
		return fmt.Errorf("price-feed must be a hex address (token: %s) (price-feed: %s)", symbol, entry.PriceFeed)
	}

	price, ok := math.NewIntFromString(entry.Price)
	if !ok || !price.IsPositive() {
		return fmt.Errorf("price must be a positive integer (token: %s) (price: %s)", symbol, entry.Price)
	}

	minAmount, ok := math.NewIntFromString(entry.MinAmount)
	if !ok || minAmount.IsNegative() {
		return fmt.Errorf("min-amount must be a non-negative integer (token: %s) (min-amount: %s)", symbol, entry.MinAmount)
	}
	maxAmount, ok := math.NewIntFromString(entry.MaxAmount)
	if !ok || maxAmount.LT(minAmount) {
		return fmt.Errorf("max-amount must be an integer at least min-amount (token: %s) (max-amount: %s)", symbol, entry.MaxAmount)
	}

	return nil
}
