package types

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk application configuration. Amount fields are
// decimal strings so operators can write full-precision integers without
// YAML numeric truncation.
type Config struct {
	// admin account for registry and fee operations
	Owner string `yaml:"owner"`
	// the ledger's own account, holder of all escrowed balances
	CustodyAddress string `yaml:"custody-address"`

	HomeChainSelector uint64 `yaml:"home-chain-selector"`
	RemittanceFeeBps  uint64 `yaml:"remittance-fee-bps"`

	Api struct {
		ListenAddress  string   `yaml:"listen-address"`
		TrustedProxies []string `yaml:"trusted-proxies"`
		EnableFaucet   bool     `yaml:"enable-faucet"`
	} `yaml:"api"`

	MetricsPort int16 `yaml:"metrics-port"`

	Tokens map[string]TokenEntry `yaml:"tokens"`
	Chains map[string]uint64     `yaml:"chains"`

	Gateway struct {
		// base fee (native wei) quoted per destination selector;
		// selectors absent from the map quote zero
		BaseFees map[uint64]string `yaml:"base-fees"`
	} `yaml:"gateway"`
}

// TokenEntry configures one supported token plus its mock deployment
// parameters for local runs.
type TokenEntry struct {
	Address   string `yaml:"address"`
	PriceFeed string `yaml:"price-feed"`
	Decimals  uint8  `yaml:"decimals"`
	// static oracle answer, 8 decimal places (e.g. "100000000" = $1)
	Price     string `yaml:"price"`
	MinAmount string `yaml:"min-amount"`
	MaxAmount string `yaml:"max-amount"`
}

// ParseConfig parses the app config file.
func ParseConfig(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
