package cmd

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	appName           = "remitx-ledger"
	defaultConfigPath = "config.yaml"
)

// NewRootCmd assembles the CLI. Persistent flags feed the shared
// AppState; subcommands initialize it lazily so version/help never
// require a config file.
func NewRootCmd() *cobra.Command {
	a := NewAppState()

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Cross-chain remittance settlement ledger",
	}

	cmd.AddCommand(
		startCmd(a),
		configShowCmd(a),
		versionCmd(),
	)

	return addAppPersistantFlags(cmd, a)
}

func Execute() {
	// optional local overrides, ignored when absent
	_ = godotenv.Load()

	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
