package cli

import (
	"github.com/Zhima-Mochi/minishop-catalog/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

type rootOptions struct {
	settings config.Settings
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{settings: config.FromEnv()}

	cmd := &cobra.Command{
		Use:           "minishop",
		Short:         "A small store: browse the catalog and place orders",
		Long:          "minishop keeps a catalog of stocked, non-stocked and limited products with optional promotions, and prices orders line by line.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.settings.CatalogFile, "catalog", opts.settings.CatalogFile, "catalog YAML file (default: built-in catalog)")
	cmd.PersistentFlags().StringVar(&opts.settings.LogLevel, "log-level", opts.settings.LogLevel, "log level: debug, info, warn, error")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newMenuCmd(opts))
	cmd.AddCommand(newProductsCmd(opts))
	cmd.AddCommand(newTotalCmd(opts))
	cmd.AddCommand(newOrderCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
