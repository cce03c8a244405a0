package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/use-agent/bookbuddy/config"
)

// cfg is loaded once before any command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bookbuddy",
	Short: "bookbuddy scrapes a Goodreads shelf and searches used-book prices for it.",
	Long: `bookbuddy scrapes a Goodreads shelf and searches used-book prices for it.

Without a subcommand it serves the form on the loopback interface and opens
it in the system browser. Configuration comes from BOOKBUDDY_* variables.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		initLogger(cfg.Log)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
