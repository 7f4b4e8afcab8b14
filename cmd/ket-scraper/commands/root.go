package commands

import (
	"context"

	"ketscraper/internal/components/telemetry"

	"github.com/spf13/cobra"
)

var (
	debug      bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "ket-scraper",
	Short:         "ket-scraper copies the practice questions of testaiket.lt into a database.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(debug)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging, including every SQL statement.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "ket.json5", "The config file to read defaults from, it may be absent.")
}

// ExecuteContext runs the command line, the returned error has not been printed yet.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
