package commands

import (
	"fmt"

	"ketscraper/internal/components/telemetry"
	"ketscraper/internal/store"

	"github.com/spf13/cobra"
)

var listFlags struct {
	explanations bool
	config       Config
}

func init() {
	flags := listCmd.Flags()
	flags.BoolVar(&listFlags.explanations, "explanations", false, "Include explanations, rendered as markdown.")
	flags.StringVar(&listFlags.config.DatabasePath, "database-path", "", fmt.Sprintf("The database to read from (default %q).", store.DefaultDSN))
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [--database-path <dsn>] [--explanations]",
	Short: "Prints the questions stored in a database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(listFlags.config)
		if err != nil {
			return err
		}

		s, err := store.Open(ctx, cfg.DatabasePath, telemetry.SlogAPI{}, store.Options{Echo: debug})
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		records, err := s.Questions(ctx)
		if err != nil {
			return err
		}
		return renderQuestions(cmd.OutOrStdout(), records, listFlags.explanations)
	},
}
