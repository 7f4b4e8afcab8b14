package commands

import (
	"fmt"
	"log/slog"
	"time"

	"ketscraper/internal/components/telemetry"
	"ketscraper/internal/scrapers/testaiket"
	"ketscraper/internal/store"

	"github.com/spf13/cobra"
)

var scrapeFlags struct {
	category string
	group    int
	summary  bool
	config   Config
}

func init() {
	flags := scrapeCmd.Flags()
	flags.StringVar(&scrapeFlags.category, "category", "", "The license category to scrape, one of A, B, C, CE, D.")
	flags.IntVar(&scrapeFlags.group, "group", 0, "The question group, passed to the site as is.")
	flags.BoolVar(&scrapeFlags.summary, "summary", false, "Print a table of the stored questions when done.")
	flags.StringVar(&scrapeFlags.config.DatabasePath, "database-path", "", fmt.Sprintf("The database to write to, a sqlite:/// path, :memory: or a libsql url (default %q).", store.DefaultDSN))
	flags.StringVar(&scrapeFlags.config.Password, "password", "", "Authenticate with this access code.")
	flags.StringVar(&scrapeFlags.config.Cookie, "cookie", "", "Authenticate with an existing session cookie instead of logging in.")
	flags.StringVar(&scrapeFlags.config.DumpHttp, "dump-http", "", "With --debug, write every HTTP exchange to files in this directory.")

	scrapeCmd.MarkFlagRequired("category")
	scrapeCmd.MarkFlagsMutuallyExclusive("cookie", "password")

	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape --category <A|B|C|CE|D> [--password <code> | --cookie <session>]",
	Short: "Scrapes one page of practice questions and writes it to a database.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		category, err := testaiket.ParseCategory(scrapeFlags.category)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(scrapeFlags.config)
		if err != nil {
			return err
		}

		tel := telemetry.SlogAPI{}

		var dump telemetry.MessageOutput
		if debug && cfg.DumpHttp != "" {
			output, err := telemetry.NewFilesystemOutput(cfg.DumpHttp)
			if err != nil {
				return fmt.Errorf("create http dump directory: %w", err)
			}
			dump = output
		}

		client, err := testaiket.NewClient(testaiket.ClientOptions{
			BaseUrl:           cfg.BaseUrl,
			Password:          cfg.Password,
			Cookie:            cfg.Cookie,
			UserAgent:         cfg.UserAgent,
			RequestsPerSecond: cfg.RequestsPerSecond,
			CloudflareBypass:  true,
			Dump:              dump,
		}, tel)
		if err != nil {
			return err
		}

		out, err := store.Open(ctx, cfg.DatabasePath, tel, store.Options{Echo: debug})
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer out.Close()

		if cfg.Cookie == "" {
			slog.Info("logging in")
			cookie, err := client.LogIn(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session cookie: %s\n", cookie)
		}

		t1 := time.Now()
		err = client.ScrapeAndLogOut(ctx, out.Batch(), category, scrapeFlags.group)
		if err != nil {
			return err
		}
		slog.Info(
			"scrape finished",
			"category", category,
			"group", scrapeFlags.group,
			"seconds", time.Since(t1).Seconds(),
		)

		if !scrapeFlags.summary {
			return nil
		}
		records, err := out.Questions(ctx)
		if err != nil {
			return err
		}
		return renderQuestions(cmd.OutOrStdout(), records, false)
	},
}
