package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/go-daily-quote/internal/config"
	"github.com/tbourn/go-daily-quote/internal/hashing"
	"github.com/tbourn/go-daily-quote/internal/quotes"
	"github.com/tbourn/go-daily-quote/internal/repo"
	"github.com/tbourn/go-daily-quote/internal/sysutil"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dailyquote",
		Short:         "Daily quote API server and tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// quote-id is a pure function of its argument.
			if cmd.Name() == "quote-id" {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			sysutil.SetupLogger(cfg.LogLevel, cfg.LogPretty, cmd.ErrOrStderr())
			cmd.SetContext(withConfig(cmd.Context(), cfg))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configFrom(cmd.Context()))
		},
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newTodayCmd(), newQuoteIDCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configFrom(cmd.Context()))
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd.Context())
			db, err := repo.Open(cfg.DB)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer repo.Close(db)
			if err := repo.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database\n", cfg.DB.Driver)
			return nil
		},
	}
}

func newTodayCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Print the quote of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFrom(cmd.Context())
			now := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t
			}
			store, err := quotes.Load(cmd.Context(), cfg.QuotesSource)
			if err != nil {
				return err
			}
			sel, err := quotes.NewSelector(cfg.SiteTZ)
			if err != nil {
				return err
			}
			p, ok := sel.Pick(store, now)
			if !ok {
				return errors.New("quote list is empty")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t#%d\t%s\n", p.DateYmd, p.Quote.ID, p.Index, p.Quote.Quote)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "instant to evaluate (RFC 3339), default now")
	return cmd
}

func newQuoteIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote-id <text>",
		Short: "Print the content address of a quote text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), hashing.QuoteID(args[0]))
			return nil
		},
	}
}

type configKey struct{}

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey{}, cfg)
}

func configFrom(ctx context.Context) config.Config {
	cfg, _ := ctx.Value(configKey{}).(config.Config)
	return cfg
}
