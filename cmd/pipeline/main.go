// Command hotstreak-pipeline fetches the HotStreak game board and sport
// categories and joins them into data/processed/matches_with_odds_*.json.
//
// Usage:
//
//	hotstreak-pipeline                       run all steps
//	hotstreak-pipeline fetch-matches
//	hotstreak-pipeline fetch-categories
//	hotstreak-pipeline combine
//	hotstreak-pipeline migrate up|down [n]|version|force <v>|goto <v>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/hotstreak-pipeline/internal/app"
	"github.com/riskibarqy/hotstreak-pipeline/internal/config"
	"github.com/riskibarqy/hotstreak-pipeline/internal/observability"
	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/logging"
	"github.com/riskibarqy/hotstreak-pipeline/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

func main() {
	_ = godotenv.Load(".env")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if code := exitCode(err); code != 0 {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(code)
	}
}

// exitCode maps a run result to the process status. An interrupt is a clean exit.
func exitCode(err error) int {
	if err == nil || errors.Is(err, usecase.ErrInterrupted) {
		return 0
	}
	return 1
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "hotstreak-pipeline",
		Short:         "Fetch HotStreak matches and categories and merge them",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return a.Pipeline.Run(ctx)
			})
		},
	}

	root.AddCommand(fetchMatchesCmd())
	root.AddCommand(fetchCategoriesCmd())
	root.AddCommand(combineCmd())
	root.AddCommand(migrateCmd())
	return root
}

func fetchMatchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-matches",
		Short: "Fetch the game board into data/raw/matches/<timestamp>",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return usecase.NewFetchStep(usecase.StepFetchMatches, a.MatchFetcher.Fetch, true).Run(ctx)
			})
		},
	}
}

func fetchCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch-categories",
		Short: "Fetch the sport categories into data/raw/categories/<timestamp>",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return usecase.NewFetchStep(usecase.StepFetchCategories, a.CategoryFetcher.Fetch, true).Run(ctx)
			})
		},
	}
}

func combineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "combine",
		Short: "Merge the latest raw matches and categories into data/processed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				a.Combiner.Combine(ctx)
				return nil
			})
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate <up|down|version|force|goto> [arg]",
		Short:     "Manage the raw payload archive schema",
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: []string{app.MigrateUp, app.MigrateDown, app.MigrateVersion, app.MigrateForce, app.MigrateGoto},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return app.RunMigration(cfg, logger, cmd.OutOrStdout(), args[0], args[1:])
		},
	}
}

func setup() (config.Config, *logging.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.New(cfg.LogFormat, cfg.LogLevel)
	logging.SetDefault(logger)
	return cfg, logger, nil
}

func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flush traces failed", "error", err)
		}
	}()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	return fn(ctx, a)
}
