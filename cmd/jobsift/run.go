package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/store"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one aggregation cycle and exit",
	Long:  "Fetches every enabled source once, filters, stores, and alerts on new jobs. With --dry-run nothing is persisted and every match is reported as new.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "do not persist anything, report every match as new")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobStore, err := openRunStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer jobStore.Close()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	p := buildPipeline(cfg, jobStore, httpClient, logger)

	if err := p.Run(ctx); err != nil {
		logger.Error("cycle failed", "error", err)
		os.Exit(1)
	}
	logger.Info("cycle complete")
	return nil
}

// openRunStore honors --dry-run by swapping in the nop store.
func openRunStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (model.Store, error) {
	if dryRun {
		logger.Info("dry-run mode enabled, nothing will be persisted")
		return store.NewNopStore(), nil
	}
	return setupStore(ctx, cfg, logger)
}
