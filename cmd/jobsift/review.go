package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review stored jobs interactively",
	Long:  "Opens a terminal UI over the stored jobs: browse, hide, bookmark, and open postings.",
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	jobStore, err := setupStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer jobStore.Close()

	return review.Run(ctx, jobStore)
}
