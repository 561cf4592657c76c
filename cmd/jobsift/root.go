package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/jobsift/jobsift/internal/aggregator"
	"github.com/jobsift/jobsift/internal/config"
	"github.com/jobsift/jobsift/internal/filter"
	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/notifier"
	"github.com/jobsift/jobsift/internal/pipeline"
	"github.com/jobsift/jobsift/internal/ratelimit"
	"github.com/jobsift/jobsift/internal/scraper"
	"github.com/jobsift/jobsift/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobsift",
	Short: "Job aggregator — one deduplicated feed from every board",
	Long:  "JobSift pulls postings from ATS boards, APIs, and MCP search servers into one deduplicated store, with filtering and alerts on new matches.",
	// Default to `start` so that `jobsift` with no args runs the daemon.
	// This keeps systemd unit files that invoke the binary directly working.
	RunE: runStart,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSIFT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSIFT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSIFT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// setupStore opens the configured persistence backend.
func setupStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (model.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		logger.Info("using postgres store")
		return store.NewPostgresStore(ctx, cfg.Store.DSN)
	default:
		logger.Info("using sqlite store", "path", cfg.Store.Path)
		return store.NewSQLiteStore(cfg.Store.Path)
	}
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func setupFilter(cfg *config.Config) model.JobFilter {
	f := cfg.Filters
	if len(f.TitleKeywords) == 0 && len(f.TitleExcludeKeywords) == 0 &&
		len(f.Locations) == 0 && len(f.ExcludeLocations) == 0 && !f.RemoteOnly {
		return nil
	}
	return filter.New(f.TitleKeywords, f.TitleExcludeKeywords, f.Locations, f.ExcludeLocations, f.RemoteOnly)
}

// buildScrapers instantiates one scraper per enabled source. All sources
// share the limiter; each consumes tokens under its own source name.
func buildScrapers(cfg *config.Config, httpClient *http.Client, limiter *ratelimit.Limiter, logger *slog.Logger) []model.Scraper {
	var scrapers []model.Scraper
	for _, src := range cfg.Sources {
		if !src.Enabled {
			continue
		}

		var s model.Scraper
		switch src.Type {
		case "greenhouse":
			s = scraper.NewGreenhouse(src.Name, src.BoardToken, src.Company, httpClient, limiter, src.HourlyQuota)
		case "lever":
			s = scraper.NewLever(src.Name, src.BoardToken, src.Company, httpClient, limiter, src.HourlyQuota)
		case "usajobs":
			s = scraper.NewUSAJobs(src.Name, src.APIKey, src.UserAgent, src.Keyword, src.Location, httpClient, limiter, src.HourlyQuota)
		case "mcp":
			s = scraper.NewMCPSearch(src.Name, src.Endpoint, src.Tool, src.Keyword, src.Location, limiter, src.HourlyQuota)
		default:
			// config.Load validates types; this only fires on a stale config.
			logger.Warn("unsupported source type, skipping", "source", src.Name, "type", src.Type)
			continue
		}

		scrapers = append(scrapers, s)
		logger.Info("registered source", "name", src.Name, "type", src.Type, "hourly_quota", src.HourlyQuota)
	}
	return scrapers
}

// buildPipeline assembles a full aggregation pipeline over the given store.
func buildPipeline(cfg *config.Config, jobStore model.Store, httpClient *http.Client, logger *slog.Logger) *pipeline.Pipeline {
	limiter := ratelimit.NewLimiter()
	scrapers := buildScrapers(cfg, httpClient, limiter, logger)
	n := setupNotifier(cfg, httpClient, logger)
	agg := aggregator.New(logger)
	return pipeline.New(agg, scrapers, setupFilter(cfg), jobStore, n, logger)
}
