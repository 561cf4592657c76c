// Package aggregator runs all registered sources concurrently and merges
// their output into one job list. Failures are isolated per source: an error
// or even a panic in one scraper never stops the others or the caller.
package aggregator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/scrapererr"
)

// Aggregator fans a scrape run out over all sources.
type Aggregator struct {
	logger *slog.Logger
}

// New creates an Aggregator that logs per-source outcomes to logger.
func New(logger *slog.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// RunAll starts one goroutine per scraper and returns the union of all
// successfully fetched jobs after every goroutine has finished. Sources that
// return an error or panic contribute nothing and are logged. Ordering
// across sources is unspecified; within a source, discovery order is kept.
// No deduplication happens here — every job carries its fingerprint and the
// store collapses duplicates on upsert.
func (a *Aggregator) RunAll(ctx context.Context, scrapers []model.Scraper) []model.Job {
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		all []model.Job
	)

	for _, s := range scrapers {
		wg.Add(1)
		go func(s model.Scraper) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					a.logger.Error("scraper panicked",
						"source", s.Name(),
						"panic", r,
					)
				}
			}()

			start := time.Now()
			a.logger.Info("scrape started", "source", s.Name())

			jobs, err := s.Fetch(ctx)
			elapsed := time.Since(start)

			if err != nil {
				a.logger.Error("scrape failed",
					"source", s.Name(),
					"elapsed", elapsed.Round(time.Millisecond).String(),
					"retryable", scrapererr.IsRetryable(err),
					"user_action", scrapererr.RequiresUserAction(err),
					"error", scrapererr.UserMessage(err),
				)
				return
			}

			mu.Lock()
			all = append(all, jobs...)
			mu.Unlock()

			a.logger.Info("scrape finished",
				"source", s.Name(),
				"jobs", len(jobs),
				"elapsed", elapsed.Round(time.Millisecond).String(),
			)
		}(s)
	}

	wg.Wait()
	return all
}
