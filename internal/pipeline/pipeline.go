// Package pipeline wires one full aggregation cycle: fetch from every
// source, filter, persist, and alert on whatever is genuinely new.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jobsift/jobsift/internal/aggregator"
	"github.com/jobsift/jobsift/internal/model"
)

// Pipeline holds the fixed set of collaborators for a cycle.
type Pipeline struct {
	agg      *aggregator.Aggregator
	scrapers []model.Scraper
	filter   model.JobFilter
	store    model.Store
	notifier model.Notifier
	logger   *slog.Logger
}

// New assembles a pipeline. filter and notifier may be nil: a nil filter
// passes every job through, a nil notifier suppresses alerts.
func New(agg *aggregator.Aggregator, scrapers []model.Scraper, filter model.JobFilter, store model.Store, notifier model.Notifier, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		agg:      agg,
		scrapers: scrapers,
		filter:   filter,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Run executes one cycle. Jobs that survive the filter are upserted, then the
// notify batch is drawn from the store's unalerted set: fresh inserts land
// there, and jobs whose delivery failed in an earlier cycle are still in it.
// Fingerprints are marked sent only after a successful delivery, so alerts
// are at-least-once.
func (p *Pipeline) Run(ctx context.Context) error {
	jobs := p.agg.RunAll(ctx, p.scrapers)
	p.logger.Info("aggregation complete", "sources", len(p.scrapers), "jobs", len(jobs))

	matched := jobs
	if p.filter != nil {
		matched = make([]model.Job, 0, len(jobs))
		for _, j := range jobs {
			if p.filter.Match(j) {
				matched = append(matched, j)
			}
		}
		p.logger.Info("filter applied", "matched", len(matched), "dropped", len(jobs)-len(matched))
	}

	res, err := p.store.UpsertJobs(ctx, matched)
	if err != nil {
		return fmt.Errorf("persisting jobs: %w", err)
	}
	p.logger.Info("store updated",
		"inserted", res.Inserted,
		"updated", res.Updated,
		"reposts", res.Reposts,
	)

	if p.notifier == nil {
		return nil
	}

	pending, err := p.store.ListUnalerted(ctx)
	if err != nil {
		return fmt.Errorf("listing unalerted jobs: %w", err)
	}

	// Stores that persist nothing (dry runs) report an empty unalerted set;
	// fall back to this cycle's inserts so the batch is never silently lost.
	seen := make(map[string]bool, len(pending))
	for _, j := range pending {
		seen[j.Fingerprint] = true
	}
	batch := pending
	for _, j := range res.NewJobs {
		if !seen[j.Fingerprint] {
			batch = append(batch, j)
		}
	}
	if len(batch) == 0 {
		return nil
	}

	if err := p.notifier.Notify(batch); err != nil {
		// Alerts failing is not fatal for the cycle; unmarked jobs stay in
		// the unalerted set and are retried next cycle.
		p.logger.Error("notification failed", "jobs", len(batch), "error", err)
		return nil
	}

	fingerprints := make([]string, len(batch))
	for i, j := range batch {
		fingerprints[i] = j.Fingerprint
	}
	if err := p.store.MarkAlertSent(ctx, fingerprints); err != nil {
		return fmt.Errorf("marking alerts sent: %w", err)
	}
	return nil
}
