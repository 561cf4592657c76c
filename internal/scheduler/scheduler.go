// Package scheduler drives the recurring aggregation cycle with a cron
// schedule. Cycles never overlap: if one is still running when the next tick
// fires, the tick is skipped.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// CycleFunc runs one full aggregation cycle (scrape, filter, store, notify).
type CycleFunc func(ctx context.Context) error

// Scheduler wraps robfig/cron around a single recurring cycle.
type Scheduler struct {
	spec   string
	run    CycleFunc
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a scheduler that runs the cycle on the given cron spec.
// Descriptor specs like "@every 30m" and "@hourly" are accepted alongside
// standard five-field expressions.
func New(spec string, run CycleFunc, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		spec:   spec,
		run:    run,
		logger: logger,
	}
}

// Run starts the schedule and blocks until ctx is cancelled. One cycle runs
// immediately so a fresh daemon does not sit idle until the first tick. It
// returns nil on graceful shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.spec, func() { s.cycle(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}

	s.logger.Info("starting scheduler", "schedule", s.spec)
	s.cycle(ctx)
	c.Start()

	<-ctx.Done()
	s.logger.Info("shutting down scheduler")

	// Stop returns once no more ticks will fire; wait for a cycle that is
	// already in flight to drain.
	<-c.Stop().Done()
	return nil
}

// cycle runs one aggregation pass unless one is already in progress.
func (s *Scheduler) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.logger.Warn("previous cycle still running, skipping tick")
		return
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if err := s.run(ctx); err != nil {
		s.logger.Error("cycle failed", "error", err)
	}
}
