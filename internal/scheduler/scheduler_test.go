package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_InvalidSpec(t *testing.T) {
	s := New("every day at noon", func(ctx context.Context) error { return nil }, discardLogger())

	if err := s.Run(context.Background()); err == nil {
		t.Fatal("expected an error for an unparseable schedule")
	}
}

func TestRun_ImmediateCycle(t *testing.T) {
	var cycles atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	s := New("@every 1h", func(ctx context.Context) error {
		cycles.Add(1)
		cancel()
		return nil
	}, discardLogger())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() = %v, want nil on cancellation", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after ctx cancellation")
	}

	// The cycle must have fired without waiting an hour for the first tick.
	if c := cycles.Load(); c != 1 {
		t.Errorf("expected exactly 1 immediate cycle, got %d", c)
	}
}

func TestRun_RepeatedTicks(t *testing.T) {
	var cycles atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New("@every 50ms", func(ctx context.Context) error {
		if cycles.Add(1) >= 3 {
			cancel()
		}
		return nil
	}, discardLogger())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler never reached 3 cycles")
	}
	if c := cycles.Load(); c < 3 {
		t.Errorf("expected at least 3 cycles, got %d", c)
	}
}

func TestCycle_SkipsWhenAlreadyRunning(t *testing.T) {
	var active, overlaps atomic.Int32
	release := make(chan struct{})

	s := New("@every 1h", func(ctx context.Context) error {
		if active.Add(1) > 1 {
			overlaps.Add(1)
		}
		<-release
		active.Add(-1)
		return nil
	}, discardLogger())

	ctx := context.Background()
	go s.cycle(ctx)

	// Give the first cycle a moment to take the slot, then tick again.
	time.Sleep(50 * time.Millisecond)
	s.cycle(ctx)
	close(release)
	time.Sleep(50 * time.Millisecond)

	if o := overlaps.Load(); o != 0 {
		t.Errorf("expected overlapping ticks to be skipped, got %d overlaps", o)
	}
}
