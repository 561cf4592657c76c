package model

import (
	"context"
	"time"
)

// Job is the canonical record for a posting seen through any source.
// Fingerprint is the dedup identity: two Jobs with the same fingerprint are
// the same posting, and the store merges them on upsert.
type Job struct {
	Fingerprint string // SHA-256 over normalized fields, hex-encoded
	Title       string
	Company     string
	URL         string     // direct apply link
	Location    string     // raw location string, may be empty
	Description string     // plain-text description, may be empty
	Source      string     // which scraper produced this record
	Remote      bool
	SalaryMin   *float64   // nullable (most boards omit salary)
	SalaryMax   *float64
	Currency    string
	PostedAt    *time.Time // nullable (not all APIs provide this)

	// Store-owned bookkeeping. Scrapers leave these zero; the store fills
	// them in on upsert.
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FirstSeen   *time.Time
	LastSeen    time.Time
	TimesSeen   int
	RepostCount int

	// User state, toggled through the review TUI or the HTTP API.
	Hidden             bool
	Bookmarked         bool
	ImmediateAlertSent bool
	IncludedInDigest   bool

	// Set by downstream scoring collaborators, never by this pipeline.
	Score      *float64
	GhostScore *float64
}

// Scraper is the contract every source implements. Fetch returns all jobs the
// source currently exposes, each carrying its fingerprint. Implementations
// must call their rate limiter's Wait before every network request and must
// report every failure as a *scrapererr.Error.
type Scraper interface {
	Fetch(ctx context.Context) ([]Job, error)
	Name() string
}

// Store persists aggregated jobs, collapsing duplicates by fingerprint.
type Store interface {
	// UpsertJobs inserts unseen fingerprints as new rows. For an existing
	// fingerprint it updates last_seen/updated_at and increments times_seen
	// (and repost_count when the posted-at date differs); it never creates
	// a second row for the same fingerprint.
	UpsertJobs(ctx context.Context, jobs []Job) (UpsertResult, error)
	ListJobs(ctx context.Context, q JobQuery) ([]Job, error)
	// ListUnalerted returns visible jobs whose immediate alert has not gone
	// out yet. Jobs stay in this set until MarkAlertSent succeeds, so a
	// failed delivery is offered to the notifier again on the next cycle.
	ListUnalerted(ctx context.Context) ([]Job, error)
	SetHidden(ctx context.Context, fingerprint string, hidden bool) error
	SetBookmarked(ctx context.Context, fingerprint string, bookmarked bool) error
	MarkAlertSent(ctx context.Context, fingerprints []string) error
	Close() error
}

// UpsertResult reports what one UpsertJobs batch did.
type UpsertResult struct {
	Inserted int
	Updated  int
	Reposts  int
	// NewJobs holds the records that were inserted for the first time,
	// in batch order. Callers use these for alerting.
	NewJobs []Job
}

// JobQuery narrows ListJobs results. Zero value means "everything visible".
type JobQuery struct {
	Source         string
	RemoteOnly     bool
	BookmarkedOnly bool
	IncludeHidden  bool
	Limit          int
}

// Notifier sends alerts for newly inserted jobs.
type Notifier interface {
	Notify(jobs []Job) error
}

// JobFilter decides whether a job matches the user's criteria.
type JobFilter interface {
	Match(job Job) bool
}
