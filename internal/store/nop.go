package store

import (
	"context"
	"fmt"

	"github.com/jobsift/jobsift/internal/model"
)

// Ensure NopStore implements model.Store.
var _ model.Store = (*NopStore)(nil)

// NopStore persists nothing. Used for dry runs: every upserted job counts as
// new so the caller can see exactly what a real run would alert on.
type NopStore struct{}

// NewNopStore returns a store that remembers nothing.
func NewNopStore() *NopStore {
	return &NopStore{}
}

func (s *NopStore) UpsertJobs(ctx context.Context, jobs []model.Job) (model.UpsertResult, error) {
	return model.UpsertResult{Inserted: len(jobs), NewJobs: jobs}, nil
}

func (s *NopStore) ListJobs(ctx context.Context, q model.JobQuery) ([]model.Job, error) {
	return nil, nil
}

func (s *NopStore) ListUnalerted(ctx context.Context) ([]model.Job, error) {
	return nil, nil
}

func (s *NopStore) SetHidden(ctx context.Context, fingerprint string, hidden bool) error {
	return fmt.Errorf("dry-run store cannot hide jobs")
}

func (s *NopStore) SetBookmarked(ctx context.Context, fingerprint string, bookmarked bool) error {
	return fmt.Errorf("dry-run store cannot bookmark jobs")
}

func (s *NopStore) MarkAlertSent(ctx context.Context, fingerprints []string) error {
	return nil
}

func (s *NopStore) Close() error { return nil }
