package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jobsift/jobsift/internal/model"
)

// Ensure PostgresStore implements model.Store.
var _ model.Store = (*PostgresStore)(nil)

// PostgresStore keeps the canonical jobs table in Postgres. Same contract as
// SQLiteStore; use it when several machines share one job pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

const postgresSchema = `CREATE TABLE IF NOT EXISTS jobs (
	fingerprint          TEXT PRIMARY KEY,
	title                TEXT NOT NULL,
	company              TEXT NOT NULL,
	url                  TEXT NOT NULL,
	location             TEXT NOT NULL DEFAULT '',
	description          TEXT NOT NULL DEFAULT '',
	source               TEXT NOT NULL,
	remote               BOOLEAN NOT NULL DEFAULT FALSE,
	salary_min           DOUBLE PRECISION,
	salary_max           DOUBLE PRECISION,
	currency             TEXT NOT NULL DEFAULT '',
	posted_at            TIMESTAMPTZ,
	created_at           TIMESTAMPTZ NOT NULL,
	updated_at           TIMESTAMPTZ NOT NULL,
	first_seen           TIMESTAMPTZ NOT NULL,
	last_seen            TIMESTAMPTZ NOT NULL,
	times_seen           INTEGER NOT NULL DEFAULT 1,
	repost_count         INTEGER NOT NULL DEFAULT 0,
	hidden               BOOLEAN NOT NULL DEFAULT FALSE,
	bookmarked           BOOLEAN NOT NULL DEFAULT FALSE,
	immediate_alert_sent BOOLEAN NOT NULL DEFAULT FALSE,
	included_in_digest   BOOLEAN NOT NULL DEFAULT FALSE,
	score                DOUBLE PRECISION,
	ghost_score          DOUBLE PRECISION
)`

// NewPostgresStore connects to the database at dsn and ensures the jobs
// table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// UpsertJobs applies the fingerprint upsert contract. See
// SQLiteStore.UpsertJobs for the semantics.
func (s *PostgresStore) UpsertJobs(ctx context.Context, jobs []model.Job) (model.UpsertResult, error) {
	var res model.UpsertResult

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("beginning upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	for _, job := range jobs {
		var existing *time.Time
		err := tx.QueryRow(ctx,
			"SELECT posted_at FROM jobs WHERE fingerprint = $1", job.Fingerprint,
		).Scan(&existing)

		switch {
		case errors.Is(err, pgx.ErrNoRows):
			_, err := tx.Exec(ctx, `INSERT INTO jobs (
				fingerprint, title, company, url, location, description,
				source, remote, salary_min, salary_max, currency, posted_at,
				created_at, updated_at, first_seen, last_seen, times_seen
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 1)`,
				job.Fingerprint, job.Title, job.Company, job.URL, job.Location,
				job.Description, job.Source, job.Remote, job.SalaryMin,
				job.SalaryMax, job.Currency, job.PostedAt,
				now, now, now, now,
			)
			if err != nil {
				return res, fmt.Errorf("inserting job %s: %w", job.Fingerprint, err)
			}
			res.Inserted++
			res.NewJobs = append(res.NewJobs, job)

		case err != nil:
			return res, fmt.Errorf("looking up job %s: %w", job.Fingerprint, err)

		default:
			repost := 0
			if job.PostedAt != nil && existing != nil && !job.PostedAt.Equal(*existing) {
				repost = 1
			}
			_, err := tx.Exec(ctx, `UPDATE jobs SET
				last_seen = $1,
				updated_at = $2,
				times_seen = times_seen + 1,
				repost_count = repost_count + $3,
				posted_at = COALESCE($4, posted_at)
			WHERE fingerprint = $5`,
				now, now, repost, job.PostedAt, job.Fingerprint,
			)
			if err != nil {
				return res, fmt.Errorf("updating job %s: %w", job.Fingerprint, err)
			}
			res.Updated++
			res.Reposts += repost
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return res, fmt.Errorf("committing upsert tx: %w", err)
	}
	return res, nil
}

// ListJobs returns jobs matching the query, newest first.
func (s *PostgresStore) ListJobs(ctx context.Context, q model.JobQuery) ([]model.Job, error) {
	where := []string{"TRUE"}
	var args []any

	if !q.IncludeHidden {
		where = append(where, "NOT hidden")
	}
	if q.Source != "" {
		args = append(args, q.Source)
		where = append(where, fmt.Sprintf("source = $%d", len(args)))
	}
	if q.RemoteOnly {
		where = append(where, "remote")
	}
	if q.BookmarkedOnly {
		where = append(where, "bookmarked")
	}

	query := `SELECT fingerprint, title, company, url, location, description,
		source, remote, salary_min, salary_max, currency, posted_at,
		created_at, updated_at, first_seen, last_seen, times_seen,
		repost_count, hidden, bookmarked, immediate_alert_sent,
		included_in_digest, score, ghost_score
	FROM jobs WHERE ` + strings.Join(where, " AND ") + ` ORDER BY last_seen DESC, fingerprint`
	if q.Limit > 0 {
		args = append(args, q.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// collectJobs reads all rows from the canonical column list.
func collectJobs(rows pgx.Rows) ([]model.Job, error) {
	var jobs []model.Job
	for rows.Next() {
		var (
			job       model.Job
			postedAt  *time.Time
			firstSeen *time.Time
		)
		err := rows.Scan(
			&job.Fingerprint, &job.Title, &job.Company, &job.URL, &job.Location,
			&job.Description, &job.Source, &job.Remote, &job.SalaryMin,
			&job.SalaryMax, &job.Currency, &postedAt, &job.CreatedAt,
			&job.UpdatedAt, &firstSeen, &job.LastSeen, &job.TimesSeen,
			&job.RepostCount, &job.Hidden, &job.Bookmarked,
			&job.ImmediateAlertSent, &job.IncludedInDigest,
			&job.Score, &job.GhostScore,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		job.PostedAt = postedAt
		job.FirstSeen = firstSeen
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ListUnalerted returns jobs that still owe an immediate alert. Hidden jobs
// are excluded: the user already triaged them.
func (s *PostgresStore) ListUnalerted(ctx context.Context) ([]model.Job, error) {
	query := `SELECT fingerprint, title, company, url, location, description,
		source, remote, salary_min, salary_max, currency, posted_at,
		created_at, updated_at, first_seen, last_seen, times_seen,
		repost_count, hidden, bookmarked, immediate_alert_sent,
		included_in_digest, score, ghost_score
	FROM jobs WHERE NOT immediate_alert_sent AND NOT hidden
	ORDER BY first_seen, fingerprint`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing unalerted jobs: %w", err)
	}
	defer rows.Close()

	return collectJobs(rows)
}

// SetHidden flips the hidden flag for one job.
func (s *PostgresStore) SetHidden(ctx context.Context, fingerprint string, hidden bool) error {
	return s.setFlag(ctx, "hidden", fingerprint, hidden)
}

// SetBookmarked flips the bookmarked flag for one job.
func (s *PostgresStore) SetBookmarked(ctx context.Context, fingerprint string, bookmarked bool) error {
	return s.setFlag(ctx, "bookmarked", fingerprint, bookmarked)
}

func (s *PostgresStore) setFlag(ctx context.Context, column, fingerprint string, value bool) error {
	tag, err := s.pool.Exec(ctx,
		fmt.Sprintf("UPDATE jobs SET %s = $1, updated_at = $2 WHERE fingerprint = $3", column),
		value, time.Now().UTC(), fingerprint,
	)
	if err != nil {
		return fmt.Errorf("setting %s for %s: %w", column, fingerprint, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no job with fingerprint %s", fingerprint)
	}
	return nil
}

// MarkAlertSent records that an immediate alert went out for the given jobs.
func (s *PostgresStore) MarkAlertSent(ctx context.Context, fingerprints []string) error {
	if len(fingerprints) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx,
		"UPDATE jobs SET immediate_alert_sent = TRUE WHERE fingerprint = ANY($1)",
		fingerprints,
	)
	if err != nil {
		return fmt.Errorf("marking alerts sent: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
