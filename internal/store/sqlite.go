// Package store persists aggregated jobs, collapsing duplicates by
// fingerprint. Two backends implement the same contract: SQLite for the
// single-binary default and Postgres for shared deployments.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jobsift/jobsift/internal/model"
)

// Ensure SQLiteStore implements model.Store.
var _ model.Store = (*SQLiteStore)(nil)

// SQLiteStore keeps the canonical jobs table in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `CREATE TABLE IF NOT EXISTS jobs (
	fingerprint          TEXT PRIMARY KEY,
	title                TEXT NOT NULL,
	company              TEXT NOT NULL,
	url                  TEXT NOT NULL,
	location             TEXT NOT NULL DEFAULT '',
	description          TEXT NOT NULL DEFAULT '',
	source               TEXT NOT NULL,
	remote               INTEGER NOT NULL DEFAULT 0,
	salary_min           REAL,
	salary_max           REAL,
	currency             TEXT NOT NULL DEFAULT '',
	posted_at            TIMESTAMP,
	created_at           TIMESTAMP NOT NULL,
	updated_at           TIMESTAMP NOT NULL,
	first_seen           TIMESTAMP NOT NULL,
	last_seen            TIMESTAMP NOT NULL,
	times_seen           INTEGER NOT NULL DEFAULT 1,
	repost_count         INTEGER NOT NULL DEFAULT 0,
	hidden               INTEGER NOT NULL DEFAULT 0,
	bookmarked           INTEGER NOT NULL DEFAULT 0,
	immediate_alert_sent INTEGER NOT NULL DEFAULT 0,
	included_in_digest   INTEGER NOT NULL DEFAULT 0,
	score                REAL,
	ghost_score          REAL
)`

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the jobs table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// UpsertJobs applies the fingerprint upsert contract to a batch: unseen
// fingerprints insert as new rows; existing fingerprints get last_seen and
// updated_at refreshed and times_seen incremented, plus repost_count when
// the batch carries a different post date than the stored row. The same
// fingerprint never gets a second row.
func (s *SQLiteStore) UpsertJobs(ctx context.Context, jobs []model.Job) (model.UpsertResult, error) {
	var res model.UpsertResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("beginning upsert tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, job := range jobs {
		var existing sql.NullTime
		err := tx.QueryRowContext(ctx,
			"SELECT posted_at FROM jobs WHERE fingerprint = ?", job.Fingerprint,
		).Scan(&existing)

		switch {
		case err == sql.ErrNoRows:
			_, err := tx.ExecContext(ctx, `INSERT INTO jobs (
				fingerprint, title, company, url, location, description,
				source, remote, salary_min, salary_max, currency, posted_at,
				created_at, updated_at, first_seen, last_seen, times_seen
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
				job.Fingerprint, job.Title, job.Company, job.URL, job.Location,
				job.Description, job.Source, job.Remote, job.SalaryMin,
				job.SalaryMax, job.Currency, nullTime(job.PostedAt),
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
			if job.PostedAt != nil && existing.Valid && !job.PostedAt.Equal(existing.Time) {
				repost = 1
			}
			_, err := tx.ExecContext(ctx, `UPDATE jobs SET
				last_seen = ?,
				updated_at = ?,
				times_seen = times_seen + 1,
				repost_count = repost_count + ?,
				posted_at = COALESCE(?, posted_at)
			WHERE fingerprint = ?`,
				now, now, repost, nullTime(job.PostedAt), job.Fingerprint,
			)
			if err != nil {
				return res, fmt.Errorf("updating job %s: %w", job.Fingerprint, err)
			}
			res.Updated++
			res.Reposts += repost
		}
	}

	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("committing upsert tx: %w", err)
	}
	return res, nil
}

// ListJobs returns jobs matching the query, newest first.
func (s *SQLiteStore) ListJobs(ctx context.Context, q model.JobQuery) ([]model.Job, error) {
	where := []string{"1=1"}
	var args []any

	if !q.IncludeHidden {
		where = append(where, "hidden = 0")
	}
	if q.Source != "" {
		where = append(where, "source = ?")
		args = append(args, q.Source)
	}
	if q.RemoteOnly {
		where = append(where, "remote = 1")
	}
	if q.BookmarkedOnly {
		where = append(where, "bookmarked = 1")
	}

	query := `SELECT fingerprint, title, company, url, location, description,
		source, remote, salary_min, salary_max, currency, posted_at,
		created_at, updated_at, first_seen, last_seen, times_seen,
		repost_count, hidden, bookmarked, immediate_alert_sent,
		included_in_digest, score, ghost_score
	FROM jobs WHERE ` + strings.Join(where, " AND ") + ` ORDER BY last_seen DESC, fingerprint`
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ListUnalerted returns jobs that still owe an immediate alert. Hidden jobs
// are excluded: the user already triaged them.
func (s *SQLiteStore) ListUnalerted(ctx context.Context) ([]model.Job, error) {
	query := `SELECT fingerprint, title, company, url, location, description,
		source, remote, salary_min, salary_max, currency, posted_at,
		created_at, updated_at, first_seen, last_seen, times_seen,
		repost_count, hidden, bookmarked, immediate_alert_sent,
		included_in_digest, score, ghost_score
	FROM jobs WHERE immediate_alert_sent = 0 AND hidden = 0
	ORDER BY first_seen, fingerprint`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing unalerted jobs: %w", err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// SetHidden flips the hidden flag for one job.
func (s *SQLiteStore) SetHidden(ctx context.Context, fingerprint string, hidden bool) error {
	return s.setFlag(ctx, "hidden", fingerprint, hidden)
}

// SetBookmarked flips the bookmarked flag for one job.
func (s *SQLiteStore) SetBookmarked(ctx context.Context, fingerprint string, bookmarked bool) error {
	return s.setFlag(ctx, "bookmarked", fingerprint, bookmarked)
}

func (s *SQLiteStore) setFlag(ctx context.Context, column, fingerprint string, value bool) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE jobs SET %s = ?, updated_at = ? WHERE fingerprint = ?", column),
		value, time.Now().UTC(), fingerprint,
	)
	if err != nil {
		return fmt.Errorf("setting %s for %s: %w", column, fingerprint, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting %s for %s: %w", column, fingerprint, err)
	}
	if n == 0 {
		return fmt.Errorf("no job with fingerprint %s", fingerprint)
	}
	return nil
}

// MarkAlertSent records that an immediate alert went out for the given jobs.
func (s *SQLiteStore) MarkAlertSent(ctx context.Context, fingerprints []string) error {
	if len(fingerprints) == 0 {
		return nil
	}
	placeholders := strings.Repeat("?,", len(fingerprints))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(fingerprints))
	for i, fp := range fingerprints {
		args[i] = fp
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE jobs SET immediate_alert_sent = 1 WHERE fingerprint IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return fmt.Errorf("marking alerts sent: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// scanJob reads one row from the canonical column list used by ListJobs.
func scanJob(rows *sql.Rows) (model.Job, error) {
	var (
		job                   model.Job
		salaryMin, salaryMax  sql.NullFloat64
		score, ghostScore     sql.NullFloat64
		postedAt, firstSeen   sql.NullTime
	)
	err := rows.Scan(
		&job.Fingerprint, &job.Title, &job.Company, &job.URL, &job.Location,
		&job.Description, &job.Source, &job.Remote, &salaryMin, &salaryMax,
		&job.Currency, &postedAt, &job.CreatedAt, &job.UpdatedAt, &firstSeen,
		&job.LastSeen, &job.TimesSeen, &job.RepostCount, &job.Hidden,
		&job.Bookmarked, &job.ImmediateAlertSent, &job.IncludedInDigest,
		&score, &ghostScore,
	)
	if err != nil {
		return job, err
	}
	if salaryMin.Valid {
		job.SalaryMin = &salaryMin.Float64
	}
	if salaryMax.Valid {
		job.SalaryMax = &salaryMax.Float64
	}
	if score.Valid {
		job.Score = &score.Float64
	}
	if ghostScore.Valid {
		job.GhostScore = &ghostScore.Float64
	}
	if postedAt.Valid {
		job.PostedAt = &postedAt.Time
	}
	if firstSeen.Valid {
		job.FirstSeen = &firstSeen.Time
	}
	return job, nil
}
