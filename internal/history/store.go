// Package history keeps a SQLite log of validation runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	apperrors "github.com/agbru/sigvalid/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id        TEXT PRIMARY KEY,
	started_at    TEXT NOT NULL,
	candidate     TEXT NOT NULL,
	reference     TEXT NOT NULL,
	channels      INTEGER NOT NULL,
	succeeded     INTEGER NOT NULL,
	verdict       TEXT,
	correlation   REAL,
	nrmse_percent REAL,
	reason        TEXT,
	elapsed_ms    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS runs_started_at ON runs(started_at);
`

// timeLayout has a fixed width so that timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded validation run.
type Run struct {
	ID        string
	StartedAt time.Time
	// Candidate and Reference describe where the signals came from.
	Candidate string
	Reference string
	Channels  int
	Succeeded bool
	// Verdict, Correlation and NRMSEPercent are only set for successful runs.
	Verdict      string
	Correlation  float64
	NRMSEPercent float64
	// Reason is the failure message of a failed run.
	Reason  string
	Elapsed time.Duration
}

// Store persists runs in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path and applies the
// schema. ":memory:" gives a private in-memory store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.IOError{Op: "open history", Path: path, Cause: err}
	}
	// An in-memory database lives and dies with its connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, apperrors.IOError{Op: "migrate history", Path: path, Cause: err}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts run. Recording the same run ID twice is an error.
func (s *Store) Record(ctx context.Context, run Run) error {
	var verdict, reason sql.NullString
	var correlation, nrmse sql.NullFloat64
	if run.Succeeded {
		verdict = sql.NullString{String: run.Verdict, Valid: true}
		correlation = sql.NullFloat64{Float64: run.Correlation, Valid: true}
		nrmse = sql.NullFloat64{Float64: run.NRMSEPercent, Valid: true}
	} else {
		reason = sql.NullString{String: run.Reason, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, candidate, reference, channels, succeeded,
		                   verdict, correlation, nrmse_percent, reason, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(timeLayout), run.Candidate, run.Reference,
		run.Channels, run.Succeeded, verdict, correlation, nrmse, reason, run.Elapsed.Milliseconds(),
	)
	if err != nil {
		return apperrors.IOError{Op: "record history", Cause: fmt.Errorf("run %s: %w", run.ID, err)}
	}
	return nil
}

// List returns up to limit runs, newest first. limit <= 0 returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT run_id, started_at, candidate, reference, channels, succeeded,
	                 verdict, correlation, nrmse_percent, reason, elapsed_ms
	          FROM runs ORDER BY started_at DESC, run_id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.IOError{Op: "list history", Cause: err}
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r            Run
			startedAt    string
			verdict      sql.NullString
			reason       sql.NullString
			correlation  sql.NullFloat64
			nrmsePercent sql.NullFloat64
			elapsedMs    int64
		)
		if err := rows.Scan(&r.ID, &startedAt, &r.Candidate, &r.Reference, &r.Channels, &r.Succeeded,
			&verdict, &correlation, &nrmsePercent, &reason, &elapsedMs); err != nil {
			return nil, apperrors.IOError{Op: "list history", Cause: err}
		}
		r.StartedAt, err = time.Parse(timeLayout, startedAt)
		if err != nil {
			return nil, apperrors.IOError{Op: "list history", Cause: fmt.Errorf("run %s: %w", r.ID, err)}
		}
		r.Verdict = verdict.String
		r.Reason = reason.String
		r.Correlation = correlation.Float64
		r.NRMSEPercent = nrmsePercent.Float64
		r.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.IOError{Op: "list history", Cause: err}
	}
	return runs, nil
}
