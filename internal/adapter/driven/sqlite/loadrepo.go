package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/portfolio/internal/domain/model"
	"github.com/ericfisherdev/portfolio/internal/domain/port/driven"
)

// storedTimeLayout is fixed-width so started_at sorts correctly as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Compile-time interface satisfaction check.
var _ driven.LoadStore = (*LoadRepo)(nil)

// LoadRepo is the SQLite implementation of the LoadStore port interface.
type LoadRepo struct {
	db *DB
}

// NewLoadRepo creates a new LoadRepo backed by the given DB.
func NewLoadRepo(db *DB) *LoadRepo {
	return &LoadRepo{db: db}
}

// Append stores one feed load record.
func (r *LoadRepo) Append(ctx context.Context, rec model.LoadRecord) error {
	const query = `
		INSERT INTO feed_loads (
			id, username, load_trigger, started_at, finished_at,
			attempts, outcome, failure, repo_count, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Writer.ExecContext(ctx, query,
		rec.ID,
		rec.Username,
		string(rec.Trigger),
		rec.StartedAt.UTC().Format(storedTimeLayout),
		rec.FinishedAt.UTC().Format(storedTimeLayout),
		rec.Attempts,
		string(rec.Outcome),
		string(rec.Failure),
		rec.RepoCount,
		rec.Error,
	)
	if err != nil {
		return fmt.Errorf("append feed load %s: %w", rec.ID, err)
	}

	return nil
}

// ListRecent returns up to limit records, newest first.
func (r *LoadRepo) ListRecent(ctx context.Context, limit int) ([]model.LoadRecord, error) {
	const query = `
		SELECT id, username, load_trigger, started_at, finished_at,
		       attempts, outcome, failure, repo_count, error
		FROM feed_loads
		ORDER BY started_at DESC, id
		LIMIT ?
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed loads: %w", err)
	}
	defer rows.Close()

	records := []model.LoadRecord{}
	for rows.Next() {
		rec, err := scanLoadRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feed load: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed loads: %w", err)
	}

	return records, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLoadRecord(s scanner) (*model.LoadRecord, error) {
	var rec model.LoadRecord
	var trigger, outcome, failure, startedAt, finishedAt string

	err := s.Scan(
		&rec.ID, &rec.Username, &trigger, &startedAt, &finishedAt,
		&rec.Attempts, &outcome, &failure, &rec.RepoCount, &rec.Error,
	)
	if err != nil {
		return nil, err
	}

	rec.Trigger = model.LoadTrigger(trigger)
	rec.Outcome = model.LoadOutcome(outcome)
	rec.Failure = model.FailureKind(failure)

	rec.StartedAt, err = parseTime(startedAt)
	if err != nil {
		return nil, fmt.Errorf("parse started_at: %w", err)
	}
	rec.FinishedAt, err = parseTime(finishedAt)
	if err != nil {
		return nil, fmt.Errorf("parse finished_at: %w", err)
	}

	return &rec, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
