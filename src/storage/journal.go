package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// CreateRun inserts a new migration run
func CreateRun(ctx context.Context, db Execer, run *MigrationRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	query := `INSERT INTO migration_runs (id, plugin, dry_run, started_at) VALUES (?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query, run.ID, run.Plugin, run.DryRun, run.StartedAt)
	return err
}

// FinishRun marks a run as finished, recording its error if any
func FinishRun(ctx context.Context, db Execer, run *MigrationRun, runErr error) error {
	now := time.Now()
	run.FinishedAt = &now
	if runErr != nil {
		run.Error = runErr.Error()
	}

	query := `UPDATE migration_runs SET finished_at = ?, error = ? WHERE id = ?`
	_, err := db.ExecContext(ctx, query, run.FinishedAt, run.Error, run.ID)
	return err
}

// CreateEntry inserts one migration entry
func CreateEntry(ctx context.Context, db Execer, entry *MigrationEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `INSERT INTO migration_entries (id, run_id, category, source, destination, outcome, is_dir, size, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.ExecContext(ctx, query,
		entry.ID,
		entry.RunID,
		entry.Category,
		entry.Source,
		entry.Destination,
		entry.Outcome,
		entry.IsDir,
		entry.Size,
		entry.CreatedAt,
	)
	return err
}

// GetRunByID retrieves a run by its ID
func GetRunByID(ctx context.Context, db sqlscan.Querier, runID string) (*MigrationRun, error) {
	query := `SELECT id, plugin, dry_run, error, started_at, finished_at FROM migration_runs WHERE id = ?`
	var run MigrationRun
	err := sqlscan.Get(ctx, db, &run, query, runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return &run, nil
}

// ListRuns returns the most recent runs first
func ListRuns(ctx context.Context, db sqlscan.Querier, limit int) ([]MigrationRun, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, plugin, dry_run, error, started_at, finished_at FROM migration_runs ORDER BY started_at DESC LIMIT ?`
	var runs []MigrationRun
	if err := sqlscan.Select(ctx, db, &runs, query, limit); err != nil {
		return nil, err
	}
	return runs, nil
}

// GetEntriesByRunID returns the entries of a run in insertion order
func GetEntriesByRunID(ctx context.Context, db sqlscan.Querier, runID string) ([]MigrationEntry, error) {
	query := `SELECT id, run_id, category, source, destination, outcome, is_dir, size, created_at FROM migration_entries WHERE run_id = ? ORDER BY created_at, rowid`
	var entries []MigrationEntry
	if err := sqlscan.Select(ctx, db, &entries, query, runID); err != nil {
		return nil, err
	}
	return entries, nil
}
