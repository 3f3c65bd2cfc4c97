// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists batch conversion runs in a local SQLite
// database so past runs and their per-file outcomes can be reviewed.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meshintel/pointcloud-engine/pkg/types"
)

const dbFile = "catalog.db"

// Store manages the run catalog SQLite database.
type Store struct {
	db      *sql.DB
	maxRuns int
}

// NewStore opens or creates the catalog database at cfg.Dir/catalog.db,
// creating the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxRuns := cfg.MaxRuns
	if maxRuns <= 0 {
		maxRuns = 20
	}

	s := &Store{db: db, maxRuns: maxRuns}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			duration_seconds REAL NOT NULL,
			num_files INTEGER NOT NULL,
			converted INTEGER NOT NULL,
			empty INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			fatal INTEGER NOT NULL,
			workers INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_files (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			idx INTEGER NOT NULL,
			input TEXT,
			output TEXT,
			status TEXT NOT NULL,
			error TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_run_files_run_id ON run_files(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun inserts a batch report and its per-file outcomes in one
// transaction, returning the new run ID.
func (s *Store) RecordRun(ctx context.Context, report types.BatchReport) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, duration_seconds, num_files, converted, empty, failed, fatal, workers)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.StartedAt.Format(time.RFC3339Nano), report.DurationSeconds,
		report.NumFiles, report.Converted, report.Empty, report.Failed,
		boolToInt(report.Fatal), report.Workers,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run ID: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_files (run_id, idx, input, output, status, error)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range report.Files {
		if _, err := stmt.ExecContext(ctx, runID, f.Index, f.Input, f.Output, string(f.Status), f.Error); err != nil {
			return 0, fmt.Errorf("inserting outcome %d: %w", f.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RunSummary is one row of the run listing.
type RunSummary struct {
	ID              int64
	StartedAt       time.Time
	DurationSeconds float64
	NumFiles        int
	Converted       int
	Empty           int
	Failed          int
	Fatal           bool
	Workers         int
}

// Runs returns the most recent runs, newest first, capped at the
// configured maximum.
func (s *Store) Runs(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_seconds, num_files, converted, empty, failed, fatal, workers
		 FROM runs ORDER BY id DESC LIMIT ?`, s.maxRuns)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var started string
		var fatal int
		if err := rows.Scan(&r.ID, &started, &r.DurationSeconds, &r.NumFiles,
			&r.Converted, &r.Empty, &r.Failed, &fatal, &r.Workers); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.Fatal = fatal != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunFiles returns the per-file outcomes of one run in stored order.
func (s *Store) RunFiles(ctx context.Context, runID int64) ([]types.FileOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT idx, input, output, status, error FROM run_files WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run %d: %w", runID, err)
	}
	defer rows.Close()

	var out []types.FileOutcome
	for rows.Next() {
		var f types.FileOutcome
		var status string
		if err := rows.Scan(&f.Index, &f.Input, &f.Output, &status, &f.Error); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		f.Status = types.OutcomeStatus(status)
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("run %d not found", runID)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
