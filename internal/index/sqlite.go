// Package index provides the persistent content index backed by SQLite.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/jacobtruman/OrganizePictures/internal/index/migrations"
	"github.com/jacobtruman/OrganizePictures/internal/model"
	"github.com/jacobtruman/OrganizePictures/internal/organize"
)

// SQLiteIndex implements organize.ContentIndex on a local SQLite database.
// The hash column is the primary key, so duplicate inserts are rejected by
// the database itself rather than by a read-then-write race.
type SQLiteIndex struct {
	db *sql.DB
}

// New opens (creating if necessary) the index database at dbPath and brings
// its schema up to date. Pass ":memory:" for an ephemeral index.
func New(dbPath string) (*SQLiteIndex, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma: %w", err)
		}
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating index database: %w", err)
	}

	return &SQLiteIndex{db: db}, nil
}

// Lookup returns the index entry for hash, or nil if the hash is unknown.
func (s *SQLiteIndex) Lookup(hash string) (*model.IndexEntry, error) {
	row := s.db.QueryRow(
		"SELECT hash, original_path, recorded_at FROM media_hashes WHERE hash = ?",
		hash,
	)

	var entry model.IndexEntry
	if err := row.Scan(&entry.Hash, &entry.OriginalPath, &entry.RecordedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("looking up hash: %w", err)
	}
	return &entry, nil
}

// Record inserts hash into the index. If the hash is already present it
// returns organize.ErrDuplicateHash and leaves the existing entry untouched.
func (s *SQLiteIndex) Record(hash, originalPath string) error {
	_, err := s.db.Exec(
		"INSERT INTO media_hashes (hash, original_path, recorded_at) VALUES (?, ?, ?)",
		hash, originalPath, time.Now().UTC(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return organize.ErrDuplicateHash
		}
		return fmt.Errorf("recording hash: %w", err)
	}
	return nil
}

// Count returns the number of hashes in the index.
func (s *SQLiteIndex) Count() (int, error) {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM media_hashes").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting hashes: %w", err)
	}
	return count, nil
}

// StartRun records the beginning of an organization run and returns its id.
func (s *SQLiteIndex) StartRun(sourceDir string, startedAt time.Time) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO runs (id, source_dir, started_at) VALUES (?, ?, ?)",
		id, sourceDir, startedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("starting run: %w", err)
	}
	return id, nil
}

// FinishRun stores the final counters for a run.
func (s *SQLiteIndex) FinishRun(id string, finishedAt time.Time, summary model.Summary) error {
	_, err := s.db.Exec(
		"UPDATE runs SET finished_at = ?, moved = ?, duplicate = ?, failed = ?, skipped = ? WHERE id = ?",
		finishedAt.UTC(), summary.Moved, summary.Duplicate, summary.Failed, summary.Skipped, id,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, most recent first.
func (s *SQLiteIndex) RecentRuns(limit int) ([]model.Run, error) {
	rows, err := s.db.Query(
		`SELECT id, source_dir, started_at, finished_at, moved, duplicate, failed, skipped
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var run model.Run
		var finished sql.NullTime
		err := rows.Scan(
			&run.ID, &run.SourceDir, &run.StartedAt, &finished,
			&run.Moved, &run.Duplicate, &run.Failed, &run.Skipped,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if finished.Valid {
			run.FinishedAt = &finished.Time
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Close closes the underlying database.
func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}
