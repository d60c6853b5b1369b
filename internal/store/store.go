// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists submission history and bibliography snapshots in
// a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/writing-desk/pkg/types"
)

const dbFile = "writer.db"

// Store manages the writer SQLite database.
type Store struct {
	db  *sql.DB
	dir string
}

// NewStore opens or creates cfg.Dir/writer.db and its schema.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "data"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, dir: dir}
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
		`CREATE TABLE IF NOT EXISTS submissions (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			session_id TEXT NOT NULL,
			submitted_at TEXT NOT NULL,
			ai_percentage INTEGER NOT NULL,
			word_count INTEGER NOT NULL,
			assignment_code TEXT NOT NULL,
			assignment_title TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_submissions_session ON submissions(session_id)`,
		`CREATE TABLE IF NOT EXISTS bibliography_snapshots (
			session_id TEXT PRIMARY KEY,
			entries TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Append records a submission. Records are never updated; appending an
// existing ID fails.
func (s *Store) Append(ctx context.Context, rec types.SubmissionRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, session_id, submitted_at, ai_percentage, word_count, assignment_code, assignment_title)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SessionID, rec.Timestamp.UTC().Format(time.RFC3339Nano),
		rec.AIPercentage, rec.WordCount, rec.AssignmentCode, rec.AssignmentTitle,
	)
	if err != nil {
		return fmt.Errorf("inserting submission %s: %w", rec.ID, err)
	}
	return nil
}

// List returns a session's submissions in insertion order. An empty
// sessionID lists every session.
func (s *Store) List(ctx context.Context, sessionID string) ([]types.SubmissionRecord, error) {
	query := `SELECT id, session_id, submitted_at, ai_percentage, word_count, assignment_code, COALESCE(assignment_title, '')
		FROM submissions`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var out []types.SubmissionRecord
	for rows.Next() {
		var (
			rec types.SubmissionRecord
			ts  string
		)
		if err := rows.Scan(&rec.ID, &rec.SessionID, &ts, &rec.AIPercentage,
			&rec.WordCount, &rec.AssignmentCode, &rec.AssignmentTitle); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing timestamp of %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// SaveBibliography replaces the stored bibliography of a session.
func (s *Store) SaveBibliography(ctx context.Context, sessionID string, entries []types.BibliographyEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding bibliography: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bibliography_snapshots (session_id, entries, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET entries=excluded.entries, updated_at=excluded.updated_at`,
		sessionID, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving bibliography for %s: %w", sessionID, err)
	}
	return nil
}

// LoadBibliography returns the stored bibliography of a session, or nil
// if none was saved.
func (s *Store) LoadBibliography(ctx context.Context, sessionID string) ([]types.BibliographyEntry, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT entries FROM bibliography_snapshots WHERE session_id = ?`, sessionID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading bibliography for %s: %w", sessionID, err)
	}
	var entries []types.BibliographyEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("decoding bibliography for %s: %w", sessionID, err)
	}
	return entries, nil
}
