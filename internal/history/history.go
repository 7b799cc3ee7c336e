// Copyright Neuromechanist Labs, 2025. All rights reserved.

// Package history persists a ledger of completed conversions in a
// SQLite database. The ledger backs the history subcommand and lets
// repeat conversions of byte-identical inputs be skipped.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "history.db"

// Entry is one recorded conversion.
type Entry struct {
	ID          int64
	InputPath   string
	ContentHash string
	OutputPath  string
	Title       string
	Pages       int
	Words       int
	Images      int
	ConvertedAt time.Time
}

// Store manages the conversion history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database under dataDir, creating
// the schema if needed.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			input_path TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			output_path TEXT NOT NULL,
			title TEXT,
			pages INTEGER,
			words INTEGER,
			images INTEGER,
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_hash ON conversions(content_hash)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a conversion entry and returns its row id.
func (s *Store) Record(e Entry) (int64, error) {
	if e.ConvertedAt.IsZero() {
		e.ConvertedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(
		`INSERT INTO conversions (input_path, content_hash, output_path, title, pages, words, images, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.InputPath, e.ContentHash, e.OutputPath, e.Title, e.Pages, e.Words, e.Images,
		e.ConvertedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("recording conversion: %w", err)
	}
	return res.LastInsertId()
}

// Lookup returns the most recent entry for a content hash, or nil when
// the hash has never been converted.
func (s *Store) Lookup(contentHash string) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT id, input_path, content_hash, output_path, title, pages, words, images, converted_at
		 FROM conversions WHERE content_hash = ? ORDER BY id DESC LIMIT 1`,
		contentHash,
	)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up conversion: %w", err)
	}
	return e, nil
}

// List returns the most recent entries, newest first, up to limit
// (default 20 when limit <= 0).
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(
		`SELECT id, input_path, content_hash, output_path, title, pages, words, images, converted_at
		 FROM conversions ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning conversion row: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var ts string
	if err := row.Scan(&e.ID, &e.InputPath, &e.ContentHash, &e.OutputPath, &e.Title,
		&e.Pages, &e.Words, &e.Images, &ts); err != nil {
		return nil, err
	}
	if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
		e.ConvertedAt = parsed
	}
	return &e, nil
}
