// Package sqlite implements store.Store on SQLite.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/linkstash/linkstash-server/internal/store"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Store provides SQLite-backed persistence for the LinkStash server.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	searchIndexer store.SearchIndexer
}

// Open creates a new SQLite store at the given path.
// It configures WAL mode, sets pragmas, and runs schema migrations.
func Open(path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows a single writer; keep the pool small.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	return &Store{
		db:            db,
		logger:        logger,
		searchIndexer: store.NewNoopSearchIndexer(),
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetSearchIndexer sets the search indexer used for maintaining the search index.
func (s *Store) SetSearchIndexer(indexer store.SearchIndexer) {
	s.searchIndexer = indexer
}

// formatTime formats a time.Time to RFC3339Nano for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime parses a RFC3339Nano string back to time.Time.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
