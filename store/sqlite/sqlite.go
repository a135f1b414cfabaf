/*
Package sqlite provides a SQLite-backed cache of raw rate dataset payloads.

PURPOSE:
  Implements rates.DatasetStore so a restarted server does not re-download
  government rate data it already has. Only raw upstream payloads are
  persisted - never trip or report state, which lives entirely in memory
  for the duration of a session.

KEY TABLE:
  rate_datasets: one row per (year, kind), the raw payload bytes, and the
  fetch timestamp. Rows are replaced wholesale on re-fetch.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/perdiem.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  gw := rates.NewGateway(fetcher, rates.WithStore(store))

SEE ALSO:
  - rates/gateway.go: DatasetStore interface and cache protocol
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/voyage/perdiem-engine/rates"
)

// Store implements rates.DatasetStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a store at the given database path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS rate_datasets (
		year       INTEGER NOT NULL,
		kind       TEXT    NOT NULL,
		payload    BLOB    NOT NULL,
		fetched_at TIMESTAMP NOT NULL,
		PRIMARY KEY (year, kind)
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Get returns the cached payload for a dataset, if present.
func (s *Store) Get(ctx context.Context, year int, kind rates.DatasetKind) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM rate_datasets WHERE year = ? AND kind = ?`,
		year, string(kind),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading dataset %s/%d: %w", kind, year, err)
	}
	return payload, true, nil
}

// Put stores a payload, replacing any previous row for the same key.
func (s *Store) Put(ctx context.Context, year int, kind rates.DatasetKind, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO rate_datasets (year, kind, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		year, string(kind), payload, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing dataset %s/%d: %w", kind, year, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
