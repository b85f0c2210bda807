package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"budgetwise/internal/log"
)

// SQLite is a KV backed by a single-table SQLite database. Opening and
// migrating happen in the background; reads and writes issued before the
// readiness signal fail with ErrNotReady.
type SQLite struct {
	db      *sql.DB
	openErr error
	ready   chan struct{}
	logger  *log.Logger
}

// NewSQLite starts opening the database at dbPath and returns immediately.
// Watch Ready and Err for the outcome.
func NewSQLite(dbPath string, logger *log.Logger) *SQLite {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStore)
	}
	s := &SQLite{ready: make(chan struct{}), logger: logger}
	go s.open(dbPath)
	return s
}

// db and openErr are written only here, before the ready channel closes.
func (s *SQLite) open(dbPath string) {
	defer close(s.ready)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		s.openErr = fmt.Errorf("create db directory: %w", err)
		return
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		s.openErr = fmt.Errorf("open sqlite database: %w", err)
		return
	}
	if err := db.Ping(); err != nil {
		db.Close()
		s.openErr = fmt.Errorf("ping database: %w", err)
		return
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		s.openErr = fmt.Errorf("run migrations: %w", err)
		return
	}

	s.db = db
	s.logger.Info("SQLite store ready", "path", dbPath)
}

func (s *SQLite) Ready() <-chan struct{} { return s.ready }

// Err reports the open failure, if the store failed to come up.
func (s *SQLite) Err() error {
	select {
	case <-s.ready:
		return s.openErr
	default:
		return nil
	}
}

func (s *SQLite) guard() error {
	select {
	case <-s.ready:
	default:
		return ErrNotReady
	}
	if s.openErr != nil {
		return s.openErr
	}
	return nil
}

func (s *SQLite) Read(ctx context.Context, key Key) ([]byte, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM collections WHERE key = ?`, string(key),
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read collection %q: %w", key, err)
	}
	return payload, nil
}

func (s *SQLite) Write(ctx context.Context, key Key, payload []byte) error {
	if err := s.guard(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO collections (key, payload, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET
		   payload = excluded.payload,
		   updated_at = CURRENT_TIMESTAMP`,
		string(key), payload,
	)
	if err != nil {
		return fmt.Errorf("write collection %q: %w", key, err)
	}
	return nil
}

// Close waits for the open attempt to settle and releases the database.
func (s *SQLite) Close() error {
	<-s.ready
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
