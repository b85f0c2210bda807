package store

import (
	"fmt"

	"budgetwise/internal/log"
)

// Backend selects a KV implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
)

func (b Backend) String() string { return string(b) }

// IsValid returns true if the backend type is known.
func (b Backend) IsValid() bool {
	switch b {
	case BackendMemory, BackendSQLite:
		return true
	default:
		return false
	}
}

// Config holds backend selection and its settings.
type Config struct {
	Backend Backend

	// SQLite specific
	SQLitePath string
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if !c.Backend.IsValid() {
		return fmt.Errorf("invalid store backend: %q", c.Backend)
	}
	if c.Backend == BackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("sqlite database path is required for the sqlite backend")
	}
	return nil
}

// Open creates the configured KV. The returned cleanup releases backend
// resources and is safe to call once.
func Open(cfg Config, logger *log.Logger) (KV, CleanupFunc, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentStore)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	switch cfg.Backend {
	case BackendSQLite:
		kv := NewSQLite(cfg.SQLitePath, logger)
		logger.Info("Opening SQLite store", "path", cfg.SQLitePath)
		return kv, kv.Close, nil
	default:
		logger.Info("Using in-memory store; data will not survive restarts")
		return NewMemory(), func() error { return nil }, nil
	}
}
