// Package store wraps a durable key-value medium holding one JSON collection
// per logical key. The medium may open asynchronously; callers must not read
// or write before the readiness signal fires.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"budgetwise/internal/log"
)

// Key names one logical collection.
type Key string

const (
	KeyIncome   Key = "income"
	KeyExpenses Key = "expenses"
	KeyAlerts   Key = "alerts"
)

var (
	// ErrNotReady is returned when the durable medium has not signalled
	// readiness yet.
	ErrNotReady = errors.New("store: not ready")

	// ErrNotFound is returned when no collection is stored under a key.
	ErrNotFound = errors.New("store: key not found")
)

// KV is the persistent keyed store. Each key holds the full serialized
// collection; writes replace the prior value wholesale. There is no
// cross-key transaction.
type KV interface {
	// Ready is closed once the medium is usable (or has failed to open;
	// see Err).
	Ready() <-chan struct{}

	// Err reports a permanent open failure, if any.
	Err() error

	// Read returns the raw payload stored under key, or ErrNotFound.
	Read(ctx context.Context, key Key) ([]byte, error)

	// Write replaces the payload stored under key.
	Write(ctx context.Context, key Key, payload []byte) error
}

// CleanupFunc releases a backend's resources.
type CleanupFunc func() error

// Collection is a typed view over one key of a KV.
type Collection[T any] struct {
	kv     KV
	key    Key
	logger *log.Logger
}

// NewCollection binds a typed collection to a key. A nil logger falls back
// to a default store-scoped one.
func NewCollection[T any](kv KV, key Key, logger *log.Logger) Collection[T] {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentStore)
	}
	return Collection[T]{kv: kv, key: key, logger: logger}
}

// Key returns the bound key.
func (c Collection[T]) Key() Key { return c.key }

// Load returns the stored collection. An absent key is seeded with the empty
// default and returned as such; a payload that fails to parse is treated the
// same way (malformed data falls back to the default, it is not an error).
// Store-level failures (not ready, medium errors) are returned as-is.
func (c Collection[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := c.kv.Read(ctx, c.key)
	if errors.Is(err, ErrNotFound) {
		return c.seed(ctx)
	}
	if err != nil {
		return nil, err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("Stored collection is malformed, resetting to default",
			log.FieldKey, string(c.key), log.FieldError, err)
		return c.seed(ctx)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Store serializes and persists the full collection, replacing any prior
// value. A nil slice is stored as the empty collection.
func (c Collection[T]) Store(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.kv.Write(ctx, c.key, payload)
}

func (c Collection[T]) seed(ctx context.Context) ([]T, error) {
	if err := c.kv.Write(ctx, c.key, []byte("[]")); err != nil {
		return nil, err
	}
	return []T{}, nil
}
