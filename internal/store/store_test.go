package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"budgetwise/internal/core"
)

func TestMemoryReadyImmediately(t *testing.T) {
	m := NewMemory()
	select {
	case <-m.Ready():
	default:
		t.Fatal("memory store should be ready immediately")
	}
	if err := m.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMemoryReadAbsentKey(t *testing.T) {
	m := NewMemory()
	if _, err := m.Read(context.Background(), KeyIncome); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCollectionSeedsAbsentKey(t *testing.T) {
	m := NewMemory()
	c := NewCollection[core.Income](m, KeyIncome, nil)

	items, err := c.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty collection, got %d items", len(items))
	}

	// The default must have been written back.
	raw, err := m.Read(context.Background(), KeyIncome)
	if err != nil {
		t.Fatalf("read after seed: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected seeded empty array, got %s", raw)
	}
}

func TestCollectionRoundTrip(t *testing.T) {
	m := NewMemory()
	c := NewCollection[core.Expense](m, KeyExpenses, nil)
	ctx := context.Background()

	in := []core.Expense{
		{
			ID:       "exp-1",
			Amount:   core.Money{Cents: 2999},
			Date:     core.NewDate(2026, 8, 15),
			Category: core.CategoryFood,
		},
	}
	if err := c.Store(ctx, in); err != nil {
		t.Fatalf("store: %v", err)
	}

	out, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("round trip mismatch:\nstored %+v\nloaded %+v", in, out)
	}
}

func TestCollectionMalformedPayloadResets(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.Write(ctx, KeyAlerts, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}

	c := NewCollection[core.AlertSetting](m, KeyAlerts, nil)
	items, err := c.Load(ctx)
	if err != nil {
		t.Fatalf("load over malformed payload: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected reset to empty, got %d items", len(items))
	}

	raw, err := m.Read(ctx, KeyAlerts)
	if err != nil {
		t.Fatalf("read after reset: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected reset payload, got %s", raw)
	}
}

func TestCollectionStoreNilAsEmpty(t *testing.T) {
	m := NewMemory()
	c := NewCollection[core.Income](m, KeyIncome, nil)
	ctx := context.Background()

	if err := c.Store(ctx, nil); err != nil {
		t.Fatalf("store nil: %v", err)
	}
	raw, err := m.Read(ctx, KeyIncome)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("expected empty array, got %s", raw)
	}
}

func TestBackendValidation(t *testing.T) {
	cases := []struct {
		cfg Config
		ok  bool
	}{
		{Config{Backend: BackendMemory}, true},
		{Config{Backend: BackendSQLite, SQLitePath: "./data/test.db"}, true},
		{Config{Backend: BackendSQLite}, false},
		{Config{Backend: "redis"}, false},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if tc.ok && err != nil {
			t.Fatalf("%+v: unexpected error %v", tc.cfg, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%+v: expected error", tc.cfg)
		}
	}
}
