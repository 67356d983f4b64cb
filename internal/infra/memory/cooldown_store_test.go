package memory

import (
	"context"
	"testing"
	"time"

	"quizgate/internal/domain"
)

func TestCooldownStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewCooldownStore()

	initial, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(initial) != 0 {
		t.Fatalf("expected empty store, got %d records", len(initial))
	}

	records := map[string]domain.CooldownRecord{
		"u1": {Attempts: 2, LockoutUntil: time.Unix(1_700_000_000, 0).UTC()},
	}
	if err := store.Save(ctx, records); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded["u1"].Attempts != 2 {
		t.Fatalf("expected attempts=2, got %d", loaded["u1"].Attempts)
	}

	// Saving a snapshot without the user deletes it.
	if err := store.Save(ctx, map[string]domain.CooldownRecord{}); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	loaded, _ = store.Load(ctx)
	if len(loaded) != 0 {
		t.Fatalf("expected record removed, got %v", loaded)
	}
}

func TestCooldownStoreCopiesSnapshots(t *testing.T) {
	ctx := context.Background()
	store := NewCooldownStore()

	records := map[string]domain.CooldownRecord{"u1": {Attempts: 1}}
	if err := store.Save(ctx, records); err != nil {
		t.Fatalf("save: %v", err)
	}
	records["u1"] = domain.CooldownRecord{Attempts: 99}

	loaded, _ := store.Load(ctx)
	if loaded["u1"].Attempts != 1 {
		t.Fatalf("store must not alias caller maps, got attempts=%d", loaded["u1"].Attempts)
	}
}
