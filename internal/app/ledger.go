package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quizgate/internal/domain"
)

// CooldownStore persists the full cooldown snapshot (file, Redis, etc).
type CooldownStore interface {
	Load(ctx context.Context) (map[string]domain.CooldownRecord, error)
	Save(ctx context.Context, records map[string]domain.CooldownRecord) error
}

// CooldownLedger tracks failed attempts per user and the escalating
// lockouts they earn. Records live in memory and are written through the
// store synchronously on every mutation.
type CooldownLedger struct {
	store      CooldownStore
	base       time.Duration
	multiplier int

	mu      sync.Mutex
	records map[string]domain.CooldownRecord
}

// NewCooldownLedger loads the persisted snapshot once at startup.
func NewCooldownLedger(ctx context.Context, store CooldownStore, base time.Duration, multiplier int) (*CooldownLedger, error) {
	records, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cooldowns: %w", err)
	}
	if records == nil {
		records = make(map[string]domain.CooldownRecord)
	}
	if multiplier < 1 {
		multiplier = 1
	}
	return &CooldownLedger{
		store:      store,
		base:       base,
		multiplier: multiplier,
		records:    records,
	}, nil
}

// Status reports whether userID is locked out at now, and until when.
func (l *CooldownLedger) Status(userID string, now time.Time) (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[userID]
	if !ok || !now.Before(rec.LockoutUntil) {
		return time.Time{}, false
	}
	return rec.LockoutUntil, true
}

// RecordFailure computes the next lockout as base * multiplier^attempts,
// increments the attempt counter and persists before returning. The lockout
// is returned even when the write fails; the in-memory record still holds
// for the process lifetime.
func (l *CooldownLedger) RecordFailure(ctx context.Context, userID string, now time.Time) (time.Time, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := l.records[userID]
	factor := time.Duration(1)
	for i := 0; i < rec.Attempts; i++ {
		factor *= time.Duration(l.multiplier)
	}
	lockout := now.Add(factor * l.base)
	rec.LockoutUntil = lockout
	rec.Attempts++
	l.records[userID] = rec

	if err := l.store.Save(ctx, l.snapshotLocked()); err != nil {
		return lockout, fmt.Errorf("persist cooldowns: %w", err)
	}
	return lockout, nil
}

// Clear deletes the user's record entirely; called on a pass.
func (l *CooldownLedger) Clear(ctx context.Context, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.records[userID]; !ok {
		return nil
	}
	delete(l.records, userID)
	if err := l.store.Save(ctx, l.snapshotLocked()); err != nil {
		return fmt.Errorf("persist cooldowns: %w", err)
	}
	return nil
}

func (l *CooldownLedger) snapshotLocked() map[string]domain.CooldownRecord {
	snapshot := make(map[string]domain.CooldownRecord, len(l.records))
	for id, rec := range l.records {
		snapshot[id] = rec
	}
	return snapshot
}
