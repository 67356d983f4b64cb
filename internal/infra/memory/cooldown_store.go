package memory

import (
	"context"
	"sync"

	"quizgate/internal/domain"
)

// CooldownStore is an in-memory implementation of app.CooldownStore for
// tests and demo runs without a cooldown file or Redis.
type CooldownStore struct {
	mu      sync.RWMutex
	records map[string]domain.CooldownRecord
}

func NewCooldownStore() *CooldownStore {
	return &CooldownStore{
		records: make(map[string]domain.CooldownRecord),
	}
}

func (s *CooldownStore) Load(_ context.Context) (map[string]domain.CooldownRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.CooldownRecord, len(s.records))
	for id, rec := range s.records {
		out[id] = rec
	}
	return out, nil
}

func (s *CooldownStore) Save(_ context.Context, records map[string]domain.CooldownRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]domain.CooldownRecord, len(records))
	for id, rec := range records {
		s.records[id] = rec
	}
	return nil
}
