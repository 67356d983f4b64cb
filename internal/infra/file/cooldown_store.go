package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"quizgate/internal/domain"
)

// CooldownStore persists the cooldown snapshot as one JSON document keyed
// by user ID, rewritten whole on every save. A missing file loads as an
// empty snapshot.
type CooldownStore struct {
	path string
	mu   sync.Mutex
}

func NewCooldownStore(path string) *CooldownStore {
	return &CooldownStore{path: path}
}

func (s *CooldownStore) Load(_ context.Context) (map[string]domain.CooldownRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]domain.CooldownRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cooldowns: %w", err)
	}

	records := map[string]domain.CooldownRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode cooldowns: %w", err)
	}
	return records, nil
}

func (s *CooldownStore) Save(_ context.Context, records map[string]domain.CooldownRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode cooldowns: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write cooldowns: %w", err)
	}
	return nil
}
