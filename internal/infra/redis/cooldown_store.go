package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"quizgate/internal/domain"
	"github.com/redis/go-redis/v9"
)

const cooldownKey = "quizgate:cooldowns"

// CooldownStore keeps the cooldown snapshot in a Redis hash, one field per
// user. Save replaces the whole hash so deletions (cleared cooldowns)
// propagate.
type CooldownStore struct {
	client *redis.Client
}

func NewCooldownStore(client *redis.Client) *CooldownStore {
	return &CooldownStore{client: client}
}

func (s *CooldownStore) Load(ctx context.Context) (map[string]domain.CooldownRecord, error) {
	fields, err := s.client.HGetAll(ctx, cooldownKey).Result()
	if err != nil {
		return nil, fmt.Errorf("load cooldowns: %w", err)
	}

	records := make(map[string]domain.CooldownRecord, len(fields))
	for userID, raw := range fields {
		var rec domain.CooldownRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode cooldown for %s: %w", userID, err)
		}
		records[userID] = rec
	}
	return records, nil
}

func (s *CooldownStore) Save(ctx context.Context, records map[string]domain.CooldownRecord) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, cooldownKey)
	if len(records) > 0 {
		fields := make(map[string]interface{}, len(records))
		for userID, rec := range records {
			raw, err := json.Marshal(rec)
			if err != nil {
				return fmt.Errorf("encode cooldown for %s: %w", userID, err)
			}
			fields[userID] = raw
		}
		pipe.HSet(ctx, cooldownKey, fields)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save cooldowns: %w", err)
	}
	return nil
}
