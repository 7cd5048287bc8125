package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const ackKeyPrefix = "inventory:alert_ack:"

// RedisAckStore keeps alert acknowledgment flags in Redis, keyed by the
// deterministic alert ID so the flag survives alert regeneration.
type RedisAckStore struct {
	client *redis.Client
}

func NewRedisAckStore(client *redis.Client) *RedisAckStore {
	return &RedisAckStore{client: client}
}

func (s *RedisAckStore) Acknowledge(ctx context.Context, alertID, acknowledgedBy string) error {
	if err := s.client.Set(ctx, ackKeyPrefix+alertID, acknowledgedBy, 0).Err(); err != nil {
		return fmt.Errorf("acknowledge alert: %w", err)
	}
	return nil
}

func (s *RedisAckStore) Acknowledged(ctx context.Context, alertIDs []string) (map[string]bool, error) {
	acked := make(map[string]bool, len(alertIDs))
	if len(alertIDs) == 0 {
		return acked, nil
	}

	keys := make([]string, len(alertIDs))
	for i, id := range alertIDs {
		keys[i] = ackKeyPrefix + id
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read alert acks: %w", err)
	}

	for i, v := range values {
		if v != nil {
			acked[alertIDs[i]] = true
		}
	}
	return acked, nil
}
