package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ticket-pass/models"
)

// RedisTicketStore keeps ticket records as JSON strings in Redis, the
// same way the booking state lives there in server deployments.
type RedisTicketStore struct {
	Redis *redis.Client
}

func NewRedisTicketStore(client *redis.Client) *RedisTicketStore {
	return &RedisTicketStore{Redis: client}
}

func (s *RedisTicketStore) Get(ctx context.Context, key string) (*models.TicketRecord, error) {
	data, err := s.Redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}

	return decodeRecord([]byte(data))
}

func (s *RedisTicketStore) Put(ctx context.Context, key string, record *models.TicketRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}

	// Records never expire; the app never deletes them.
	if err := s.Redis.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisTicketStore) Close() error {
	return s.Redis.Close()
}
