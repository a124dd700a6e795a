package settingsstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey is the key holding the snapshot
const DefaultRedisKey = "printfoods:settings"

// RedisStore keeps the snapshot under one Redis key without expiry
type RedisStore struct {
	client redis.UniversalClient
	key    string
}

// NewRedisStore creates a new RedisStore
func NewRedisStore(client redis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Get(ctx context.Context) (*storefront.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storefront.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read settings from redis: %w", err)
	}
	return storefront.DecodeSnapshot(data)
}

func (s *RedisStore) Save(ctx context.Context, snapshot *storefront.Snapshot) error {
	data, err := storefront.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("write settings to redis: %w", err)
	}
	return nil
}

var _ storefront.SettingsRepository = (*RedisStore)(nil)
