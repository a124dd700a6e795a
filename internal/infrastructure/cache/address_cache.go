package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
	"github.com/redis/go-redis/v9"
)

// AddressCache remembers CEP lookups. A miss returns (nil, nil).
type AddressCache interface {
	Get(ctx context.Context, cep string) (*storefront.AddressLookupResult, error)
	Set(ctx context.Context, cep string, result *storefront.AddressLookupResult, ttl time.Duration) error
}

const addressKeyPrefix = "printfoods:cep:"

// RedisAddressCache stores lookups as JSON strings
type RedisAddressCache struct {
	client redis.UniversalClient
}

// NewRedisAddressCache creates a new RedisAddressCache
func NewRedisAddressCache(client redis.UniversalClient) *RedisAddressCache {
	return &RedisAddressCache{client: client}
}

func (c *RedisAddressCache) Get(ctx context.Context, cep string) (*storefront.AddressLookupResult, error) {
	data, err := c.client.Get(ctx, addressKeyPrefix+cep).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cached cep %s: %w", cep, err)
	}

	var result storefront.AddressLookupResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode cached cep %s: %w", cep, err)
	}
	return &result, nil
}

func (c *RedisAddressCache) Set(ctx context.Context, cep string, result *storefront.AddressLookupResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode cep %s: %w", cep, err)
	}
	if err := c.client.Set(ctx, addressKeyPrefix+cep, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache cep %s: %w", cep, err)
	}
	return nil
}

type addressEntry struct {
	result    storefront.AddressLookupResult
	expiresAt time.Time
}

// InMemoryAddressCache is the single-instance AddressCache
type InMemoryAddressCache struct {
	mu      sync.RWMutex
	entries map[string]addressEntry
	now     func() time.Time
}

// NewInMemoryAddressCache creates a new InMemoryAddressCache
func NewInMemoryAddressCache() *InMemoryAddressCache {
	return &InMemoryAddressCache{
		entries: make(map[string]addressEntry),
		now:     time.Now,
	}
}

func (c *InMemoryAddressCache) Get(ctx context.Context, cep string) (*storefront.AddressLookupResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[cep]
	if !ok || !c.now().Before(e.expiresAt) {
		return nil, nil
	}
	result := e.result
	return &result, nil
}

func (c *InMemoryAddressCache) Set(ctx context.Context, cep string, result *storefront.AddressLookupResult, ttl time.Duration) error {
	if result == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[cep] = addressEntry{result: *result, expiresAt: c.now().Add(ttl)}
	return nil
}

var (
	_ AddressCache = (*RedisAddressCache)(nil)
	_ AddressCache = (*InMemoryAddressCache)(nil)
)
