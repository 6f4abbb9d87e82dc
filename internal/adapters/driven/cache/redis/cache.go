// Package redis provides an answer cache shared between server replicas.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.AnswerCache = (*Cache)(nil)

// keyPrefix namespaces answer keys: yonerge:answer:{fingerprint}
const keyPrefix = "yonerge:answer:"

// Cache stores answers as JSON strings with a TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache connects to addr and verifies the connection.
func NewCache(ctx context.Context, addr string, ttl time.Duration) (*Cache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis cache: address is required")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis cache: ping %s: %w", addr, err)
	}
	return NewCacheWithClient(client, ttl), nil
}

// NewCacheWithClient wraps an existing client.
func NewCacheWithClient(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{client: client, ttl: ttl}
}

// Get returns the cached answer for key.
func (c *Cache) Get(ctx context.Context, key string) (*domain.AnswerResult, bool, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis cache: get: %w", err)
	}

	var answer domain.AnswerResult
	if err := json.Unmarshal(data, &answer); err != nil {
		return nil, false, fmt.Errorf("redis cache: decode: %w", err)
	}
	return &answer, true, nil
}

// Set stores answer for ttl, or the cache default when ttl is zero.
func (c *Cache) Set(ctx context.Context, key string, answer *domain.AnswerResult, ttl time.Duration) error {
	if answer == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	data, err := json.Marshal(answer)
	if err != nil {
		return fmt.Errorf("redis cache: encode: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis cache: set: %w", err)
	}
	return nil
}

// clearBatch is the SCAN page size and the number of keys per DEL.
const clearBatch = 100

// Clear deletes every answer key. Keys outside the answer prefix are left alone.
func (c *Cache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", clearBatch).Iterator()
	batch := make([]string, 0, clearBatch)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis cache: clear: %w", err)
		}
		batch = batch[:0]
		return nil
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis cache: scan: %w", err)
	}
	return flush()
}

// Close closes the client.
func (c *Cache) Close() error {
	return c.client.Close()
}
