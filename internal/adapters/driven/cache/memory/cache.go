// Package memory provides an in-process answer cache.
package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.AnswerCache = (*Cache)(nil)

// Cache keeps answers in memory until they expire.
type Cache struct {
	items *gocache.Cache
}

// NewCache creates a cache whose entries live for ttl by default.
// Expired entries are purged every ttl/2, at most every ten minutes.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	cleanup := ttl / 2
	if cleanup > 10*time.Minute {
		cleanup = 10 * time.Minute
	}
	return &Cache{items: gocache.New(ttl, cleanup)}
}

// Get returns a copy of the cached answer.
func (c *Cache) Get(_ context.Context, key string) (*domain.AnswerResult, bool, error) {
	x, found := c.items.Get(key)
	if !found {
		return nil, false, nil
	}
	stored, ok := x.(domain.AnswerResult)
	if !ok {
		return nil, false, nil
	}
	stored.Sources = append([]domain.SourceRef(nil), stored.Sources...)
	return &stored, true, nil
}

// Set stores a copy of answer.
func (c *Cache) Set(_ context.Context, key string, answer *domain.AnswerResult, ttl time.Duration) error {
	if answer == nil {
		return nil
	}
	exp := gocache.DefaultExpiration
	if ttl > 0 {
		exp = ttl
	}
	stored := *answer
	stored.Sources = append([]domain.SourceRef(nil), answer.Sources...)
	c.items.Set(key, stored, exp)
	return nil
}

// Clear drops every entry.
func (c *Cache) Clear(_ context.Context) error {
	c.items.Flush()
	return nil
}

// Len returns the number of cached answers, including expired ones not yet purged.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}

// Close drops every entry.
func (c *Cache) Close() error {
	c.items.Flush()
	return nil
}
