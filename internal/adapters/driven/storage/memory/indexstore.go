package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/yonerge/internal/adapters/driven/storage/nearest"
	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// Ensure IndexStore implements the interface.
var _ driven.IndexStore = (*IndexStore)(nil)

// IndexStore is an in-memory implementation of driven.IndexStore. Contents
// are lost on Close; used by tests and `storage.backend = memory`.
type IndexStore struct {
	mu          sync.Mutex
	embedder    driven.EmbeddingService
	collections map[string]*Collection
}

// NewIndexStore creates an empty in-memory index store.
func NewIndexStore(embedder driven.EmbeddingService) *IndexStore {
	return &IndexStore{
		embedder:    embedder,
		collections: make(map[string]*Collection),
	}
}

// GetOrCreateCollection returns the named collection, creating it with opts.
func (s *IndexStore) GetOrCreateCollection(
	_ context.Context,
	name string,
	opts driven.CollectionOptions,
) (driven.Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: collection name is empty", domain.ErrInvalidInput)
	}
	space := opts.Space
	if space == "" {
		space = domain.SpaceL2
	}
	if !space.IsValid() {
		return nil, fmt.Errorf("%w: unknown distance space %q", domain.ErrInvalidInput, space)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[name]; ok {
		return c, nil
	}
	c := &Collection{
		name:     name,
		model:    opts.EmbeddingModel,
		space:    space,
		embedder: s.embedder,
		index:    make(map[string]int),
	}
	s.collections[name] = c
	return c, nil
}

// DeleteCollection removes a collection. Existing handles keep their data.
func (s *IndexStore) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

// Close drops every collection.
func (s *IndexStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = make(map[string]*Collection)
	return nil
}

// Collection holds passages in insertion order.
type Collection struct {
	name     string
	model    string
	space    domain.DistanceSpace
	embedder driven.EmbeddingService

	mu      sync.RWMutex
	entries []nearest.Candidate
	index   map[string]int
}

var _ driven.Collection = (*Collection)(nil)

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// EmbeddingModel returns the model recorded at creation.
func (c *Collection) EmbeddingModel() string { return c.model }

// Space returns the distance space recorded at creation.
func (c *Collection) Space() domain.DistanceSpace { return c.space }

// Count returns the number of stored passages.
func (c *Collection) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

// Add embeds texts outside the lock, then appends the whole batch at once.
// An existing id is overwritten in place.
func (c *Collection) Add(ctx context.Context, ids, texts []string, metas []domain.PassageMetadata) error {
	if len(ids) != len(texts) || len(ids) != len(metas) {
		return fmt.Errorf("%w: %d ids, %d texts, %d metadatas", domain.ErrInvalidInput, len(ids), len(texts), len(metas))
	}
	if len(ids) == 0 {
		return nil
	}
	if c.embedder == nil {
		return fmt.Errorf("memory: embedding service is required")
	}

	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding passages: %w", err)
	}
	if len(vectors) != len(texts) {
		return fmt.Errorf("embedding passages: got %d vectors for %d texts", len(vectors), len(texts))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Copy on write so snapshots taken by Query stay valid.
	entries := make([]nearest.Candidate, len(c.entries), len(c.entries)+len(ids))
	copy(entries, c.entries)
	for i, id := range ids {
		cand := nearest.Candidate{ID: id, Text: texts[i], Metadata: metas[i], Embedding: vectors[i]}
		if pos, ok := c.index[id]; ok {
			entries[pos] = cand
			continue
		}
		c.index[id] = len(entries)
		entries = append(entries, cand)
	}
	c.entries = entries
	return nil
}

// Query ranks a snapshot of the passages. The read lock is held only to
// take the snapshot.
func (c *Collection) Query(ctx context.Context, text string, topK int) (*domain.QueryResult, error) {
	if topK < 1 {
		return nil, &domain.ValidationError{Field: "top_k", Reason: "must be at least 1"}
	}
	if c.embedder == nil {
		return nil, fmt.Errorf("memory: embedding service is required")
	}

	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	c.mu.RLock()
	snapshot := c.entries
	c.mu.RUnlock()

	res, err := nearest.Search(c.space, vec, snapshot, topK)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: query embedding does not match stored passages (%w)", domain.ErrConfigMismatch, err)
		}
		return nil, err
	}
	return res, nil
}
