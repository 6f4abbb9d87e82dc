package driven

import (
	"context"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// CollectionOptions is recorded on a collection when it is first created.
type CollectionOptions struct {
	// EmbeddingModel is the model used for every add and query.
	EmbeddingModel string

	// Space is the distance space. Empty means squared L2.
	Space domain.DistanceSpace
}

// IndexStore owns persisted passages grouped into named collections.
// Implementations embed texts through an injected EmbeddingService.
type IndexStore interface {
	// GetOrCreateCollection returns the named collection, creating it with
	// opts when it does not exist. An existing collection keeps the options
	// it was created with.
	GetOrCreateCollection(ctx context.Context, name string, opts CollectionOptions) (Collection, error)

	// DeleteCollection removes a collection and every passage in it.
	// Deleting a missing collection is not an error.
	DeleteCollection(ctx context.Context, name string) error

	// Close releases resources.
	Close() error
}

// Collection is a handle on one set of indexed passages.
// Handles are safe for concurrent use; queries never wait on a bulk Add.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// EmbeddingModel returns the model recorded at creation time.
	EmbeddingModel() string

	// Space returns the distance space recorded at creation time.
	Space() domain.DistanceSpace

	// Count returns the number of stored passages.
	Count(ctx context.Context) (int, error)

	// Add embeds and stores passages. ids, texts and metas are parallel and
	// the whole batch is written atomically.
	Add(ctx context.Context, ids, texts []string, metas []domain.PassageMetadata) error

	// Query returns up to topK passages nearest to text, sorted by ascending
	// distance, fewer when the collection holds fewer.
	Query(ctx context.Context, text string, topK int) (*domain.QueryResult, error)
}
