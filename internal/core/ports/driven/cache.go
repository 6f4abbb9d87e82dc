package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// AnswerCache stores successful answers keyed by a question fingerprint.
// This is an optional service - when nil, every question is generated.
type AnswerCache interface {
	// Get returns a cached answer and whether it was found.
	Get(ctx context.Context, key string) (*domain.AnswerResult, bool, error)

	// Set stores an answer for ttl. A zero ttl uses the cache default.
	Set(ctx context.Context, key string, answer *domain.AnswerResult, ttl time.Duration) error

	// Clear drops every cached answer. Called when the indexed corpus changes.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
