package driven

import (
	"context"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// AIConfigValidator checks provider settings by reaching the provider.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider described by config.
	// Returns nil if config is nil or not configured.
	ValidateEmbedding(ctx context.Context, config *domain.EmbeddingSettings) error

	// ValidateLLM pings the LLM provider described by config.
	// Returns nil if config is nil or not configured.
	ValidateLLM(ctx context.Context, config *domain.LLMSettings) error
}
