package driving

import (
	"context"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// AnswerService answers questions from indexed passages.
type AnswerService interface {
	// GenerateAnswer retrieves up to topK passages for question and composes
	// a grounded answer. Generation failures come back as an AnswerResult with
	// Success false. Invalid input returns a *domain.ValidationError, and an
	// unavailable or mismatched index returns the matching domain error.
	GenerateAnswer(ctx context.Context, question string, topK int) (*domain.AnswerResult, error)
}

// RetrievalService ranks indexed passages for a question.
type RetrievalService interface {
	// Retrieve returns up to topK passages sorted by ascending distance.
	Retrieve(ctx context.Context, question string, topK int) (*domain.RetrievalResult, error)
}
