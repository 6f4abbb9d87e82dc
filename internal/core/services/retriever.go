package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// Retriever ranks the passages of a collection for a question.
type Retriever struct {
	embeddingModel string
}

// NewRetriever creates a retriever that refuses collections built with a
// model other than embeddingModel. An empty model disables the check.
func NewRetriever(embeddingModel string) *Retriever {
	return &Retriever{embeddingModel: embeddingModel}
}

// ValidateQuery rejects blank questions and non-positive topK.
func ValidateQuery(question string, topK int) error {
	if strings.TrimSpace(question) == "" {
		return &domain.ValidationError{Field: "question", Reason: "must not be empty"}
	}
	if topK < 1 {
		return &domain.ValidationError{Field: "top_k", Reason: "must be at least 1"}
	}
	return nil
}

// CheckModel returns a *domain.ConfigMismatchError when coll was built with
// a different embedding model.
func (r *Retriever) CheckModel(coll driven.Collection) error {
	stored := coll.EmbeddingModel()
	if r.embeddingModel == "" || stored == "" || stored == r.embeddingModel {
		return nil
	}
	return &domain.ConfigMismatchError{
		Collection: coll.Name(),
		Stored:     stored,
		Configured: r.embeddingModel,
	}
}

// Retrieve returns up to topK passages of coll sorted by ascending distance.
func (r *Retriever) Retrieve(
	ctx context.Context,
	coll driven.Collection,
	question string,
	topK int,
) (*domain.RetrievalResult, error) {
	if err := ValidateQuery(question, topK); err != nil {
		return nil, err
	}
	if coll == nil {
		return nil, domain.ErrIndexUnavailable
	}
	if err := r.CheckModel(coll); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "retrieve")
	defer span.End()
	span.SetAttributes(
		attribute.String("yonerge.collection", coll.Name()),
		attribute.Int("yonerge.top_k", topK),
	)

	qr, err := coll.Query(ctx, question, topK)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, domain.ErrConfigMismatch) {
			return nil, err
		}
		return nil, fmt.Errorf("query collection: %w", err)
	}

	passages := domain.FromQueryResult(qr)
	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].Distance < passages[j].Distance
	})
	if len(passages) > topK {
		passages = passages[:topK]
	}
	if passages == nil {
		passages = []domain.ScoredPassage{}
	}
	span.SetAttributes(attribute.Int("yonerge.passages", len(passages)))

	return &domain.RetrievalResult{
		Question: question,
		TopK:     topK,
		Passages: passages,
	}, nil
}
