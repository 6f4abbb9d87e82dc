package driving

import (
	"context"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// IngestionService populates the index from a directory of documents.
type IngestionService interface {
	// Ingest indexes every supported document in dir. It is a no-op when the
	// collection already holds passages.
	Ingest(ctx context.Context, dir string) (*domain.IngestReport, error)
}
