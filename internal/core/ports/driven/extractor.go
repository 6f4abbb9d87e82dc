package driven

import (
	"context"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// Extractor reads the text of a source document page by page.
type Extractor interface {
	// Name identifies the extraction backend for logging.
	Name() string

	// SupportedExtensions returns the lower-case file extensions handled, with dot.
	SupportedExtensions() []string

	// Extract returns the non-empty page texts in page order.
	// Pages without extractable text are dropped. Failures are returned as
	// *domain.ExtractionError; callers log them and move on.
	Extract(ctx context.Context, path string) ([]domain.Page, error)
}
