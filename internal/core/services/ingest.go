package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
	"github.com/custodia-labs/yonerge/internal/logger"
)

const tracerName = "github.com/custodia-labs/yonerge/internal/core/services"

// IngestionService turns a directory of documents into indexed passages.
type IngestionService struct {
	source    driven.DocumentSource
	extractor driven.Extractor
	pipeline  driven.PostProcessorPipeline
	category  string
}

// NewIngestionService creates an ingestion service.
// An empty category uses domain.DefaultCategory.
func NewIngestionService(
	source driven.DocumentSource,
	extractor driven.Extractor,
	pipeline driven.PostProcessorPipeline,
	category string,
) *IngestionService {
	if category == "" {
		category = domain.DefaultCategory
	}
	return &IngestionService{
		source:    source,
		extractor: extractor,
		pipeline:  pipeline,
		category:  category,
	}
}

// Ingest indexes every document in dir into coll.
//
// Ingestion is skipped wholesale when coll already holds passages. Documents
// are processed one at a time; IDs are assigned from a counter starting at
// zero and only advance for documents that were added. Per-document failures
// are logged and recorded in the report, never returned.
func (s *IngestionService) Ingest(ctx context.Context, coll driven.Collection, dir string) (*domain.IngestReport, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "ingest")
	defer span.End()
	span.SetAttributes(attribute.String("yonerge.directory", dir))

	if coll == nil {
		return nil, domain.ErrIndexUnavailable
	}

	count, err := coll.Count(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("count passages: %w", err)
	}
	if count > 0 {
		logger.Info("Collection %q already holds %d passages, skipping ingestion", coll.Name(), count)
		return &domain.IngestReport{Skipped: true}, nil
	}

	paths, err := s.source.List(ctx, dir)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list documents: %w", err)
	}

	report := &domain.IngestReport{Files: len(paths)}
	if len(paths) == 0 {
		logger.Warn("No PDF files found in %s", dir)
		return report, nil
	}

	logger.Section("Ingestion")
	logger.Info("Found %d documents in %s", len(paths), dir)

	next := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := filepath.Base(path)
		added, err := s.ingestDocument(ctx, coll, path, next)
		switch {
		case errors.Is(err, domain.ErrEmptyInput):
			logger.Warn("%s: no usable text, skipped", name)
			report.Empty = append(report.Empty, name)
		case err != nil:
			logger.Error("%s: %v", name, err)
			report.Failed = append(report.Failed, name)
		default:
			logger.Info("%s: %d chunks indexed", name, added)
			report.Documents++
			report.Chunks += added
			next += added
		}
	}

	span.SetAttributes(
		attribute.Int("yonerge.documents", report.Documents),
		attribute.Int("yonerge.chunks", report.Chunks),
	)
	logger.Info("Ingestion complete: %d chunks from %d of %d documents",
		report.Chunks, report.Documents, report.Files)
	return report, nil
}

// ingestDocument extracts, chunks and adds one document, returning the number
// of passages written. IDs start at firstID.
func (s *IngestionService) ingestDocument(
	ctx context.Context,
	coll driven.Collection,
	path string,
	firstID int,
) (int, error) {
	pages, err := s.extractor.Extract(ctx, path)
	if err != nil {
		return 0, err
	}
	if len(pages) == 0 {
		return 0, domain.ErrEmptyInput
	}

	doc := &domain.Document{
		Name:     filepath.Base(path),
		Path:     path,
		Category: s.category,
		Pages:    pages,
	}

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("chunking: %w", err)
	}
	if len(chunks) == 0 {
		return 0, domain.ErrEmptyInput
	}

	ids := make([]string, len(chunks))
	texts := make([]string, len(chunks))
	metas := make([]domain.PassageMetadata, len(chunks))
	for i := range chunks {
		ids[i] = strconv.Itoa(firstID + i)
		texts[i] = chunks[i].Content
		metas[i] = domain.PassageMetadata{Document: doc.Name, Category: doc.Category}
	}

	if err := coll.Add(ctx, ids, texts, metas); err != nil {
		return 0, fmt.Errorf("adding passages: %w", err)
	}
	return len(chunks), nil
}
