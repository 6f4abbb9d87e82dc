package driving

import (
	"context"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// StatsService describes the engine and its collection.
type StatsService interface {
	Stats(ctx context.Context) (*domain.EngineStats, error)
}

// Engine is the lifecycle object every driving adapter is handed.
// It is built once before traffic starts and shut down once at exit.
type Engine interface {
	AnswerService
	RetrievalService
	IngestionService
	StatsService

	// Init opens the index, validates its embedding model and runs the
	// initial ingestion.
	Init(ctx context.Context) error

	// IsReady reports whether queries can be served.
	IsReady() bool

	// Rebuild drops the collection and ingests the document directory again.
	Rebuild(ctx context.Context) (*domain.IngestReport, error)

	// Shutdown releases every resource held by the engine.
	Shutdown(ctx context.Context) error
}
