package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
	"github.com/custodia-labs/yonerge/internal/core/ports/driving"
	"github.com/custodia-labs/yonerge/internal/logger"
)

// Ensure Engine implements the interface.
var _ driving.Engine = (*Engine)(nil)

// EngineConfig names the collection an Engine serves and where its documents live.
type EngineConfig struct {
	Collection     string
	EmbeddingModel string
	Space          domain.DistanceSpace
	StorageBackend domain.StorageBackend
	DocumentDir    string

	// SkipInitialIngest makes Init only open the collection.
	SkipInitialIngest bool
}

// EngineDeps are the collaborators an Engine owns. Cache may be nil.
type EngineDeps struct {
	Store     driven.IndexStore
	Embedder  driven.EmbeddingService
	LLM       driven.LLMService
	Cache     driven.AnswerCache
	Ingestion *IngestionService
	Retriever *Retriever
	Answers   *AnswerService
}

// Engine is the single initialised pipeline shared by every driving adapter.
// Queries are refused until Init succeeds and while Rebuild runs.
type Engine struct {
	cfg  EngineConfig
	deps EngineDeps

	mu   sync.RWMutex // guards coll
	coll driven.Collection

	ready     atomic.Bool
	rebuildMu sync.Mutex
	closeOnce sync.Once
}

// NewEngine creates an engine. Call Init before serving queries.
func NewEngine(cfg EngineConfig, deps EngineDeps) *Engine {
	if cfg.Collection == "" {
		cfg.Collection = domain.DefaultCollectionName
	}
	if cfg.Space == "" {
		cfg.Space = domain.SpaceL2
	}
	return &Engine{cfg: cfg, deps: deps}
}

// Init opens the collection, checks its embedding model and ingests the
// document directory. A missing directory is logged and leaves the engine
// serving whatever the collection already holds.
func (e *Engine) Init(ctx context.Context) error {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	if err := e.open(ctx); err != nil {
		return err
	}
	if !e.cfg.SkipInitialIngest {
		if err := e.ingestConfigured(ctx); err != nil {
			return err
		}
	}

	e.ready.Store(true)
	logger.Info("Engine ready (collection %q)", e.cfg.Collection)
	return nil
}

// open gets or creates the collection and validates its model.
func (e *Engine) open(ctx context.Context) error {
	coll, err := e.deps.Store.GetOrCreateCollection(ctx, e.cfg.Collection, driven.CollectionOptions{
		EmbeddingModel: e.cfg.EmbeddingModel,
		Space:          e.cfg.Space,
	})
	if err != nil {
		return fmt.Errorf("open collection %q: %w", e.cfg.Collection, err)
	}
	if err := e.deps.Retriever.CheckModel(coll); err != nil {
		return err
	}

	e.mu.Lock()
	e.coll = coll
	e.mu.Unlock()
	return nil
}

func (e *Engine) ingestConfigured(ctx context.Context) error {
	if e.cfg.DocumentDir == "" {
		return nil
	}
	_, err := e.deps.Ingestion.Ingest(ctx, e.collection(), e.cfg.DocumentDir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("Document directory %s not found, serving the existing collection", e.cfg.DocumentDir)
		return nil
	}
	return err
}

func (e *Engine) collection() driven.Collection {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.coll
}

// readyCollection returns the collection or ErrIndexUnavailable.
func (e *Engine) readyCollection() (driven.Collection, error) {
	if !e.ready.Load() {
		return nil, domain.ErrIndexUnavailable
	}
	coll := e.collection()
	if coll == nil {
		return nil, domain.ErrIndexUnavailable
	}
	return coll, nil
}

// IsReady reports whether queries can be served.
func (e *Engine) IsReady() bool {
	return e.ready.Load()
}

// GenerateAnswer answers question from up to topK passages.
func (e *Engine) GenerateAnswer(ctx context.Context, question string, topK int) (*domain.AnswerResult, error) {
	if err := ValidateQuery(question, topK); err != nil {
		return nil, err
	}
	coll, err := e.readyCollection()
	if err != nil {
		return nil, err
	}
	return e.deps.Answers.Answer(ctx, coll, question, topK)
}

// Retrieve returns up to topK passages for question.
func (e *Engine) Retrieve(ctx context.Context, question string, topK int) (*domain.RetrievalResult, error) {
	if err := ValidateQuery(question, topK); err != nil {
		return nil, err
	}
	coll, err := e.readyCollection()
	if err != nil {
		return nil, err
	}
	return e.deps.Retriever.Retrieve(ctx, coll, question, topK)
}

// Ingest indexes dir into the open collection. It does not require readiness
// so that the CLI can ingest before serving.
func (e *Engine) Ingest(ctx context.Context, dir string) (*domain.IngestReport, error) {
	coll := e.collection()
	if coll == nil {
		return nil, domain.ErrIndexUnavailable
	}
	return e.deps.Ingestion.Ingest(ctx, coll, dir)
}

// Rebuild drops the collection and ingests the document directory again.
// Queries receive ErrIndexUnavailable until it finishes.
func (e *Engine) Rebuild(ctx context.Context) (*domain.IngestReport, error) {
	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	e.ready.Store(false)
	logger.Info("Rebuilding collection %q", e.cfg.Collection)

	if err := e.deps.Store.DeleteCollection(ctx, e.cfg.Collection); err != nil {
		return nil, fmt.Errorf("delete collection: %w", err)
	}
	if err := e.open(ctx); err != nil {
		return nil, err
	}

	report := &domain.IngestReport{}
	if e.cfg.DocumentDir != "" {
		r, err := e.deps.Ingestion.Ingest(ctx, e.collection(), e.cfg.DocumentDir)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Warn("Document directory %s not found, collection left empty", e.cfg.DocumentDir)
		case err != nil:
			return nil, err
		default:
			report = r
		}
	}

	// Answers cached before the rebuild cite the old corpus.
	if e.deps.Cache != nil {
		if err := e.deps.Cache.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear answer cache: %w", err)
		}
	}

	e.ready.Store(true)
	return report, nil
}

// Stats describes the engine and its collection.
func (e *Engine) Stats(ctx context.Context) (*domain.EngineStats, error) {
	stats := &domain.EngineStats{
		Ready:          e.ready.Load(),
		CollectionName: e.cfg.Collection,
		EmbeddingModel: e.cfg.EmbeddingModel,
		Space:          string(e.cfg.Space),
		StorageBackend: string(e.cfg.StorageBackend),
	}
	if e.deps.LLM != nil {
		stats.GenerativeModel = e.deps.LLM.ModelName()
	}

	coll := e.collection()
	if coll == nil {
		return stats, nil
	}
	count, err := coll.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count passages: %w", err)
	}
	stats.TotalChunks = count
	if model := coll.EmbeddingModel(); model != "" {
		stats.EmbeddingModel = model
	}
	stats.Space = string(coll.Space())
	return stats, nil
}

// Shutdown releases every resource held by the engine. It is safe to call
// more than once.
func (e *Engine) Shutdown(_ context.Context) error {
	var errs []error
	e.closeOnce.Do(func() {
		e.ready.Store(false)
		closers := []interface{ Close() error }{}
		if e.deps.Store != nil {
			closers = append(closers, e.deps.Store)
		}
		if e.deps.Embedder != nil {
			closers = append(closers, e.deps.Embedder)
		}
		if e.deps.LLM != nil {
			closers = append(closers, e.deps.LLM)
		}
		if e.deps.Cache != nil {
			closers = append(closers, e.deps.Cache)
		}
		for _, c := range closers {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	})
	return errors.Join(errs...)
}
