// Package bootstrap wires settings, adapters and services into an engine.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/yonerge/internal/adapters/driven/ai"
	"github.com/custodia-labs/yonerge/internal/adapters/driven/cache/memory"
	"github.com/custodia-labs/yonerge/internal/adapters/driven/cache/redis"
	"github.com/custodia-labs/yonerge/internal/adapters/driven/config/file"
	memstore "github.com/custodia-labs/yonerge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/yonerge/internal/adapters/driven/storage/pgvector"
	"github.com/custodia-labs/yonerge/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/yonerge/internal/adapters/driving/cli"
	"github.com/custodia-labs/yonerge/internal/connectors/filesystem"
	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
	"github.com/custodia-labs/yonerge/internal/core/ports/driving"
	"github.com/custodia-labs/yonerge/internal/core/services"
	"github.com/custodia-labs/yonerge/internal/logger"
	"github.com/custodia-labs/yonerge/internal/normalisers/pdf"
	"github.com/custodia-labs/yonerge/internal/postprocessors"
	"github.com/custodia-labs/yonerge/internal/telemetry"
)

// Dependencies returns the hooks the CLI needs to build settings and engines.
func Dependencies() cli.Dependencies {
	return cli.Dependencies{
		Settings: LoadSettings,
		Engine:   NewEngine,
	}
}

// LoadSettings loads .env and builds the settings service backed by the TOML
// file in configDir. When the config directory cannot be created settings
// are kept in memory for this run.
func LoadSettings(configDir string) (driving.SettingsService, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	var store driven.ConfigStore
	fileStore, err := file.NewConfigStore(configDir)
	if err != nil {
		logger.Warn("config file unavailable, using in-memory settings: %v", err)
		store = memstore.NewConfigStore()
	} else {
		store = fileStore
	}
	return services.NewSettingsService(store, ai.NewConfigValidator()), nil
}

// NewEngine builds every adapter named by settings and initialises an
// engine. On error everything opened so far is released.
func NewEngine(ctx context.Context, settings *domain.AppSettings, opts cli.EngineOptions) (driving.Engine, error) {
	logger.Configure(logger.Options{
		File:    settings.Logging.File,
		Verbose: settings.Logging.Verbose || logger.IsVerbose(),
	})

	stopTracing, err := telemetry.InitTracer(ctx, settings.Telemetry)
	if err != nil {
		logger.Warn("tracing disabled: %v", err)
	}

	engine, err := buildEngine(ctx, settings, opts)
	if err != nil {
		_ = stopTracing(context.WithoutCancel(ctx))
		return nil, err
	}
	if err := engine.Init(ctx); err != nil {
		_ = engine.Shutdown(ctx)
		_ = stopTracing(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("initialising engine: %w", err)
	}
	return &app{Engine: engine, stopTracing: stopTracing}, nil
}

func buildEngine(ctx context.Context, settings *domain.AppSettings, opts cli.EngineOptions) (*services.Engine, error) {
	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("embedding service: %w", err)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: configure embedding.provider and embedding.model", domain.ErrEmbeddingUnavailable)
	}

	store, err := newIndexStore(ctx, settings.Storage, embedder)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}

	// A missing generative model still allows ingestion and stats; answers
	// then fail with ErrLLMUnavailable inside the fallback result.
	llm, err := ai.CreateLLMService(ctx, &settings.LLM)
	if err != nil {
		logger.Warn("LLM unavailable: %v", err)
		llm = nil
	}

	cache, err := newCache(ctx, settings.Cache)
	if err != nil {
		logger.Warn("answer cache disabled: %v", err)
		cache = nil
	}

	deps := services.EngineDeps{Store: store, Embedder: embedder, LLM: llm, Cache: cache}
	fail := func(err error) (*services.Engine, error) {
		closeDeps(deps)
		return nil, err
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry, ai.CreateTokenizer(settings.Tokenizer))
	pipeline, err := postprocessors.BuildPipeline(registry, settings.Chunking.PipelineConfig())
	if err != nil {
		return fail(fmt.Errorf("chunking pipeline: %w", err))
	}

	prompts, err := file.NewPromptStore(settings.PromptsDir)
	if err != nil {
		return fail(fmt.Errorf("prompt store: %w", err))
	}

	retriever := services.NewRetriever(settings.Embedding.Model)
	deps.Retriever = retriever
	deps.Ingestion = services.NewIngestionService(
		filesystem.NewPDFSource(),
		pdf.New(settings.Ingestion.PDFBackend),
		pipeline,
		settings.Ingestion.Category,
	)
	deps.Answers = services.NewAnswerService(retriever, llm, prompts, cache, services.AnswerOptions{
		Temperature: settings.LLM.Temperature,
		MaxTokens:   settings.LLM.MaxTokens,
		CacheTTL:    settings.Cache.TTL,
	})

	return services.NewEngine(services.EngineConfig{
		Collection:        settings.Storage.Collection,
		EmbeddingModel:    settings.Embedding.Model,
		Space:             settings.Storage.Space,
		StorageBackend:    settings.Storage.Backend,
		DocumentDir:       settings.Ingestion.Directory,
		SkipInitialIngest: opts.SkipInitialIngest,
	}, deps), nil
}

// newIndexStore opens the configured vector store.
func newIndexStore(ctx context.Context, s domain.StorageSettings, embedder driven.EmbeddingService) (driven.IndexStore, error) {
	switch s.Backend {
	case domain.StorageSQLite, "":
		store, err := sqlite.NewStore(s.Path, embedder)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store at %s: %w", s.Path, err)
		}
		return store, nil
	case domain.StorageMemory:
		return memstore.NewIndexStore(embedder), nil
	case domain.StoragePgvector:
		store, err := pgvector.NewStore(ctx, s.DatabaseURL, embedder)
		if err != nil {
			return nil, fmt.Errorf("opening pgvector store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidSettings, s.Backend)
	}
}

// newCache returns the configured answer cache, or nil when caching is off.
func newCache(ctx context.Context, s domain.CacheSettings) (driven.AnswerCache, error) {
	switch s.Backend {
	case domain.CacheMemory:
		return memory.NewCache(s.TTL), nil
	case domain.CacheRedis:
		c, err := redis.NewCache(ctx, s.RedisAddr, s.TTL)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, nil
	}
}

// closeDeps releases adapters opened before the engine was assembled.
func closeDeps(deps services.EngineDeps) {
	closers := []interface{ Close() error }{deps.Store, deps.Embedder}
	if deps.LLM != nil {
		closers = append(closers, deps.LLM)
	}
	if deps.Cache != nil {
		closers = append(closers, deps.Cache)
	}
	for _, c := range closers {
		if err := c.Close(); err != nil {
			logger.Warn("close: %v", err)
		}
	}
}

// app flushes traces and logs after the engine shuts down.
type app struct {
	*services.Engine
	stopTracing telemetry.ShutdownFunc
}

func (a *app) Shutdown(ctx context.Context) error {
	err := a.Engine.Shutdown(ctx)
	if terr := a.stopTracing(ctx); terr != nil {
		logger.Warn("flushing traces: %v", terr)
	}
	_ = logger.Sync()
	return err
}
