package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
	"github.com/custodia-labs/yonerge/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStorageBackend     = "storage.backend"
	keyStoragePath        = "storage.path"
	keyStorageDatabaseURL = "storage.database_url"
	keyStorageCollection  = "storage.collection"
	keyStorageSpace       = "storage.space"

	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDimensions = "embedding.dimensions"

	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyLLMTemperature = "llm.temperature"
	keyLLMMaxTokens   = "llm.max_tokens"
	keyLLMTimeout     = "llm.timeout"

	keyTokenizerKind = "tokenizer.kind"
	keyTokenizerName = "tokenizer.name"

	keyChunkSize      = "chunking.chunk_size"
	keyChunkOverlap   = "chunking.chunk_overlap"
	keyTokensPerChunk = "chunking.tokens_per_chunk"
	keyTokenOverlap   = "chunking.token_overlap"

	keyIngestDirectory  = "ingestion.directory"
	keyIngestCategory   = "ingestion.category"
	keyIngestPDFBackend = "ingestion.pdf_backend"

	keyRetrievalTopK = "retrieval.top_k"

	keyServerAddr            = "server.addr"
	keyServerAllowedOrigins  = "server.allowed_origins"
	keyServerRateLimit       = "server.rate_limit"
	keyServerBurst           = "server.burst"
	keyServerShutdownTimeout = "server.shutdown_timeout"

	keyCacheBackend   = "cache.backend"
	keyCacheRedisAddr = "cache.redis_addr"
	keyCacheTTL       = "cache.ttl"

	keyLogFile    = "logging.file"
	keyLogVerbose = "logging.verbose"

	keyTelemetryEnabled  = "telemetry.enabled"
	keyTelemetryEndpoint = "telemetry.endpoint"
	keyTelemetryService  = "telemetry.service_name"

	keyPromptsDir = "prompts.dir"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
	kindDuration
	kindStringSlice
)

// knownKeys lists every settable key and how its value is parsed.
var knownKeys = map[string]keyKind{
	keyStorageBackend:        kindString,
	keyStoragePath:           kindString,
	keyStorageDatabaseURL:    kindString,
	keyStorageCollection:     kindString,
	keyStorageSpace:          kindString,
	keyEmbedProvider:         kindString,
	keyEmbedModel:            kindString,
	keyEmbedBaseURL:          kindString,
	keyEmbedAPIKey:           kindString,
	keyEmbedDimensions:       kindInt,
	keyLLMProvider:           kindString,
	keyLLMModel:              kindString,
	keyLLMBaseURL:            kindString,
	keyLLMAPIKey:             kindString,
	keyLLMTemperature:        kindFloat,
	keyLLMMaxTokens:          kindInt,
	keyLLMTimeout:            kindDuration,
	keyTokenizerKind:         kindString,
	keyTokenizerName:         kindString,
	keyChunkSize:             kindInt,
	keyChunkOverlap:          kindInt,
	keyTokensPerChunk:        kindInt,
	keyTokenOverlap:          kindInt,
	keyIngestDirectory:       kindString,
	keyIngestCategory:        kindString,
	keyIngestPDFBackend:      kindString,
	keyRetrievalTopK:         kindInt,
	keyServerAddr:            kindString,
	keyServerAllowedOrigins:  kindStringSlice,
	keyServerRateLimit:       kindFloat,
	keyServerBurst:           kindInt,
	keyServerShutdownTimeout: kindDuration,
	keyCacheBackend:          kindString,
	keyCacheRedisAddr:        kindString,
	keyCacheTTL:              kindDuration,
	keyLogFile:               kindString,
	keyLogVerbose:            kindBool,
	keyTelemetryEnabled:      kindBool,
	keyTelemetryEndpoint:     kindString,
	keyTelemetryService:      kindString,
	keyPromptsDir:            kindString,
}

// envKeys maps environment variables onto config keys. Later entries win
// when two variables target the same key.
var envKeys = []struct {
	env string
	key string
}{
	{"CHROMA_DB_PATH", keyStoragePath},
	{"COLLECTION_NAME", keyStorageCollection},
	{"EMBEDDING_MODEL", keyEmbedModel},
	{"GEMINI_MODEL", keyLLMModel},
	{"GOOGLE_API_KEY", keyLLMAPIKey},
	{"YONERGE_STORAGE_BACKEND", keyStorageBackend},
	{"YONERGE_STORAGE_PATH", keyStoragePath},
	{"YONERGE_DATABASE_URL", keyStorageDatabaseURL},
	{"YONERGE_COLLECTION", keyStorageCollection},
	{"YONERGE_SPACE", keyStorageSpace},
	{"YONERGE_PDF_DIR", keyIngestDirectory},
	{"YONERGE_PDF_BACKEND", keyIngestPDFBackend},
	{"YONERGE_CATEGORY", keyIngestCategory},
	{"YONERGE_EMBEDDING_PROVIDER", keyEmbedProvider},
	{"YONERGE_EMBEDDING_MODEL", keyEmbedModel},
	{"YONERGE_EMBEDDING_URL", keyEmbedBaseURL},
	{"YONERGE_EMBEDDING_API_KEY", keyEmbedAPIKey},
	{"YONERGE_LLM_PROVIDER", keyLLMProvider},
	{"YONERGE_LLM_MODEL", keyLLMModel},
	{"YONERGE_LLM_URL", keyLLMBaseURL},
	{"YONERGE_LLM_API_KEY", keyLLMAPIKey},
	{"YONERGE_LLM_TEMPERATURE", keyLLMTemperature},
	{"YONERGE_TOKENIZER", keyTokenizerName},
	{"YONERGE_TOP_K", keyRetrievalTopK},
	{"YONERGE_ADDR", keyServerAddr},
	{"YONERGE_CACHE_BACKEND", keyCacheBackend},
	{"YONERGE_REDIS_ADDR", keyCacheRedisAddr},
	{"YONERGE_LOG_FILE", keyLogFile},
	{"YONERGE_PROMPTS_DIR", keyPromptsDir},
	{"OTEL_ENABLED", keyTelemetryEnabled},
	{"OTEL_EXPORTER_OTLP_ENDPOINT", keyTelemetryEndpoint},
	{"OTEL_SERVICE_NAME", keyTelemetryService},
}

// SettingsService resolves application settings from defaults, the config
// file and the environment, in increasing precedence.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	lookupEnv   func(string) (string, bool)
	validate    *validator.Validate
}

// NewSettingsService creates a settings service reading the process environment.
// aiValidator may be nil.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		lookupEnv:   os.LookupEnv,
		validate:    validator.New(),
	}
}

// SetEnvLookup replaces the environment lookup, for tests.
func (s *SettingsService) SetEnvLookup(fn func(string) (string, bool)) {
	s.lookupEnv = fn
}

// KnownKeys returns every settable key, sorted.
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for k := range knownKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get resolves the current settings. Malformed values are ignored in favour
// of the layer below.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()
	r := &resolver{store: s.configStore, env: s.envOverrides()}

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			Backend:     domain.StorageBackend(r.str(keyStorageBackend, string(d.Storage.Backend))),
			Path:        r.str(keyStoragePath, d.Storage.Path),
			DatabaseURL: r.str(keyStorageDatabaseURL, d.Storage.DatabaseURL),
			Collection:  r.str(keyStorageCollection, d.Storage.Collection),
			Space:       domain.DistanceSpace(r.str(keyStorageSpace, string(d.Storage.Space))),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   domain.AIProvider(r.str(keyEmbedProvider, string(d.Embedding.Provider))),
			Model:      r.str(keyEmbedModel, d.Embedding.Model),
			BaseURL:    r.str(keyEmbedBaseURL, d.Embedding.BaseURL),
			APIKey:     r.str(keyEmbedAPIKey, d.Embedding.APIKey),
			Dimensions: r.integer(keyEmbedDimensions, d.Embedding.Dimensions),
		},
		LLM: domain.LLMSettings{
			Provider:    domain.AIProvider(r.str(keyLLMProvider, string(d.LLM.Provider))),
			Model:       r.str(keyLLMModel, d.LLM.Model),
			BaseURL:     r.str(keyLLMBaseURL, d.LLM.BaseURL),
			APIKey:      r.str(keyLLMAPIKey, d.LLM.APIKey),
			Temperature: r.float(keyLLMTemperature, d.LLM.Temperature),
			MaxTokens:   r.integer(keyLLMMaxTokens, d.LLM.MaxTokens),
			Timeout:     r.duration(keyLLMTimeout, d.LLM.Timeout),
		},
		Tokenizer: domain.TokenizerSettings{
			Kind: domain.TokenizerKind(r.str(keyTokenizerKind, string(d.Tokenizer.Kind))),
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize:      r.integer(keyChunkSize, d.Chunking.ChunkSize),
			ChunkOverlap:   r.integer(keyChunkOverlap, d.Chunking.ChunkOverlap),
			TokensPerChunk: r.integer(keyTokensPerChunk, d.Chunking.TokensPerChunk),
			TokenOverlap:   r.integer(keyTokenOverlap, d.Chunking.TokenOverlap),
		},
		Ingestion: domain.IngestionSettings{
			Directory:  r.str(keyIngestDirectory, d.Ingestion.Directory),
			Category:   r.str(keyIngestCategory, d.Ingestion.Category),
			PDFBackend: domain.PDFBackend(r.str(keyIngestPDFBackend, string(d.Ingestion.PDFBackend))),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: r.integer(keyRetrievalTopK, d.Retrieval.TopK),
		},
		Server: domain.ServerSettings{
			Addr:            r.str(keyServerAddr, d.Server.Addr),
			AllowedOrigins:  r.list(keyServerAllowedOrigins, d.Server.AllowedOrigins),
			RateLimit:       r.float(keyServerRateLimit, d.Server.RateLimit),
			Burst:           r.integer(keyServerBurst, d.Server.Burst),
			ShutdownTimeout: r.duration(keyServerShutdownTimeout, d.Server.ShutdownTimeout),
		},
		Cache: domain.CacheSettings{
			Backend:   domain.CacheBackend(r.str(keyCacheBackend, string(d.Cache.Backend))),
			RedisAddr: r.str(keyCacheRedisAddr, d.Cache.RedisAddr),
			TTL:       r.duration(keyCacheTTL, d.Cache.TTL),
		},
		Logging: domain.LoggingSettings{
			File:    r.str(keyLogFile, d.Logging.File),
			Verbose: r.boolean(keyLogVerbose, d.Logging.Verbose),
		},
		Telemetry: domain.TelemetrySettings{
			Enabled:     r.boolean(keyTelemetryEnabled, d.Telemetry.Enabled),
			Endpoint:    r.str(keyTelemetryEndpoint, d.Telemetry.Endpoint),
			ServiceName: r.str(keyTelemetryService, d.Telemetry.ServiceName),
		},
		PromptsDir: r.str(keyPromptsDir, d.PromptsDir),
	}

	// The tokenizer follows the embedding model unless named explicitly.
	settings.Tokenizer.Name = r.str(keyTokenizerName, defaultTokenizerName(settings.Embedding.Model))

	return settings, nil
}

// defaultTokenizerName maps a sentence-transformers model to its hub repository.
func defaultTokenizerName(model string) string {
	if strings.Contains(model, "/") {
		return model
	}
	return "sentence-transformers/" + model
}

// Set parses value for key and persists it to the config file.
// String values are converted to the key's type.
func (s *SettingsService) Set(key string, value any) error {
	kind, ok := knownKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	parsed, err := parseValue(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}
	return s.configStore.Set(key, parsed)
}

// Validate checks the resolved settings against their constraints.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.ValidateSettings(settings)
}

// ValidateSettings checks settings against their struct constraints.
func (s *SettingsService) ValidateSettings(settings *domain.AppSettings) error {
	if err := s.validate.Struct(settings); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("%w: %s", domain.ErrInvalidSettings, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", domain.ErrInvalidSettings, err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig pings the configured embedding provider.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(ctx, &settings.Embedding)
}

// ValidateLLMConfig pings the configured LLM provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, &settings.LLM)
}

// GetPipelineConfig returns the chunking pipeline for the current settings.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	settings, err := s.Get()
	if err != nil {
		return domain.DefaultPipelineConfig()
	}
	return settings.Chunking.PipelineConfig()
}

func (s *SettingsService) envOverrides() map[string]string {
	out := make(map[string]string)
	if s.lookupEnv == nil {
		return out
	}
	for _, e := range envKeys {
		if v, ok := s.lookupEnv(e.env); ok && v != "" {
			out[e.key] = v
		}
	}
	return out
}

// resolver reads a key from the environment, then the config store, then
// falls back to the default.
type resolver struct {
	store driven.ConfigStore
	env   map[string]string
}

func (r *resolver) raw(key string) (string, bool) {
	if v, ok := r.env[key]; ok {
		return v, true
	}
	return "", false
}

func (r *resolver) str(key, def string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	if r.store != nil {
		if v := r.store.GetString(key); v != "" {
			return v
		}
	}
	return def
}

func (r *resolver) integer(key string, def int) int {
	if v, ok := r.raw(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if r.store != nil {
		if _, exists := r.store.Get(key); exists {
			return r.store.GetInt(key)
		}
	}
	return def
}

func (r *resolver) float(key string, def float64) float64 {
	if v, ok := r.raw(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	if r.store != nil {
		if _, exists := r.store.Get(key); exists {
			return r.store.GetFloat(key)
		}
	}
	return def
}

func (r *resolver) boolean(key string, def bool) bool {
	if v, ok := r.raw(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	if r.store != nil {
		if _, exists := r.store.Get(key); exists {
			return r.store.GetBool(key)
		}
	}
	return def
}

func (r *resolver) duration(key string, def time.Duration) time.Duration {
	if v, ok := r.raw(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	if r.store != nil {
		if v := r.store.GetString(key); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				return d
			}
		}
	}
	return def
}

func (r *resolver) list(key string, def []string) []string {
	if v, ok := r.raw(key); ok {
		return splitList(v)
	}
	if r.store != nil {
		if v := r.store.GetStringSlice(key); len(v) > 0 {
			return v
		}
	}
	return def
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseValue converts CLI strings to the stored type. Values already of the
// right type pass through.
func parseValue(kind keyKind, value any) (any, error) {
	str, isString := value.(string)
	if !isString {
		return value, nil
	}
	switch kind {
	case kindInt:
		return strconv.Atoi(str)
	case kindFloat:
		return strconv.ParseFloat(str, 64)
	case kindBool:
		return strconv.ParseBool(str)
	case kindDuration:
		if _, err := time.ParseDuration(str); err != nil {
			return nil, err
		}
		return str, nil
	case kindStringSlice:
		return splitList(str), nil
	default:
		return str, nil
	}
}
