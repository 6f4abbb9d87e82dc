package domain

import "time"

const unknownDescription = "Unknown"

// Defaults shared by configuration loading and documentation.
const (
	DefaultStoragePath     = "./chroma_db"
	DefaultCollectionName  = "Yonergeler"
	DefaultEmbeddingModel  = "distiluse-base-multilingual-cased-v1"
	DefaultGenerativeModel = "gemini-2.5-flash"
	DefaultTemperature     = 0.3
	DefaultPDFDirectory    = "./pdfs"
	DefaultServerAddr      = "127.0.0.1:8000"
)

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI API or any server speaking its protocol.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible API"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// StorageBackend selects the index store implementation.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite   StorageBackend = "sqlite"
	StorageMemory   StorageBackend = "memory"
	StoragePgvector StorageBackend = "pgvector"
)

// DistanceSpace selects how passage distances are computed.
type DistanceSpace string

// Available distance spaces.
const (
	// SpaceL2 is squared Euclidean distance.
	SpaceL2 DistanceSpace = "l2"

	// SpaceCosine is one minus cosine similarity.
	SpaceCosine DistanceSpace = "cosine"

	// SpaceIP is one minus the inner product.
	SpaceIP DistanceSpace = "ip"
)

// IsValid returns true if the space is recognised.
func (s DistanceSpace) IsValid() bool {
	return s == SpaceL2 || s == SpaceCosine || s == SpaceIP
}

// TokenizerKind selects the tokenizer used for token-bounded splitting.
type TokenizerKind string

// Available tokenizers.
const (
	// TokenizerHuggingFace loads the embedding model's tokenizer.json.
	TokenizerHuggingFace TokenizerKind = "huggingface"

	// TokenizerWords splits on whitespace.
	TokenizerWords TokenizerKind = "words"
)

// CacheBackend selects the answer cache implementation.
type CacheBackend string

// Available cache backends.
const (
	CacheNone   CacheBackend = "none"
	CacheMemory CacheBackend = "memory"
	CacheRedis  CacheBackend = "redis"
)

// PDFBackend selects how PDF text is extracted.
type PDFBackend string

// Available PDF backends.
const (
	// PDFBackendAuto uses pdftotext when installed, the native reader otherwise.
	PDFBackendAuto      PDFBackend = "auto"
	PDFBackendPdftotext PDFBackend = "pdftotext"
	PDFBackendNative    PDFBackend = "native"
)

// StorageSettings configures the index store.
type StorageSettings struct {
	Backend StorageBackend `validate:"oneof=sqlite memory pgvector"`

	// Path is the directory holding the sqlite database.
	Path string `validate:"required_if=Backend sqlite"`

	// DatabaseURL is the Postgres connection string for pgvector.
	DatabaseURL string `validate:"required_if=Backend pgvector"`

	// Collection is the collection name.
	Collection string `validate:"required"`

	// Space is the distance space used when creating a collection.
	Space DistanceSpace `validate:"oneof=l2 cosine ip"`
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider `validate:"oneof=ollama openai"`

	// Model is the embedding model name. It is recorded on the collection.
	Model string `validate:"required"`

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key, optional for self-hosted endpoints.
	APIKey string

	// Dimensions is the vector size, zero to use the model default.
	Dimensions int `validate:"gte=0"`
}

// IsConfigured returns true if the embedding provider is set up.
// A custom BaseURL lifts the API key requirement.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Model == "" {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" && e.BaseURL == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider `validate:"oneof=gemini openai ollama anthropic"`

	// Model is the LLM model name.
	Model string `validate:"required"`

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the API key.
	APIKey string

	// Temperature is the sampling temperature.
	Temperature float64 `validate:"gte=0,lte=2"`

	// MaxTokens caps the response length, zero for the provider default.
	MaxTokens int `validate:"gte=0"`

	// Timeout bounds a single generation call.
	Timeout time.Duration `validate:"gte=0"`
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Model == "" {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// TokenizerSettings selects the tokenizer for stage two chunking.
type TokenizerSettings struct {
	Kind TokenizerKind `validate:"oneof=huggingface words"`

	// Name is a HuggingFace repository id or a local tokenizer.json path.
	Name string
}

// ChunkingSettings bounds passage sizes.
type ChunkingSettings struct {
	ChunkSize      int `validate:"gt=0"`
	ChunkOverlap   int `validate:"gte=0,ltfield=ChunkSize"`
	TokensPerChunk int `validate:"gt=0"`
	TokenOverlap   int `validate:"gte=0,ltfield=TokensPerChunk"`
}

// IngestionSettings configures the PDF source.
type IngestionSettings struct {
	Directory  string     `validate:"required"`
	Category   string     `validate:"required"`
	PDFBackend PDFBackend `validate:"oneof=auto pdftotext native"`
}

// RetrievalSettings configures retrieval defaults.
type RetrievalSettings struct {
	TopK int `validate:"gte=1"`
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr           string   `validate:"required"`
	AllowedOrigins []string `validate:"min=1"`

	// RateLimit is requests per second per client on /ask, zero disables.
	RateLimit float64 `validate:"gte=0"`
	Burst     int     `validate:"gte=0"`

	ShutdownTimeout time.Duration `validate:"gte=0"`
}

// CacheSettings configures answer caching.
type CacheSettings struct {
	Backend   CacheBackend  `validate:"oneof=none memory redis"`
	RedisAddr string        `validate:"required_if=Backend redis"`
	TTL       time.Duration `validate:"gte=0"`
}

// LoggingSettings configures the global logger.
type LoggingSettings struct {
	// File enables JSON file logging with rotation when set.
	File    string
	Verbose bool
}

// TelemetrySettings configures tracing export.
type TelemetrySettings struct {
	Enabled     bool
	Endpoint    string `validate:"required_if=Enabled true"`
	ServiceName string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Storage   StorageSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Tokenizer TokenizerSettings
	Chunking  ChunkingSettings
	Ingestion IngestionSettings
	Retrieval RetrievalSettings
	Server    ServerSettings
	Cache     CacheSettings
	Logging   LoggingSettings
	Telemetry TelemetrySettings

	// PromptsDir overrides where prompt files are read from.
	PromptsDir string
}

// DefaultAppSettings returns settings with sensible defaults.
// The embedding service defaults to an OpenAI-compatible server on
// localhost hosting the sentence-transformers model.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend:    StorageSQLite,
			Path:       DefaultStoragePath,
			Collection: DefaultCollectionName,
			Space:      SpaceL2,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    DefaultEmbeddingModel,
			BaseURL:  "http://localhost:8080/v1",
		},
		LLM: LLMSettings{
			Provider:    AIProviderGemini,
			Model:       DefaultGenerativeModel,
			Temperature: DefaultTemperature,
			Timeout:     60 * time.Second,
		},
		Tokenizer: TokenizerSettings{
			Kind: TokenizerHuggingFace,
			Name: "sentence-transformers/" + DefaultEmbeddingModel,
		},
		Chunking: ChunkingSettings{
			ChunkSize:      1500,
			ChunkOverlap:   200,
			TokensPerChunk: 128,
			TokenOverlap:   10,
		},
		Ingestion: IngestionSettings{
			Directory:  DefaultPDFDirectory,
			Category:   DefaultCategory,
			PDFBackend: PDFBackendAuto,
		},
		Retrieval: RetrievalSettings{TopK: DefaultTopK},
		Server: ServerSettings{
			Addr:            DefaultServerAddr,
			AllowedOrigins:  []string{"*"},
			RateLimit:       5,
			Burst:           10,
			ShutdownTimeout: 10 * time.Second,
		},
		Cache: CacheSettings{
			Backend: CacheNone,
			TTL:     time.Hour,
		},
		Telemetry: TelemetrySettings{
			Endpoint:    "localhost:4318",
			ServiceName: "yonerge",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    DefaultGenerativeModel,
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// sentence-transformers models
		"distiluse-base-multilingual-cased-v1":  512,
		"distiluse-base-multilingual-cased-v2":  512,
		"paraphrase-multilingual-MiniLM-L12-v2": 384,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfig returns the two-stage chunking pipeline for these settings.
func (c ChunkingSettings) PipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"structure", "token"},
		ProcessorConfigs: map[string]map[string]any{
			"structure": {
				"chunk_size": c.ChunkSize,
				"overlap":    c.ChunkOverlap,
			},
			"token": {
				"tokens_per_chunk": c.TokensPerChunk,
				"overlap":          c.TokenOverlap,
			},
		},
	}
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return DefaultAppSettings().Chunking.PipelineConfig()
}
