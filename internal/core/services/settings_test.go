package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yonerge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/yonerge/internal/core/domain"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func newTestSettingsService(env map[string]string) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore()
	svc := NewSettingsService(store, nil)
	svc.SetEnvLookup(envMap(env))
	return svc, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	settings, err := svc.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults, *settings)
	assert.Equal(t, "./chroma_db", settings.Storage.Path)
	assert.Equal(t, "Yonergeler", settings.Storage.Collection)
	assert.Equal(t, "distiluse-base-multilingual-cased-v1", settings.Embedding.Model)
	assert.Equal(t, "gemini-2.5-flash", settings.LLM.Model)
	assert.Equal(t, "sentence-transformers/distiluse-base-multilingual-cased-v1", settings.Tokenizer.Name)
}

func TestSettingsService_Get_ConfigFileValues(t *testing.T) {
	svc, store := newTestSettingsService(nil)
	require.NoError(t, store.Set("storage.backend", "memory"))
	require.NoError(t, store.Set("storage.space", "cosine"))
	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("embedding.model", "nomic-embed-text"))
	require.NoError(t, store.Set("llm.temperature", int64(0)))
	require.NoError(t, store.Set("llm.timeout", "30s"))
	require.NoError(t, store.Set("chunking.chunk_size", int64(800)))
	require.NoError(t, store.Set("server.allowed_origins", []any{"https://bozok.edu.tr"}))
	require.NoError(t, store.Set("telemetry.enabled", true))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StorageMemory, settings.Storage.Backend)
	assert.Equal(t, domain.SpaceCosine, settings.Storage.Space)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, "sentence-transformers/nomic-embed-text", settings.Tokenizer.Name)
	assert.Equal(t, 0.0, settings.LLM.Temperature, "explicit zero overrides the default")
	assert.Equal(t, 30*time.Second, settings.LLM.Timeout)
	assert.Equal(t, 800, settings.Chunking.ChunkSize)
	assert.Equal(t, []string{"https://bozok.edu.tr"}, settings.Server.AllowedOrigins)
	assert.True(t, settings.Telemetry.Enabled)
}

func TestSettingsService_Get_EnvironmentOverridesFile(t *testing.T) {
	svc, store := newTestSettingsService(map[string]string{
		"CHROMA_DB_PATH":              "/var/lib/yonerge",
		"COLLECTION_NAME":             "Test",
		"EMBEDDING_MODEL":             "paraphrase-multilingual-MiniLM-L12-v2",
		"GEMINI_MODEL":                "gemini-2.0-flash",
		"GOOGLE_API_KEY":              "g-key",
		"YONERGE_ADDR":                "0.0.0.0:9000",
		"YONERGE_TOP_K":               "4",
		"YONERGE_LLM_TEMPERATURE":     "0.1",
		"OTEL_ENABLED":                "true",
		"OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4318",
	})
	require.NoError(t, store.Set("storage.path", "/from/file"))
	require.NoError(t, store.Set("llm.model", "from-file"))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/yonerge", settings.Storage.Path)
	assert.Equal(t, "Test", settings.Storage.Collection)
	assert.Equal(t, "paraphrase-multilingual-MiniLM-L12-v2", settings.Embedding.Model)
	assert.Equal(t, "gemini-2.0-flash", settings.LLM.Model)
	assert.Equal(t, "g-key", settings.LLM.APIKey)
	assert.Equal(t, "0.0.0.0:9000", settings.Server.Addr)
	assert.Equal(t, 4, settings.Retrieval.TopK)
	assert.InDelta(t, 0.1, settings.LLM.Temperature, 1e-9)
	assert.True(t, settings.Telemetry.Enabled)
	assert.Equal(t, "collector:4318", settings.Telemetry.Endpoint)
}

func TestSettingsService_Get_YonergeKeyWinsOverLegacyName(t *testing.T) {
	svc, _ := newTestSettingsService(map[string]string{
		"GOOGLE_API_KEY":      "legacy",
		"YONERGE_LLM_API_KEY": "preferred",
	})

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "preferred", settings.LLM.APIKey)
}

func TestSettingsService_Get_MalformedEnvIgnored(t *testing.T) {
	svc, _ := newTestSettingsService(map[string]string{
		"YONERGE_TOP_K": "many",
		"OTEL_ENABLED":  "perhaps",
	})

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTopK, settings.Retrieval.TopK)
	assert.False(t, settings.Telemetry.Enabled)
}

func TestSettingsService_Get_ExplicitTokenizer(t *testing.T) {
	svc, store := newTestSettingsService(map[string]string{"EMBEDDING_MODEL": "intfloat/multilingual-e5-small"})

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "intfloat/multilingual-e5-small", settings.Tokenizer.Name)

	require.NoError(t, store.Set("tokenizer.name", "/opt/tokenizer.json"))
	settings, err = svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "/opt/tokenizer.json", settings.Tokenizer.Name)
}

func TestSettingsService_Set(t *testing.T) {
	svc, store := newTestSettingsService(nil)

	require.NoError(t, svc.Set("retrieval.top_k", "5"))
	require.NoError(t, svc.Set("llm.temperature", "0.2"))
	require.NoError(t, svc.Set("logging.verbose", "true"))
	require.NoError(t, svc.Set("cache.ttl", "15m"))
	require.NoError(t, svc.Set("server.allowed_origins", "https://a.example, https://b.example"))
	require.NoError(t, svc.Set("llm.model", "gemini-2.5-pro"))
	require.NoError(t, svc.Set("chunking.chunk_size", 900))

	assert.Equal(t, 5, store.GetInt("retrieval.top_k"))
	assert.InDelta(t, 0.2, store.GetFloat("llm.temperature"), 1e-9)
	assert.True(t, store.GetBool("logging.verbose"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, store.GetStringSlice("server.allowed_origins"))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, settings.Cache.TTL)
	assert.Equal(t, "gemini-2.5-pro", settings.LLM.Model)
	assert.Equal(t, 900, settings.Chunking.ChunkSize)
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	svc, _ := newTestSettingsService(nil)

	err := svc.Set("search.mode", "hybrid")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.Set("retrieval.top_k", "ten")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = svc.Set("cache.ttl", "forever")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		svc, _ := newTestSettingsService(nil)
		assert.NoError(t, svc.Validate())
	})

	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"unknown backend", "storage.backend", "chroma"},
		{"unknown space", "storage.space", "manhattan"},
		{"overlap not below size", "chunking.chunk_overlap", 1500},
		{"token overlap not below budget", "chunking.token_overlap", 128},
		{"top_k below one", "retrieval.top_k", 0},
		{"temperature too high", "llm.temperature", 3.0},
		{"embedding provider without embeddings", "embedding.provider", "gemini"},
		{"pdf backend", "ingestion.pdf_backend", "ocr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestSettingsService(nil)
			require.NoError(t, store.Set(tt.key, tt.val))

			err := svc.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidSettings))
		})
	}

	t.Run("pgvector requires a database url", func(t *testing.T) {
		svc, _ := newTestSettingsService(map[string]string{"YONERGE_STORAGE_BACKEND": "pgvector"})
		assert.ErrorIs(t, svc.Validate(), domain.ErrInvalidSettings)

		svc.SetEnvLookup(envMap(map[string]string{
			"YONERGE_STORAGE_BACKEND": "pgvector",
			"YONERGE_DATABASE_URL":    "postgres://localhost/yonerge",
		}))
		assert.NoError(t, svc.Validate())
	})

	t.Run("redis cache requires an address", func(t *testing.T) {
		svc, _ := newTestSettingsService(map[string]string{"YONERGE_CACHE_BACKEND": "redis"})
		assert.ErrorIs(t, svc.Validate(), domain.ErrInvalidSettings)
	})
}

type mockAIValidator struct {
	embedErr error
	llmErr   error
	llm      *domain.LLMSettings
}

func (m *mockAIValidator) ValidateEmbedding(_ context.Context, _ *domain.EmbeddingSettings) error {
	return m.embedErr
}

func (m *mockAIValidator) ValidateLLM(_ context.Context, cfg *domain.LLMSettings) error {
	m.llm = cfg
	return m.llmErr
}

func TestSettingsService_ValidateProviders(t *testing.T) {
	store := memory.NewConfigStore()
	v := &mockAIValidator{embedErr: domain.ErrEmbeddingUnavailable}
	svc := NewSettingsService(store, v)
	svc.SetEnvLookup(envMap(map[string]string{"GOOGLE_API_KEY": "k"}))

	assert.ErrorIs(t, svc.ValidateEmbeddingConfig(context.Background()), domain.ErrEmbeddingUnavailable)
	require.NoError(t, svc.ValidateLLMConfig(context.Background()))
	assert.Equal(t, "k", v.llm.APIKey)

	nilSvc, _ := newTestSettingsService(nil)
	assert.NoError(t, nilSvc.ValidateEmbeddingConfig(context.Background()))
	assert.NoError(t, nilSvc.ValidateLLMConfig(context.Background()))
}

func TestSettingsService_GetPipelineConfig(t *testing.T) {
	svc, store := newTestSettingsService(nil)
	require.NoError(t, store.Set("chunking.tokens_per_chunk", int64(256)))

	cfg := svc.GetPipelineConfig()
	assert.Equal(t, []string{"structure", "token"}, cfg.Processors)
	assert.Equal(t, 256, cfg.GetProcessorConfig("token")["tokens_per_chunk"])
	assert.Equal(t, 1500, cfg.GetProcessorConfig("structure")["chunk_size"])
}

func TestKnownKeys(t *testing.T) {
	keys := KnownKeys()
	assert.Contains(t, keys, "storage.path")
	assert.Contains(t, keys, "llm.temperature")
	assert.IsIncreasing(t, keys)
}
