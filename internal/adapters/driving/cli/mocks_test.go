package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driving"
)

// mockSettingsService implements driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	validateErr error
	setErr      error

	set map[string]any
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings(), set: map[string]any{}}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

// mockEngine implements driving.Engine.
type mockEngine struct {
	answer  *domain.AnswerResult
	err     error
	report  *domain.IngestReport
	stats   *domain.EngineStats
	closed  bool
	rebuilt bool

	ingestDir string
	question  string
	topK      int
}

func (m *mockEngine) GenerateAnswer(_ context.Context, q string, topK int) (*domain.AnswerResult, error) {
	m.question = q
	m.topK = topK
	return m.answer, m.err
}

func (m *mockEngine) Retrieve(context.Context, string, int) (*domain.RetrievalResult, error) {
	return &domain.RetrievalResult{}, m.err
}

func (m *mockEngine) Ingest(_ context.Context, dir string) (*domain.IngestReport, error) {
	m.ingestDir = dir
	return m.report, m.err
}

func (m *mockEngine) Init(context.Context) error { return nil }
func (m *mockEngine) IsReady() bool              { return true }

func (m *mockEngine) Rebuild(context.Context) (*domain.IngestReport, error) {
	m.rebuilt = true
	return m.report, m.err
}

func (m *mockEngine) Stats(context.Context) (*domain.EngineStats, error) {
	return m.stats, m.err
}

func (m *mockEngine) Shutdown(context.Context) error {
	m.closed = true
	return nil
}

// testDeps records what the engine factory was called with.
type testDeps struct {
	settings *mockSettingsService
	engine   *mockEngine

	gotSettings *domain.AppSettings
	gotOpts     EngineOptions
}

// setupTestDeps installs mocks and resets command state when the test ends.
func setupTestDeps(t *testing.T) *testDeps {
	t.Helper()
	d := &testDeps{
		settings: newMockSettings(),
		engine: &mockEngine{
			answer: &domain.AnswerResult{
				Success: true,
				Answer:  "📌 Cevap: Staj süresi 20 iş günüdür.",
				Sources: []domain.SourceRef{{Document: "Staj.pdf", Category: "Ogrenci Yonergeleri", Distance: 0.25}},
			},
			report: &domain.IngestReport{Files: 2, Documents: 2, Chunks: 17},
			stats: &domain.EngineStats{
				Ready: true, CollectionName: "Yonergeler", TotalChunks: 17,
				EmbeddingModel: "distiluse-base-multilingual-cased-v1", GenerativeModel: "gemini-2.5-flash",
				Space: "l2", StorageBackend: "sqlite",
			},
		},
	}
	SetDependencies(Dependencies{
		Settings: func(string) (driving.SettingsService, error) { return d.settings, nil },
		Engine: func(_ context.Context, s *domain.AppSettings, opts EngineOptions) (driving.Engine, error) {
			d.gotSettings = s
			d.gotOpts = opts
			return d.engine, nil
		},
	})
	t.Cleanup(func() {
		SetDependencies(Dependencies{})
		settingsService = nil
		ingestPDFDir, ingestReset, ingestJSON = "", false, false
		askTopK, askJSON, askServer = 0, false, ""
		statsJSON = false
		serveAddr, servePDFDir, serveWatch = "", "", false
		rootCmd.SetArgs(nil)
	})
	return d
}

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
