package cli

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driving"
)

func TestRootCmd_Flags(t *testing.T) {
	assert.Equal(t, "yonerge", rootCmd.Use)
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCmd_LoadsSettingsWithConfigPath(t *testing.T) {
	d := setupTestDeps(t)
	var gotPath string
	SetDependencies(Dependencies{
		Settings: func(path string) (driving.SettingsService, error) {
			gotPath = path
			return d.settings, nil
		},
	})
	t.Cleanup(func() { configPath = "" })

	_, err := run(t, "--config", "/tmp/yonerge", "settings", "show")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/yonerge", gotPath)
}

func TestIngestCmd(t *testing.T) {
	d := setupTestDeps(t)

	out, err := run(t, "ingest", "--pdf-dir", "/data/pdfs")

	require.NoError(t, err)
	assert.True(t, d.gotOpts.SkipInitialIngest)
	assert.Equal(t, "/data/pdfs", d.engine.ingestDir)
	assert.Equal(t, "/data/pdfs", d.gotSettings.Ingestion.Directory)
	assert.False(t, d.engine.rebuilt)
	assert.True(t, d.engine.closed)
	assert.Contains(t, out, "Passages indexed: 17")
}

func TestIngestCmd_Reset(t *testing.T) {
	d := setupTestDeps(t)

	_, err := run(t, "ingest", "--reset")

	require.NoError(t, err)
	assert.True(t, d.engine.rebuilt)
	assert.Empty(t, d.engine.ingestDir)
}

func TestIngestCmd_Skipped(t *testing.T) {
	d := setupTestDeps(t)
	d.engine.report = &domain.IngestReport{Skipped: true}

	out, err := run(t, "ingest")

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPDFDirectory, d.engine.ingestDir)
	assert.Contains(t, out, "already populated")
}

func TestIngestCmd_JSON(t *testing.T) {
	d := setupTestDeps(t)
	d.engine.report = &domain.IngestReport{Files: 3, Documents: 2, Chunks: 9, Empty: []string{"scan.pdf"}}

	out, err := run(t, "ingest", "--json")
	require.NoError(t, err)

	var report domain.IngestReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 9, report.Chunks)
	assert.Equal(t, []string{"scan.pdf"}, report.Empty)
}

func TestIngestCmd_Error(t *testing.T) {
	d := setupTestDeps(t)
	d.engine.err = os.ErrNotExist

	_, err := run(t, "ingest")

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, d.engine.closed)
}

func TestAskCmd_Local(t *testing.T) {
	d := setupTestDeps(t)

	out, err := run(t, "ask", "Staj süresi nedir?")

	require.NoError(t, err)
	assert.False(t, d.gotOpts.SkipInitialIngest)
	assert.Equal(t, "Staj süresi nedir?", d.engine.question)
	assert.Equal(t, domain.DefaultTopK, d.engine.topK)
	assert.Contains(t, out, "Staj süresi 20 iş günüdür.")
	assert.Contains(t, out, "[1] Staj.pdf")
}

func TestAskCmd_TopK(t *testing.T) {
	d := setupTestDeps(t)

	_, err := run(t, "ask", "--top-k", "3", "soru")

	require.NoError(t, err)
	assert.Equal(t, 3, d.engine.topK)
}

func TestAskCmd_JSON(t *testing.T) {
	setupTestDeps(t)

	out, err := run(t, "ask", "--json", "soru")
	require.NoError(t, err)

	var result domain.AnswerResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Len(t, result.Sources, 1)
}

func TestAskCmd_FailedAnswerIsPrinted(t *testing.T) {
	d := setupTestDeps(t)
	d.engine.answer = domain.NewFailedAnswer(errors.New("quota exceeded"))

	out, err := run(t, "ask", "soru")

	require.NoError(t, err)
	assert.Contains(t, out, domain.FallbackAnswer)
	assert.Contains(t, out, "quota exceeded")
}

func TestAskCmd_ValidationError(t *testing.T) {
	d := setupTestDeps(t)
	d.engine.answer = nil
	d.engine.err = &domain.ValidationError{Field: "question", Reason: "must not be empty"}

	_, err := run(t, "ask", " ")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "invalid question")
}

func TestAskCmd_Server(t *testing.T) {
	d := setupTestDeps(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ask", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"answer":"uzak cevap","sources":[]}`))
	}))
	defer server.Close()

	out, err := run(t, "ask", "--server", server.URL, "soru")

	require.NoError(t, err)
	assert.Contains(t, out, "uzak cevap")
	assert.Nil(t, d.gotSettings, "no local engine is built")
}

func TestAskCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestDeps(t)

	_, err := run(t, "ask")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestStatsCmd(t *testing.T) {
	d := setupTestDeps(t)

	out, err := run(t, "stats")

	require.NoError(t, err)
	assert.True(t, d.gotOpts.SkipInitialIngest)
	assert.Contains(t, out, "Collection:       Yonergeler")
	assert.Contains(t, out, "Passages:         17")
	assert.Contains(t, out, "gemini-2.5-flash")
}

func TestStatsCmd_JSON(t *testing.T) {
	setupTestDeps(t)

	out, err := run(t, "stats", "--json")
	require.NoError(t, err)

	var stats domain.EngineStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 17, stats.TotalChunks)
}

func TestCommands_WithoutEngine(t *testing.T) {
	setupTestDeps(t)
	SetDependencies(Dependencies{})

	_, err := run(t, "stats")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine not configured")
}

func TestServeCmd_Flags(t *testing.T) {
	for _, name := range []string{"addr", "pdf-dir", "watch"} {
		assert.NotNil(t, serveCmd.Flags().Lookup(name), name)
	}
}

func TestWatchDocuments_MissingDir(t *testing.T) {
	_, err := watchDocuments(t.Context(), &mockEngine{}, "/does/not/exist")

	assert.Error(t, err)
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestTUICmd(t *testing.T) {
	assert.Equal(t, "tui", tuiCmd.Use)
	assert.Contains(t, tuiCmd.Long, "Esc")
}

func TestWatchDocuments_StartsAndStops(t *testing.T) {
	stop, err := watchDocuments(t.Context(), &mockEngine{}, t.TempDir())

	require.NoError(t, err)
	require.NotNil(t, stop)
	stop()
}
