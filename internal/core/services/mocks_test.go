package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService embeds text as letter counts of a, b and c.
type mockEmbeddingService struct {
	mu     sync.Mutex
	calls  int
	err    error
	closed bool
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return []float32{
		float32(strings.Count(text, "a")),
		float32(strings.Count(text, "b")),
		float32(strings.Count(text, "c")),
	}, nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbeddingService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockEmbeddingService) Dimensions() int              { return 3 }
func (m *mockEmbeddingService) ModelName() string            { return "mock-embed" }
func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error {
	m.closed = true
	return nil
}

// mockSource lists a fixed set of paths.
type mockSource struct {
	paths []string
	err   error
}

func (m *mockSource) List(_ context.Context, _ string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]string(nil), m.paths...), nil
}

func missingDirError(dir string) error {
	return fmt.Errorf("document directory: stat %s: %w", dir, os.ErrNotExist)
}

// mockExtractor returns page texts keyed by path.
type mockExtractor struct {
	pages map[string][]string
	errs  map[string]error
}

func (m *mockExtractor) Name() string                  { return "mock" }
func (m *mockExtractor) SupportedExtensions() []string { return []string{".pdf"} }

func (m *mockExtractor) Extract(_ context.Context, path string) ([]domain.Page, error) {
	if err := m.errs[path]; err != nil {
		return nil, &domain.ExtractionError{Path: path, Err: err}
	}
	var pages []domain.Page
	for i, text := range m.pages[path] {
		pages = append(pages, domain.Page{Index: i, Text: text})
	}
	return pages, nil
}

// pagePipeline makes one chunk per page.
type pagePipeline struct {
	err error
}

func (p *pagePipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if p.err != nil {
		return nil, p.err
	}
	chunks := make([]domain.Chunk, 0, len(doc.Pages))
	for i, page := range doc.Pages {
		chunks = append(chunks, domain.Chunk{
			Document: doc.Name,
			Category: doc.Category,
			Content:  page.Text,
			Position: i,
		})
	}
	return chunks, nil
}

// mockLLMService records prompts and returns a fixed response.
type mockLLMService struct {
	mu       sync.Mutex
	response string
	err      error
	respond  func(prompt string, opts driven.GenerateOptions) (string, error)
	prompts  []string
	opts     []driven.GenerateOptions
	closed   bool
}

func (m *mockLLMService) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()
	if m.respond != nil {
		return m.respond(prompt, opts)
	}
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func (m *mockLLMService) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

func (m *mockLLMService) ModelName() string            { return "mock-llm" }
func (m *mockLLMService) Ping(_ context.Context) error { return nil }
func (m *mockLLMService) Close() error {
	m.closed = true
	return nil
}

const (
	testPolicy   = "Yalnızca verilen belgelere dayanarak yanıt ver. Yanıt yoksa: Bu sorunun yanıtı elimdeki bilgilere göre belirlenemiyor."
	testTemplate = "\n### Kullanıcı Sorgusu:\n{question}\n\n### Erişilen Belgeler:\n{context}\n"
)

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptGroundingPolicy: testPolicy,
		driven.PromptAnswer:          testTemplate,
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockAnswerCache is a map-backed AnswerCache.
type mockAnswerCache struct {
	mu       sync.Mutex
	entries  map[string]*domain.AnswerResult
	getErr   error
	clearErr error
	clears   int
	closed   bool
}

func newMockAnswerCache() *mockAnswerCache {
	return &mockAnswerCache{entries: make(map[string]*domain.AnswerResult)}
}

func (m *mockAnswerCache) Get(_ context.Context, key string) (*domain.AnswerResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	a, ok := m.entries[key]
	return a, ok, nil
}

func (m *mockAnswerCache) Set(_ context.Context, key string, answer *domain.AnswerResult, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = answer
	return nil
}

func (m *mockAnswerCache) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.entries = make(map[string]*domain.AnswerResult)
	m.clears++
	return nil
}

func (m *mockAnswerCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *mockAnswerCache) Close() error {
	m.closed = true
	return nil
}

// fixedCollection returns a canned QueryResult regardless of topK.
type fixedCollection struct {
	name   string
	model  string
	result *domain.QueryResult
	err    error
}

func (c *fixedCollection) Name() string                { return c.name }
func (c *fixedCollection) EmbeddingModel() string      { return c.model }
func (c *fixedCollection) Space() domain.DistanceSpace { return domain.SpaceL2 }

func (c *fixedCollection) Count(_ context.Context) (int, error) {
	if c.result == nil || len(c.result.Documents) == 0 {
		return 0, nil
	}
	return len(c.result.Documents[0]), nil
}

func (c *fixedCollection) Add(_ context.Context, _, _ []string, _ []domain.PassageMetadata) error {
	return errors.New("read only")
}

func (c *fixedCollection) Query(_ context.Context, _ string, _ int) (*domain.QueryResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}
