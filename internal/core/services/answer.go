package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
	"github.com/custodia-labs/yonerge/internal/logger"
)

// Ensure AnswerService accepts custom prompts.
var _ driven.PromptStoreAware = (*AnswerService)(nil)

// AnswerOptions tunes answer generation.
type AnswerOptions struct {
	// Temperature is sent with every generation call.
	Temperature float64

	// MaxTokens caps the answer length, zero for the provider default.
	MaxTokens int

	// CacheTTL is how long successful answers are cached, zero for the cache default.
	CacheTTL time.Duration
}

// DefaultAnswerOptions returns the low-temperature defaults.
func DefaultAnswerOptions() AnswerOptions {
	return AnswerOptions{Temperature: domain.DefaultTemperature}
}

// AnswerService composes grounded answers from retrieved passages.
type AnswerService struct {
	retriever *Retriever
	llm       driven.LLMService
	prompts   driven.PromptStore
	cache     driven.AnswerCache
	opts      AnswerOptions
}

// NewAnswerService creates an answer service. cache may be nil.
func NewAnswerService(
	retriever *Retriever,
	llm driven.LLMService,
	prompts driven.PromptStore,
	cache driven.AnswerCache,
	opts AnswerOptions,
) *AnswerService {
	return &AnswerService{
		retriever: retriever,
		llm:       llm,
		prompts:   prompts,
		cache:     cache,
		opts:      opts,
	}
}

// SetPromptStore replaces the prompt store.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Answer retrieves up to topK passages of coll and asks the model to answer
// question from them alone.
//
// Validation errors, an unavailable index and a model mismatch are returned
// as errors. Every other failure, generation above all, is absorbed into an
// AnswerResult with Success false and the fallback answer.
func (s *AnswerService) Answer(
	ctx context.Context,
	coll driven.Collection,
	question string,
	topK int,
) (*domain.AnswerResult, error) {
	if err := ValidateQuery(question, topK); err != nil {
		return nil, err
	}
	if coll == nil {
		return nil, domain.ErrIndexUnavailable
	}
	if err := s.retriever.CheckModel(coll); err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "answer")
	defer span.End()
	span.SetAttributes(attribute.Int("yonerge.top_k", topK))

	key := s.cacheKey(coll, question, topK)
	if cached := s.lookup(ctx, key); cached != nil {
		span.SetAttributes(attribute.Bool("yonerge.cache_hit", true))
		return cached, nil
	}

	retrieved, err := s.retriever.Retrieve(ctx, coll, question, topK)
	if err != nil {
		if isQueryError(err) {
			return nil, err
		}
		logger.Error("retrieval failed: %v", err)
		span.SetStatus(codes.Error, err.Error())
		return domain.NewFailedAnswer(err), nil
	}

	text, err := s.generate(ctx, question, retrieved.Passages)
	if err != nil {
		logger.Error("answer generation failed: %v", err)
		span.SetStatus(codes.Error, err.Error())
		return domain.NewFailedAnswer(err), nil
	}

	result := &domain.AnswerResult{
		Success: true,
		Answer:  text,
		Sources: domain.SourcesFrom(retrieved.Passages),
	}
	s.store(ctx, key, result)
	return result, nil
}

// generate builds the prompt and calls the model. Every failure comes back
// as a *domain.GenerationError.
func (s *AnswerService) generate(ctx context.Context, question string, passages []domain.ScoredPassage) (string, error) {
	model := ""
	if s.llm != nil {
		model = s.llm.ModelName()
	}
	fail := func(err error) error {
		return &domain.GenerationError{Model: model, Err: err}
	}

	if s.llm == nil {
		return "", fail(domain.ErrLLMUnavailable)
	}
	if s.prompts == nil {
		return "", fail(errors.New("no prompt store configured"))
	}
	policy, err := s.prompts.Load(driven.PromptGroundingPolicy)
	if err != nil {
		return "", fail(fmt.Errorf("loading grounding policy: %w", err))
	}
	template, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil {
		return "", fail(fmt.Errorf("loading answer prompt: %w", err))
	}

	prompt := BuildPrompt(template, question, FormatContext(passages))
	text, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		System:      policy,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err != nil {
		return "", fail(err)
	}
	return text, nil
}

// FormatContext renders passages into the context block, numbered from one
// in retrieval order.
func FormatContext(passages []domain.ScoredPassage) string {
	var b strings.Builder
	for i, p := range passages {
		fmt.Fprintf(&b, "\n\nMetin Parçası No: %d:\n%s\nKaynak: %s\nKategori: %s\nUzaklık: %s\n",
			i+1,
			p.Text,
			p.Metadata.Document,
			p.Metadata.Category,
			strconv.FormatFloat(p.Distance, 'g', -1, 64),
		)
	}
	return b.String()
}

// BuildPrompt fills the answer template with the question and context block.
// Substituted values are not scanned again, so a question that contains a
// placeholder stays literal.
func BuildPrompt(template, question, contextBlock string) string {
	return strings.NewReplacer(
		driven.AnswerQuestionPlaceholder, question,
		driven.AnswerContextPlaceholder, contextBlock,
	).Replace(template)
}

// isQueryError reports errors the caller must see rather than a fallback answer.
func isQueryError(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrIndexUnavailable) ||
		errors.Is(err, domain.ErrConfigMismatch)
}

// cacheKey fingerprints everything that determines an answer.
func (s *AnswerService) cacheKey(coll driven.Collection, question string, topK int) string {
	model := ""
	if s.llm != nil {
		model = s.llm.ModelName()
	}
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%s", coll.Name(), model, topK, strings.TrimSpace(question))
	return hex.EncodeToString(h.Sum(nil))
}

func (s *AnswerService) lookup(ctx context.Context, key string) *domain.AnswerResult {
	if s.cache == nil {
		return nil
	}
	cached, found, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn("answer cache: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	logger.Debug("answer cache hit %s", key[:12])
	return cached
}

func (s *AnswerService) store(ctx context.Context, key string, result *domain.AnswerResult) {
	if s.cache == nil || !result.Success {
		return
	}
	if err := s.cache.Set(ctx, key, result, s.opts.CacheTTL); err != nil {
		logger.Warn("answer cache: %v", err)
	}
}
