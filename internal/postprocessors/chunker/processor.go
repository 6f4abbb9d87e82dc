package chunker

import (
	"context"
	"strings"

	"github.com/custodia-labs/yonerge/internal/core/domain"
	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// Processor creates passages from document content with SplitByStructure.
// It implements the PostProcessor interface.
type Processor struct {
	opts StructureOptions
}

var _ driven.PostProcessor = (*Processor)(nil)

// Option configures the structural processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.opts.ChunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.opts.Overlap = overlap
		}
	}
}

// WithSeparators replaces the separator preference order.
func WithSeparators(separators ...string) Option {
	return func(p *Processor) {
		if len(separators) > 0 {
			p.opts.Separators = separators
		}
	}
}

// New creates a new structural processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		opts: StructureOptions{
			ChunkSize:  DefaultChunkSize,
			Overlap:    DefaultChunkOverlap,
			Separators: DefaultSeparators,
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	p.opts = p.opts.normalised()
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "structure"
}

// Process splits the document content into passages.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(ctx context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	content := doc.Content()
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	texts := SplitByStructure(content, p.opts)
	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, domain.Chunk{
			Document: doc.Name,
			Category: doc.Category,
			Content:  text,
			Position: i,
		})
	}
	return chunks, nil
}

// TokenProcessor re-splits incoming passages with SplitByTokenBudget.
// It implements the PostProcessor interface.
type TokenProcessor struct {
	tokenizer driven.Tokenizer
	opts      TokenOptions
}

var _ driven.PostProcessor = (*TokenProcessor)(nil)

// TokenOption configures the token processor.
type TokenOption func(*TokenProcessor)

// WithTokensPerChunk sets the token budget per passage.
func WithTokensPerChunk(n int) TokenOption {
	return func(p *TokenProcessor) {
		if n > 0 {
			p.opts.TokensPerChunk = n
		}
	}
}

// WithTokenOverlap sets the overlap between passages in tokens.
func WithTokenOverlap(n int) TokenOption {
	return func(p *TokenProcessor) {
		if n >= 0 {
			p.opts.Overlap = n
		}
	}
}

// NewTokenProcessor creates a token processor using tok.
func NewTokenProcessor(tok driven.Tokenizer, opts ...TokenOption) *TokenProcessor {
	p := &TokenProcessor{
		tokenizer: tok,
		opts: TokenOptions{
			TokensPerChunk: DefaultTokensPerChunk,
			Overlap:        DefaultTokenOverlap,
		},
	}

	for _, opt := range opts {
		opt(p)
	}

	p.opts = p.opts.normalised()
	return p
}

// Name returns the processor name.
func (p *TokenProcessor) Name() string {
	return "token"
}

// Process splits every incoming chunk to the token budget and renumbers positions.
func (p *TokenProcessor) Process(ctx context.Context, _ *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	out := make([]domain.Chunk, 0, len(chunks))
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		texts, err := SplitByTokenBudget(c.Content, p.tokenizer, p.opts)
		if err != nil {
			return nil, err
		}
		for _, text := range texts {
			sub := c
			sub.Content = text
			sub.Position = len(out)
			out = append(out, sub)
		}
	}
	return out, nil
}
