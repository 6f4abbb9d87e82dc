package chunker

import (
	"context"
	"strings"
	"testing"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p := New()
		if p.opts.ChunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, p.opts.ChunkSize)
		}
		if p.opts.Overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, p.opts.Overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		p := New(WithChunkSize(500), WithOverlap(100), WithSeparators("\n", ""))
		if p.opts.ChunkSize != 500 || p.opts.Overlap != 100 {
			t.Errorf("unexpected options %+v", p.opts)
		}
		if len(p.opts.Separators) != 2 {
			t.Errorf("expected 2 separators, got %d", len(p.opts.Separators))
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		p := New(WithChunkSize(100), WithOverlap(150))
		if p.opts.Overlap >= p.opts.ChunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		p := New(WithChunkSize(0), WithOverlap(-1), WithSeparators())
		if p.opts.ChunkSize != DefaultChunkSize || p.opts.Overlap != DefaultChunkOverlap {
			t.Errorf("expected defaults, got %+v", p.opts)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	if New().Name() != "structure" {
		t.Errorf("expected name 'structure', got '%s'", New().Name())
	}
	if NewTokenProcessor(newWordTokenizer()).Name() != "token" {
		t.Error("expected name 'token'")
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	chunks, err := New().Process(context.Background(), &domain.Document{Name: "empty.pdf"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestProcessor_Process_TwoShortPages(t *testing.T) {
	doc := &domain.Document{
		Name:     "Yonerge_A.pdf",
		Category: domain.DefaultCategory,
		Pages: []domain.Page{
			{Index: 0, Text: "Madde 1 - Amaç"},
			{Index: 1, Text: "Madde 2 - Kapsam"},
		},
	}

	chunks, err := New().Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.Content != "Madde 1 - Amaç\n\nMadde 2 - Kapsam" {
		t.Errorf("unexpected content %q", c.Content)
	}
	if c.Document != "Yonerge_A.pdf" || c.Category != domain.DefaultCategory {
		t.Errorf("unexpected chunk metadata %+v", c)
	}
	if c.ID != "" {
		t.Errorf("processor must not assign ids, got %q", c.ID)
	}
}

func TestProcessor_Process_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := &domain.Document{Pages: []domain.Page{{Text: "metin"}}}
	if _, err := New().Process(ctx, doc, nil); err == nil {
		t.Error("expected context error")
	}
}

func TestTokenProcessor_Process(t *testing.T) {
	p := NewTokenProcessor(newWordTokenizer(), WithTokensPerChunk(4), WithTokenOverlap(1))
	in := []domain.Chunk{
		{Document: "a.pdf", Category: "c", Content: "bir iki üç dört beş altı", Position: 0},
		{Document: "a.pdf", Category: "c", Content: "yedi", Position: 1},
	}

	out, err := p.Process(context.Background(), nil, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(out))
	}
	for i, c := range out {
		if c.Position != i {
			t.Errorf("chunk %d has position %d", i, c.Position)
		}
		if c.Document != "a.pdf" || c.Category != "c" {
			t.Errorf("chunk %d lost metadata: %+v", i, c)
		}
		if n := len(strings.Fields(c.Content)); n > 4 {
			t.Errorf("chunk %d has %d tokens", i, n)
		}
	}
	if out[1].Content != "dört beş altı" {
		t.Errorf("unexpected second window %q", out[1].Content)
	}
}

func TestTokenProcessor_Options(t *testing.T) {
	p := NewTokenProcessor(nil, WithTokensPerChunk(0), WithTokenOverlap(-3))
	if p.opts.TokensPerChunk != DefaultTokensPerChunk || p.opts.Overlap != DefaultTokenOverlap {
		t.Errorf("expected defaults, got %+v", p.opts)
	}
}
