// Package words provides a whitespace tokenizer. It is used when the
// embedding model's tokenizer cannot be loaded and in tests; one word
// approximates one or more model tokens, so budgets are looser.
package words

import (
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.Tokenizer       = (*Tokenizer)(nil)
	_ driven.ScopedTokenizer = (*Tokenizer)(nil)
)

// Tokenizer assigns each distinct word a stable id. The vocabulary only
// grows, so long-lived callers should work on a Scope.
type Tokenizer struct {
	mu    sync.Mutex
	ids   map[string]int
	vocab []string
}

// New creates an empty whitespace tokenizer.
func New() *Tokenizer {
	return &Tokenizer{ids: make(map[string]int)}
}

// Encode splits text on whitespace.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fields := strings.Fields(text)
	out := make([]int, len(fields))
	for i, w := range fields {
		id, ok := t.ids[w]
		if !ok {
			id = len(t.vocab)
			t.ids[w] = id
			t.vocab = append(t.vocab, w)
		}
		out[i] = id
	}
	return out, nil
}

// Decode joins the words for ids with single spaces.
func (t *Tokenizer) Decode(ids []int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	words := make([]string, len(ids))
	for i, id := range ids {
		if id < 0 || id >= len(t.vocab) {
			return "", fmt.Errorf("unknown token id %d", id)
		}
		words[i] = t.vocab[id]
	}
	return strings.Join(words, " "), nil
}

// Scope returns an empty tokenizer for one text.
func (t *Tokenizer) Scope() driven.Tokenizer {
	return New()
}

// Len returns the vocabulary size.
func (t *Tokenizer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.vocab)
}

// Name returns "words".
func (t *Tokenizer) Name() string {
	return "words"
}
