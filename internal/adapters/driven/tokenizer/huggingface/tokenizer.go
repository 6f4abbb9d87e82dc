// Package huggingface adapts HuggingFace tokenizer.json files to the
// Tokenizer port so token budgets match the embedding model exactly.
package huggingface

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Tokenizer = (*Tokenizer)(nil)

const tokenizerFile = "tokenizer.json"

// Tokenizer wraps a loaded HuggingFace tokenizer.
type Tokenizer struct {
	name string

	mu sync.Mutex
	tk *tokenizer.Tokenizer
}

// Load reads a tokenizer from name, which may be a tokenizer.json path, a
// directory containing one, or a HuggingFace repository id such as
// "sentence-transformers/distiluse-base-multilingual-cased-v1". Repository
// files are downloaded once into the local cache.
func Load(name string) (*Tokenizer, error) {
	path, err := resolve(name)
	if err != nil {
		return nil, err
	}
	tk, err := pretrained.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %s: %w", name, err)
	}
	return &Tokenizer{name: name, tk: tk}, nil
}

func resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("tokenizer name is empty")
	}
	if info, err := os.Stat(name); err == nil {
		if info.IsDir() {
			return filepath.Join(name, tokenizerFile), nil
		}
		return name, nil
	}
	if strings.HasSuffix(name, ".json") {
		return "", fmt.Errorf("tokenizer file %s not found", name)
	}
	path, err := tokenizer.CachedPath(name, tokenizerFile)
	if err != nil {
		return "", fmt.Errorf("fetch %s/%s: %w", name, tokenizerFile, err)
	}
	return path, nil
}

// Encode returns token ids without the model's special tokens.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	en, err := t.tk.EncodeSingle(text, false)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return en.Ids, nil
}

// Decode turns ids back into text, skipping special tokens.
func (t *Tokenizer) Decode(ids []int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return strings.TrimSpace(t.tk.Decode(ids, true)), nil
}

// Name returns the tokenizer source.
func (t *Tokenizer) Name() string {
	return t.name
}
