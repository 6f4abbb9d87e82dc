package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
	"github.com/custodia-labs/yonerge/internal/postprocessors/chunker"
)

// RegisterDefaults registers the built-in chunking stages with the registry.
// The token stage splits with tok, which must match the embedding model.
func RegisterDefaults(r *Registry, tok driven.Tokenizer) {
	r.Register("structure", buildStructure)
	r.Register("token", func(cfg map[string]any) (driven.PostProcessor, error) {
		return buildToken(tok, cfg)
	})
}

// buildStructure creates a structural splitter from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1500)
//   - overlap (int): Overlapping characters between chunks (default: 200)
//   - separators ([]string): Separator preference order
func buildStructure(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, chunker.WithOverlap(getIntFromConfig(cfg, "overlap")))
		}
		if seps, ok := cfg["separators"].([]string); ok {
			opts = append(opts, chunker.WithSeparators(seps...))
		}
	}

	return chunker.New(opts...), nil
}

// buildToken creates a token-budget splitter from generic config.
// Supported config keys:
//   - tokens_per_chunk (int): Token budget per chunk (default: 128)
//   - overlap (int): Overlapping tokens between chunks (default: 10)
func buildToken(tok driven.Tokenizer, cfg map[string]any) (driven.PostProcessor, error) {
	if tok == nil {
		return nil, fmt.Errorf("token processor requires a tokenizer")
	}

	var opts []chunker.TokenOption
	if cfg != nil {
		if n := getIntFromConfig(cfg, "tokens_per_chunk"); n > 0 {
			opts = append(opts, chunker.WithTokensPerChunk(n))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, chunker.WithTokenOverlap(getIntFromConfig(cfg, "overlap")))
		}
	}

	return chunker.NewTokenProcessor(tok, opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
