package chunker

import (
	"fmt"

	"github.com/custodia-labs/yonerge/internal/core/ports/driven"
)

// DefaultTokensPerChunk is the default token budget per passage.
const DefaultTokensPerChunk = 128

// DefaultTokenOverlap is the default number of tokens shared by adjacent passages.
const DefaultTokenOverlap = 10

// TokenOptions configures SplitByTokenBudget.
type TokenOptions struct {
	TokensPerChunk int
	Overlap        int
}

func (o TokenOptions) normalised() TokenOptions {
	if o.TokensPerChunk <= 0 {
		o.TokensPerChunk = DefaultTokensPerChunk
	}
	if o.Overlap < 0 {
		o.Overlap = 0
	}
	if o.Overlap >= o.TokensPerChunk {
		o.Overlap = o.TokensPerChunk / 4
	}
	return o
}

// SplitByTokenBudget re-splits text so that no passage exceeds
// TokensPerChunk tokens under tok. Windows advance by
// TokensPerChunk-Overlap tokens and the last window ends at the final token.
// Windows that decode to empty text are dropped.
func SplitByTokenBudget(text string, tok driven.Tokenizer, opts TokenOptions) ([]string, error) {
	if tok == nil {
		return nil, fmt.Errorf("tokenizer is nil")
	}
	opts = opts.normalised()
	if s, ok := tok.(driven.ScopedTokenizer); ok {
		tok = s.Scope()
	}

	ids, err := tok.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	var out []string
	step := opts.TokensPerChunk - opts.Overlap
	for start := 0; start < len(ids); start += step {
		end := min(start+opts.TokensPerChunk, len(ids))
		decoded, err := tok.Decode(ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		if decoded != "" {
			out = append(out, decoded)
		}
		if end == len(ids) {
			break
		}
	}
	return out, nil
}
