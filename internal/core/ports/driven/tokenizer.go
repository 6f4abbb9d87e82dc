package driven

// Tokenizer converts text to token ids and back.
// It must match the embedding model so that token budgets hold at embed time.
type Tokenizer interface {
	// Encode returns the token ids of text without special tokens.
	Encode(text string) ([]int, error)

	// Decode turns token ids back into text, skipping special tokens.
	Decode(ids []int) (string, error)

	// Name identifies the tokenizer.
	Name() string
}

// ScopedTokenizer is implemented by tokenizers whose ids only hold within
// one text. Scope returns a tokenizer for a single Encode/Decode round so
// that state does not accumulate across documents.
type ScopedTokenizer interface {
	Scope() Tokenizer
}
