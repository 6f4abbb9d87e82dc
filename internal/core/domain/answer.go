package domain

const (
	// FallbackAnswer is shown to users whenever answer generation fails.
	FallbackAnswer = "⚠️ Bir hata oluştu. Lütfen tekrar deneyin."

	// InsufficientContextAnswer is the fixed reply the grounding policy
	// requires when the retrieved passages do not contain the answer.
	InsufficientContextAnswer = "Bu sorunun yanıtı elimdeki bilgilere göre belirlenemiyor."

	// DefaultTopK is the number of passages retrieved when callers do not say.
	DefaultTopK = 10
)

// SourceRef cites one retrieved passage in an answer.
type SourceRef struct {
	Document string  `json:"document"`
	Category string  `json:"category"`
	Distance float64 `json:"distance"`
}

// AnswerResult is the outcome of one question.
// On success Answer holds the model text and Sources the cited passages in
// retrieval order. On failure Error describes the cause and Answer holds
// FallbackAnswer.
type AnswerResult struct {
	Success bool        `json:"success"`
	Answer  string      `json:"answer"`
	Sources []SourceRef `json:"sources"`
	Error   string      `json:"error,omitempty"`
}

// NewFailedAnswer builds the failure form of an AnswerResult.
func NewFailedAnswer(err error) *AnswerResult {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &AnswerResult{
		Success: false,
		Answer:  FallbackAnswer,
		Sources: []SourceRef{},
		Error:   msg,
	}
}

// SourcesFrom builds citations for passages in the order given.
func SourcesFrom(passages []ScoredPassage) []SourceRef {
	refs := make([]SourceRef, len(passages))
	for i, p := range passages {
		refs[i] = SourceRef{
			Document: p.Metadata.Document,
			Category: p.Metadata.Category,
			Distance: p.Distance,
		}
	}
	return refs
}
