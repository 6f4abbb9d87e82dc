package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files, embed them in the binary,
// or fetch them from a remote configuration service.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	// This is useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and providers.
const (
	// PromptGroundingPolicy is the system instruction for answer generation.
	// This prompt has no format placeholders.
	PromptGroundingPolicy = "grounding_policy"

	// PromptAnswer wraps the question and retrieved context.
	// The template names them with AnswerQuestionPlaceholder and
	// AnswerContextPlaceholder.
	PromptAnswer = "answer"
)

// Placeholders substituted into the PromptAnswer template. Any other text,
// including a literal %, is passed through untouched.
const (
	AnswerQuestionPlaceholder = "{question}"
	AnswerContextPlaceholder  = "{context}"
)

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use hardcoded default prompts.
	SetPromptStore(store PromptStore)
}
