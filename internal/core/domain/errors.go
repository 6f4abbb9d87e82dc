package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider or backend name.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrInvalidSettings indicates the loaded settings failed validation.
	ErrInvalidSettings = errors.New("invalid settings")

	// Query Errors.

	// ErrValidation indicates caller input was rejected before any retrieval.
	ErrValidation = errors.New("validation failed")

	// ErrIndexUnavailable indicates the collection is not initialised.
	// Surfaced as a service-unavailable condition.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrConfigMismatch indicates the configured embedding model differs
	// from the one the collection was built with.
	ErrConfigMismatch = errors.New("embedding model mismatch")

	// ErrGeneration indicates the generative model failed.
	// Absorbed by the answer service into a failed AnswerResult.
	ErrGeneration = errors.New("generation failed")

	// Ingestion Errors.

	// ErrExtraction indicates a document could not be read.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmptyInput indicates a document yielded no usable text.
	ErrEmptyInput = errors.New("empty input")

	// AI Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured or unreachable.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates an API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError reports a rejected caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ExtractionError reports a document that could not be read.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrExtraction, e.Path, e.Err)
}

// Is matches ErrExtraction.
func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// GenerationError wraps a failure of the generative model.
type GenerationError struct {
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("%s: %v", ErrGeneration, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", ErrGeneration, e.Model, e.Err)
}

// Is matches ErrGeneration.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGeneration
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// ConfigMismatchError reports a collection built with a different embedding model.
type ConfigMismatchError struct {
	Collection string
	Stored     string
	Configured string
}

func (e *ConfigMismatchError) Error() string {
	return fmt.Sprintf("%s: collection %q was built with %q but %q is configured",
		ErrConfigMismatch, e.Collection, e.Stored, e.Configured)
}

// Is matches ErrConfigMismatch.
func (e *ConfigMismatchError) Is(target error) bool {
	return target == ErrConfigMismatch
}
