// Package domain defines the core business entities for yonerge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A source PDF and the text extracted from it
//   - Page: One page of extracted text
//   - Chunk: A bounded passage ready for embedding
//   - IndexedPassage: A chunk as persisted in a collection
//   - RetrievalResult: Passages ranked by distance for one question
//   - AnswerResult: The grounded answer returned to callers
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
