// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Extractor: Reads per-page text out of a source PDF
//   - Tokenizer: Encodes text for token-bounded chunking
//   - PostProcessor: One stage of the chunking pipeline
//   - IndexStore / Collection: Passage persistence and nearest-neighbour query
//   - EmbeddingService: Text to vector, used by the index store
//   - LLMService: Generative model used by the answer service
//   - ConfigStore: Application configuration
//   - PromptStore: Grounding policy and prompt templates
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - AnswerCache: Caches successful answers. Without it every question is generated.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
