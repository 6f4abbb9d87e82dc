// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The Engine owns the collection handle; the ingestion, retrieval and answer
// services take it as an argument so each can be tested on its own.
package services
