// Package http serves the ask API over HTTP with gin.
//
// Routes:
//
//	GET  /         service banner and collection size
//	GET  /health   readiness and collection details (503 until ready)
//	GET  /healthz  alias of /health
//	POST /ask      answer a question from the indexed documents
//	GET  /stats    collection statistics
package http
