// Package connectors holds the document sources ingestion reads from.
// The only source is a local directory of PDF files (see filesystem).
package connectors
