package mcp

import (
	"github.com/custodia-labs/yonerge/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer composes grounded answers.
	Answer driving.AnswerService

	// Retrieval returns ranked passages.
	Retrieval driving.RetrievalService

	// Stats describes the collection. Optional.
	Stats driving.StatsService
}

// PortsFromEngine wires every port to engine.
func PortsFromEngine(engine driving.Engine) *Ports {
	return &Ports{Answer: engine, Retrieval: engine, Stats: engine}
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
