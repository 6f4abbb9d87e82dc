// Package tui provides an interactive terminal user interface for asking
// questions about the indexed regulations.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/yonerge/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer composes grounded answers.
	Answer driving.AnswerService

	// Stats describes the collection in the header. Optional.
	Stats driving.StatsService
}

// NewPorts creates a new Ports aggregate backed by engine.
func NewPorts(engine driving.Engine) *Ports {
	return &Ports{Answer: engine, Stats: engine}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	return nil
}
