// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// AskRequested is a command to answer a question.
type AskRequested struct {
	Question string
	TopK     int
}

// AnswerCompleted carries an answer back to the model.
type AnswerCompleted struct {
	Question string
	Result   *domain.AnswerResult
	Err      error
}

// StatsLoaded carries collection statistics for the header.
type StatsLoaded struct {
	Stats *domain.EngineStats
	Err   error
}

// SourceSelected is sent when a cited source is highlighted.
type SourceSelected struct {
	Index int
}

// FocusChanged is sent when focus moves between the input and the sources.
type FocusChanged struct {
	Focus Focus
}

// Focus identifies which pane receives keys.
type Focus int

const (
	// FocusInput is the question input.
	FocusInput Focus = iota
	// FocusSources is the cited source list.
	FocusSources
)

// String returns the string representation of the focus.
func (f Focus) String() string {
	switch f {
	case FocusInput:
		return "input"
	case FocusSources:
		return "sources"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
