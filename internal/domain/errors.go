package domain

import (
	"errors"
	"fmt"
)

// ErrRunConsumed is returned when a single-use run is started a second time.
var ErrRunConsumed = errors.New("run already consumed: build a new suite for every run")

// SpecRunnerError is the base error type with context.
type SpecRunnerError struct {
	Phase      string // "config", "scan", "parse", "convert", "register", "run", "report", "storage", "isolate"
	File       string
	LineNumber int
	Message    string
	Suggestion string
	Cause      error
}

func (e *SpecRunnerError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	if e.LineNumber > 0 {
		s += fmt.Sprintf(":%d", e.LineNumber)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *SpecRunnerError) Unwrap() error {
	return e.Cause
}

// NewError creates a new SpecRunnerError.
func NewError(phase, file string, line int, message string, cause error) *SpecRunnerError {
	return &SpecRunnerError{
		Phase:      phase,
		File:       file,
		LineNumber: line,
		Message:    message,
		Cause:      cause,
	}
}

// NewErrorWithSuggestion creates a SpecRunnerError carrying a hint for the user.
func NewErrorWithSuggestion(phase, file string, line int, message, suggestion string, cause error) *SpecRunnerError {
	err := NewError(phase, file, line, message, cause)
	err.Suggestion = suggestion
	return err
}
