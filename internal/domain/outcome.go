package domain

import "fmt"

// OutcomeKind classifies the result of attempting one case.
type OutcomeKind string

const (
	OutcomePass  OutcomeKind = "pass"
	OutcomeFail  OutcomeKind = "fail"
	OutcomeError OutcomeKind = "error"
	OutcomeSkip  OutcomeKind = "skip"
)

// Location identifies a line of source.
type Location struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Frame is one entry of a trimmed backtrace.
type Frame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

// Outcome is the classified result of one case.
//
// Message and Location are set for fail and error, Location alone for skip.
// Backtrace is set for error only, innermost frame first.
type Outcome struct {
	Kind       OutcomeKind `json:"kind"`
	Message    string      `json:"message,omitempty"`
	Location   Location    `json:"location"`
	Backtrace  []Frame     `json:"backtrace,omitempty"`
	Assertions int         `json:"assertions"`
}

// Record pairs an outcome with the case it belongs to.
type Record struct {
	Path        DescriptionPath `json:"path"`
	DisplayName string          `json:"display_name"`
	Outcome     Outcome         `json:"outcome"`
}

// RunSummary is the terminal state of one run.
type RunSummary struct {
	Tests      int      `json:"tests"`
	Assertions int      `json:"assertions"`
	Passes     int      `json:"passes"`
	Failures   int      `json:"failures"`
	Errors     int      `json:"errors"`
	Skips      int      `json:"skips"`
	Records    []Record `json:"records"` // non-passing cases in encounter order
}

// Succeeded reports whether the run had neither failures nor errors.
// Skips do not affect success.
func (s RunSummary) Succeeded() bool {
	return s.Failures == 0 && s.Errors == 0
}

// ExitCode is the process exit status matching the summary.
func (s RunSummary) ExitCode() int {
	if s.Succeeded() {
		return 0
	}
	return 1
}
