// Package aggregator accumulates the counters and non-passing records of a run.
package aggregator

import "github.com/fjglira/specrunner/internal/domain"

// Aggregator is strictly additive. It is not safe for concurrent use; the
// scheduler is its only writer.
type Aggregator struct {
	summary domain.RunSummary
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// Record counts one outcome.
func (a *Aggregator) Record(rec domain.Record) {
	s := &a.summary
	s.Tests++
	s.Assertions += rec.Outcome.Assertions

	switch rec.Outcome.Kind {
	case domain.OutcomePass:
		s.Passes++
		return
	case domain.OutcomeFail:
		s.Failures++
	case domain.OutcomeError:
		s.Errors++
	case domain.OutcomeSkip:
		s.Skips++
	default:
		// unknown kinds count as errors
		s.Errors++
	}
	s.Records = append(s.Records, rec)
}

// Summary returns a copy of the current state.
func (a *Aggregator) Summary() domain.RunSummary {
	out := a.summary
	out.Records = append([]domain.Record(nil), a.summary.Records...)
	return out
}
