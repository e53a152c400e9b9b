// Package reporter renders a RunSummary as text.
//
// Every non-passing case produces one record, in the order it ran:
//
//	Failed:
//	L1 L2 B [/src/l1_test.go:12]:
//	Failed assertion, no message given
//
// followed by the counters line:
//
//	2 tests, 2 assertions, 1 failures, 0 errors, 0 skips
package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fjglira/specrunner/internal/domain"
)

// Section headers, one per outcome kind.
const (
	HeaderSkipped = "Skipped:"
	HeaderFailed  = "Failed:"
	HeaderError   = "Error:"
)

// Render is a pure function of the summary.
func Render(s domain.RunSummary) string {
	var b strings.Builder
	for _, rec := range s.Records {
		writeRecord(&b, rec)
	}
	fmt.Fprintf(&b, "%d tests, %d assertions, %d failures, %d errors, %d skips\n",
		s.Tests, s.Assertions, s.Failures, s.Errors, s.Skips)
	return b.String()
}

// WriteTo renders the summary to w.
func WriteTo(w io.Writer, s domain.RunSummary) error {
	_, err := io.WriteString(w, Render(s))
	return err
}

func writeRecord(b *strings.Builder, rec domain.Record) {
	out := rec.Outcome
	switch out.Kind {
	case domain.OutcomePass:
		return
	case domain.OutcomeSkip:
		b.WriteString(HeaderSkipped + "\n")
	case domain.OutcomeFail:
		b.WriteString(HeaderFailed + "\n")
	default:
		// unknown kinds are counted as errors and rendered as such
		b.WriteString(HeaderError + "\n")
	}

	fmt.Fprintf(b, "%s [%s]:\n", rec.Path.String(), out.Location.String())

	switch out.Kind {
	case domain.OutcomeSkip:
		fmt.Fprintf(b, "%s: no body given\n", rec.DisplayName)
	case domain.OutcomeFail:
		b.WriteString(terminated(out.Message))
	default:
		b.WriteString(terminated(out.Message))
		for _, f := range out.Backtrace {
			fmt.Fprintf(b, "    %s:%d:in '%s'\n", f.File, f.Line, f.Function)
		}
	}
	b.WriteString("\n")
}

func terminated(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
