// Package assert provides the handle a case body uses to make assertions.
//
// A failed assertion stops the body by panicking with a *Failure, which the
// classifier turns into a fail outcome. Any other panic is an error.
package assert

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/fjglira/specrunner/internal/domain"
)

const pkgPrefix = "github.com/fjglira/specrunner/internal/assert."

// Failure is the signal raised by a failed assertion.
type Failure struct {
	Message  string
	Location domain.Location
}

func (f *Failure) Error() string {
	return f.Message
}

// T counts assertions for one case execution.
type T struct {
	assertions int
	pinned     *domain.Location
}

// New returns a fresh handle.
func New() *T {
	return &T{}
}

// Assertions returns how many assertions have been made so far.
func (t *T) Assertions() int {
	return t.assertions
}

// At pins the location reported by later failures, for bodies whose failing
// statement lives outside Go source.
func (t *T) At(loc domain.Location) *T {
	t.pinned = &loc
	return t
}

// Assert fails unless cond is true.
func (t *T) Assert(cond bool, msgAndArgs ...any) {
	t.assertions++
	if !cond {
		t.fail(message(msgAndArgs, "Failed assertion, no message given"))
	}
}

// Refute fails if cond is true.
func (t *T) Refute(cond bool, msgAndArgs ...any) {
	t.assertions++
	if cond {
		t.fail(message(msgAndArgs, "Failed refutation, no message given"))
	}
}

// Equal fails unless expected and actual are deeply equal.
func (t *T) Equal(expected, actual any, msgAndArgs ...any) {
	t.assertions++
	if !reflect.DeepEqual(expected, actual) {
		diff := fmt.Sprintf("Expected %#v, not %#v.", expected, actual)
		t.fail(prefixed(msgAndArgs, diff))
	}
}

// NoError fails if err is non-nil.
func (t *T) NoError(err error, msgAndArgs ...any) {
	t.assertions++
	if err != nil {
		t.fail(prefixed(msgAndArgs, fmt.Sprintf("Unexpected error: %v", err)))
	}
}

// Contains fails unless s contains sub.
func (t *T) Contains(s, sub string, msgAndArgs ...any) {
	t.assertions++
	if !strings.Contains(s, sub) {
		t.fail(prefixed(msgAndArgs, fmt.Sprintf("Expected %q to include %q.", s, sub)))
	}
}

// Fail fails unconditionally.
func (t *T) Fail(msg string) {
	t.assertions++
	t.fail(msg)
}

func (t *T) fail(msg string) {
	loc := callerOutsidePackage()
	if t.pinned != nil {
		loc = *t.pinned
	}
	panic(&Failure{Message: msg, Location: loc})
}

func message(msgAndArgs []any, fallback string) string {
	if len(msgAndArgs) == 0 {
		return fallback
	}
	if format, ok := msgAndArgs[0].(string); ok && len(msgAndArgs) > 1 {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}

func prefixed(msgAndArgs []any, detail string) string {
	if len(msgAndArgs) == 0 {
		return detail
	}
	return message(msgAndArgs, "") + ".\n" + detail
}

// callerOutsidePackage finds the innermost frame that is not in this package.
func callerOutsidePackage() domain.Location {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, pkgPrefix) {
			return domain.Location{File: f.File, Line: f.Line}
		}
		if !more {
			return domain.Location{File: f.File, Line: f.Line}
		}
	}
}

// InPackage reports whether fn, a fully qualified function name, belongs to
// this package. The classifier uses it to trim backtraces.
func InPackage(fn string) bool {
	return strings.HasPrefix(fn, pkgPrefix)
}
