// Package classifier runs one case inside its own failure boundary and turns
// whatever happened into a domain.Outcome.
package classifier

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fjglira/specrunner/internal/assert"
	"github.com/fjglira/specrunner/internal/domain"
	"github.com/fjglira/specrunner/internal/registry"
)

// invokeFunc is the fully qualified name of invoke. Frames from it outwards
// belong to the engine and are cut from backtraces.
const invokeFunc = "github.com/fjglira/specrunner/internal/classifier.invoke"

const initialDepth = 64

// Classify executes c and classifies the result:
//
//  1. no body: skip at the registration site
//  2. body returns: pass
//  3. body raises an assertion failure: fail at the raise site
//  4. body raises anything else: error with a trimmed backtrace
func Classify(c *registry.Case) domain.Outcome {
	if c.Body == nil {
		return domain.Outcome{Kind: domain.OutcomeSkip, Location: c.Location}
	}

	t := assert.New()
	out := invoke(c.Body, t)
	out.Assertions = t.Assertions()
	return out
}

// invoke must stay a real frame: backtrace trimming stops at it.
//
//go:noinline
func invoke(body registry.Body, t *assert.T) (out domain.Outcome) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if f, ok := r.(*assert.Failure); ok {
			out = domain.Outcome{
				Kind:     domain.OutcomeFail,
				Message:  f.Message,
				Location: f.Location,
			}
			return
		}
		trace := backtrace()
		out = domain.Outcome{
			Kind:      domain.OutcomeError,
			Message:   describe(r),
			Backtrace: trace,
		}
		if len(trace) > 0 {
			out.Location = domain.Location{File: trace[0].File, Line: trace[0].Line}
		}
	}()

	body(t)
	return domain.Outcome{Kind: domain.OutcomePass}
}

// backtrace is called from the deferred recover while the panicking frames
// are still on the stack. It keeps the frames between the panic and invoke.
func backtrace() []domain.Frame {
	pcs := make([]uintptr, initialDepth)
	n := runtime.Callers(1, pcs)
	for n == len(pcs) {
		pcs = make([]uintptr, 2*len(pcs))
		n = runtime.Callers(1, pcs)
	}
	frames := runtime.CallersFrames(pcs[:n])

	var out []domain.Frame
	panicking := false
	for {
		f, more := frames.Next()
		switch {
		case f.Function == invokeFunc:
			return out
		case f.Function == "runtime.gopanic":
			panicking = true
		case !panicking:
		case strings.HasPrefix(f.Function, "runtime.") && len(out) == 0:
			// sigpanic, panicmem and friends sit between gopanic and user code
		case assert.InPackage(f.Function):
		default:
			out = append(out, domain.Frame{File: f.File, Line: f.Line, Function: shortName(f.Function)})
		}
		if !more {
			return out
		}
	}
}

// describe renders a recovered value as the error message.
func describe(r any) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// shortName drops the import path: "github.com/x/y/pkg.fn" becomes "pkg.fn".
func shortName(fn string) string {
	if i := strings.LastIndex(fn, "/"); i >= 0 {
		return fn[i+1:]
	}
	return fn
}
