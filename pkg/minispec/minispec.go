// Package minispec is the in-process API of specrunner.
//
//	s := minispec.New()
//	s.Describe("Stack", func(c *minispec.Context) {
//		c.It("starts empty", func(t *minispec.T) {
//			t.Equal(0, NewStack().Len())
//		})
//		c.It("pops in LIFO order", nil) // registered as a skip
//	})
//	summary, err := s.Run()
//	fmt.Print(minispec.Render(summary))
//
// A Suite is single-use: it registers, runs once and is done.
package minispec

import (
	"github.com/fjglira/specrunner/internal/assert"
	"github.com/fjglira/specrunner/internal/domain"
	"github.com/fjglira/specrunner/internal/registry"
	"github.com/fjglira/specrunner/internal/reporter"
	"github.com/fjglira/specrunner/internal/scheduler"
)

type (
	T           = assert.T
	Context     = registry.Context
	Case        = registry.Case
	Body        = registry.Body
	RunSummary  = domain.RunSummary
	Record      = domain.Record
	Outcome     = domain.Outcome
	OutcomeKind = domain.OutcomeKind
	Location    = domain.Location
	Frame       = domain.Frame
)

// Outcome kinds.
const (
	Pass  = domain.OutcomePass
	Fail  = domain.OutcomeFail
	Error = domain.OutcomeError
	Skip  = domain.OutcomeSkip
)

// ErrRunConsumed is returned by a second Run on the same Suite.
var ErrRunConsumed = domain.ErrRunConsumed

// Suite owns one registry and runs it at most once.
type Suite struct {
	reg       *registry.Registry
	observers []scheduler.Observer
	ran       bool
}

// New creates an empty suite.
func New() *Suite {
	return &Suite{reg: registry.New()}
}

// Describe opens a top-level context.
func (s *Suite) Describe(description string, fn func(c *Context)) *Context {
	return s.reg.Describe(description, fn)
}

// It registers a case directly under the root. A nil body registers a skip.
func (s *Suite) It(description string, body Body) *Case {
	return s.reg.AddCaseAt(s.reg.Root(), description, body, registry.CallerLocation(2))
}

// OnCase adds a callback invoked after every case runs.
func (s *Suite) OnCase(fn func(rec Record)) {
	s.observers = append(s.observers, fn)
}

// Run executes every registered case once.
func (s *Suite) Run() (RunSummary, error) {
	if s.ran {
		return RunSummary{}, ErrRunConsumed
	}
	s.ran = true
	s.reg.Seal()

	var opts []scheduler.Option
	for _, o := range s.observers {
		opts = append(opts, scheduler.WithObserver(o))
	}
	return scheduler.New(opts...).Run(s.reg.Root()), nil
}

// Render returns the text report of a summary.
func Render(summary RunSummary) string {
	return reporter.Render(summary)
}
