// Package scheduler walks a context tree and executes every case exactly once.
package scheduler

import (
	"github.com/fjglira/specrunner/internal/aggregator"
	"github.com/fjglira/specrunner/internal/classifier"
	"github.com/fjglira/specrunner/internal/domain"
	"github.com/fjglira/specrunner/internal/registry"
)

// Observer is notified after every executed case.
type Observer func(rec domain.Record)

// Scheduler runs cases sequentially, depth-first, in registration order.
type Scheduler struct {
	classify  func(c *registry.Case) domain.Outcome
	observers []Observer
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithObserver adds an observer.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) {
		s.observers = append(s.observers, o)
	}
}

// WithClassifier replaces the classifier.
func WithClassifier(fn func(c *registry.Case) domain.Outcome) Option {
	return func(s *Scheduler) {
		s.classify = fn
	}
}

// New creates a Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{classify: classifier.Classify}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the tree below root and returns the aggregated summary.
//
// At each context its own cases run first, then each child context, all in
// registration order. A case is only ever reached through its owning context.
func (s *Scheduler) Run(root *registry.Context) domain.RunSummary {
	agg := aggregator.New()
	s.visit(root, root.Path(), agg)
	return agg.Summary()
}

func (s *Scheduler) visit(ctx *registry.Context, path domain.DescriptionPath, agg *aggregator.Aggregator) {
	for _, c := range ctx.Cases {
		rec := domain.Record{
			Path:        path.Append(c.Description),
			DisplayName: c.DisplayName(),
			Outcome:     s.classify(c),
		}
		agg.Record(rec)
		for _, o := range s.observers {
			o(rec)
		}
	}
	for _, child := range ctx.Children {
		s.visit(child, path.Append(child.Description), agg)
	}
}
