package minispec_test

import (
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/specrunner/pkg/minispec"
)

var _ = Describe("Suite", func() {
	It("should report a failure inside a nested context", func() {
		var line int
		s := minispec.New()
		s.Describe("L1", func(c *minispec.Context) {
			c.It("A", func(t *minispec.T) { t.Assert(true) })
			c.Describe("L2", func(c *minispec.Context) {
				c.It("B", func(t *minispec.T) {
					_, _, line, _ = runtime.Caller(0)
					t.Assert(false)
				})
			})
		})

		summary, err := s.Run()
		Expect(err).ToNot(HaveOccurred())
		Expect(summary.Tests).To(Equal(2))
		Expect(summary.Assertions).To(Equal(2))
		Expect(summary.Failures).To(Equal(1))

		report := minispec.Render(summary)
		Expect(report).To(MatchRegexp(`Failed:\nL1 L2 B \[.*minispec_test\.go:\d+\]:\nFailed assertion, no message given\n`))
		Expect(summary.Records[0].Outcome.Location.Line).To(Equal(line + 1))
		Expect(report).To(HaveSuffix("2 tests, 2 assertions, 1 failures, 0 errors, 0 skips\n"))
	})

	It("should register root cases at the caller's line", func() {
		s := minispec.New()
		_, file, line, _ := runtime.Caller(0)
		c := s.It("top level", nil)
		Expect(c.Location).To(Equal(minispec.Location{File: file, Line: line + 1}))

		summary, err := s.Run()
		Expect(err).ToNot(HaveOccurred())
		Expect(summary.Skips).To(Equal(1))
		Expect(summary.Records[0].Outcome.Kind).To(Equal(minispec.Skip))
	})

	It("should notify observers after every case", func() {
		s := minispec.New()
		s.Describe("Foo", func(c *minispec.Context) { c.It("a", func(t *minispec.T) {}) })
		s.Describe("Foo", func(c *minispec.Context) { c.It("b", func(t *minispec.T) { panic("x") }) })

		var kinds []minispec.OutcomeKind
		s.OnCase(func(rec minispec.Record) { kinds = append(kinds, rec.Outcome.Kind) })

		summary, err := s.Run()
		Expect(err).ToNot(HaveOccurred())
		Expect(kinds).To(Equal([]minispec.OutcomeKind{minispec.Pass, minispec.Error}))
		Expect(summary.ExitCode()).To(Equal(1))
	})

	It("should run only once", func() {
		s := minispec.New()
		s.It("once", func(t *minispec.T) { t.Assert(true) })

		first, err := s.Run()
		Expect(err).ToNot(HaveOccurred())
		Expect(first.Tests).To(Equal(1))

		_, err = s.Run()
		Expect(err).To(MatchError(minispec.ErrRunConsumed))
	})

	It("should refuse registration after the run", func() {
		s := minispec.New()
		_, err := s.Run()
		Expect(err).ToNot(HaveOccurred())
		Expect(func() { s.Describe("late", nil) }).To(Panic())
	})
})
