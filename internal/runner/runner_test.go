package runner_test

import (
	"io"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/specrunner/internal/config"
	"github.com/fjglira/specrunner/internal/converter"
	"github.com/fjglira/specrunner/internal/domain"
	"github.com/fjglira/specrunner/internal/parser"
	"github.com/fjglira/specrunner/internal/registry"
	"github.com/fjglira/specrunner/internal/reporter"
	"github.com/fjglira/specrunner/internal/runner"
	"github.com/fjglira/specrunner/internal/scanner"
)

var _ = Describe("Runner", func() {
	var (
		cfg   *config.Config
		r     *runner.DefaultRunner
		hook  *test.Hook
		suite = filepath.Join("..", "..", "testdata", "suites")
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.Input.Directories = []string{suite}

		log := logrus.New()
		log.SetOutput(io.Discard)
		log.SetLevel(logrus.DebugLevel)
		hook = test.NewLocal(log)

		r = runner.NewRunner(
			scanner.NewScanner(cfg.IsRecursive()),
			parser.NewDefaultRegistry(),
			converter.NewConverter(&cfg.Commands),
			log,
		)
	})

	Describe("Load", func() {
		It("should register every case from every document", func() {
			reg, err := r.Load(cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(reg.Count()).To(Equal(9))

			var top []string
			for _, c := range reg.Root().Children {
				top = append(top, c.Description)
			}
			Expect(top).To(Equal([]string{"Greeter", "Duplicates", "Tools"}))
			Expect(reg.Sealed()).To(BeFalse())
		})

		It("should return an empty registry when nothing matches", func() {
			cfg.Input.Include = []string{"**/*.rst"}
			reg, err := r.Load(cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(reg.Count()).To(BeZero())
			Expect(hook.LastEntry().Message).To(Equal("No suite documents found"))
		})

		It("should skip directories that cannot be scanned", func() {
			cfg.Input.Directories = []string{filepath.Join(suite, "missing"), suite}
			reg, err := r.Load(cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(reg.Count()).To(Equal(9))

			var warned bool
			for _, e := range hook.AllEntries() {
				if e.Level == logrus.WarnLevel {
					warned = true
				}
			}
			Expect(warned).To(BeTrue())
		})

		It("should register in scan order whatever the parse concurrency", func() {
			cfg.Input.Workers = 1
			sequential, err := r.Load(cfg)
			Expect(err).ToNot(HaveOccurred())

			cfg.Input.Workers = 8
			parallel, err := r.Load(cfg)
			Expect(err).ToNot(HaveOccurred())

			names := func(reg *registry.Registry) []string {
				var out []string
				reg.Walk(func(c *registry.Context, _ int) {
					for _, cs := range c.Cases {
						out = append(out, cs.DisplayName())
					}
				})
				return out
			}
			Expect(names(parallel)).To(Equal(names(sequential)))
		})

		It("should load AsciiDoc and plaintext suites", func() {
			cfg.Input.Directories = []string{filepath.Join("..", "..", "testdata", "documents")}
			cfg.Input.Include = []string{"**/*.adoc", "**/*.txt"}
			reg, err := r.Load(cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(reg.Count()).To(Equal(5))
			Expect(reg.Root().Children).To(HaveLen(2))
		})

		It("should stop on a blocked command", func() {
			cfg.Commands.BlockedPatterns = append(cfg.Commands.BlockedPatterns, "exit 4")
			_, err := r.Load(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("greeter.md:20"))
		})
	})

	Describe("Run", func() {
		It("should execute every case once and aggregate the results", func() {
			var observed []string
			r.AddObserver(func(rec domain.Record) {
				observed = append(observed, rec.DisplayName)
			})

			summary, err := r.Run(cfg)
			Expect(err).ToNot(HaveOccurred())
			Expect(summary.Tests).To(Equal(9))
			Expect(summary.Passes).To(Equal(6))
			Expect(summary.Failures).To(Equal(1))
			Expect(summary.Errors).To(BeZero())
			Expect(summary.Skips).To(Equal(2))
			Expect(summary.Assertions).To(Equal(8))
			Expect(summary.ExitCode()).To(Equal(1))

			Expect(observed).To(HaveLen(9))
			Expect(observed[0]).To(Equal("test_0001_says_hello"))
		})

		It("should report failures at their document line", func() {
			summary, err := r.Run(cfg)
			Expect(err).ToNot(HaveOccurred())

			Expect(summary.Records).To(HaveLen(3))
			failed := summary.Records[1]
			Expect(failed.Path.String()).To(Equal("Greeter when shouting fails on purpose"))
			Expect(failed.Outcome.Location).To(Equal(domain.Location{
				File: filepath.Join(suite, "greeter.md"),
				Line: 20,
			}))

			report := reporter.Render(summary)
			Expect(report).To(ContainSubstring("Skipped:\nGreeter when shouting is not written yet ["))
			Expect(report).To(ContainSubstring("Failed:\nGreeter when shouting fails on purpose ["))
			Expect(report).To(HaveSuffix("9 tests, 8 assertions, 1 failures, 0 errors, 2 skips\n"))
		})

		It("should refuse to execute a registry twice", func() {
			reg, err := r.Load(cfg)
			Expect(err).ToNot(HaveOccurred())

			first, err := r.Execute(reg)
			Expect(err).ToNot(HaveOccurred())
			Expect(first.Tests).To(Equal(9))

			var observed int
			r.AddObserver(func(domain.Record) { observed++ })
			_, err = r.Execute(reg)
			Expect(err).To(MatchError(domain.ErrRunConsumed))
			Expect(observed).To(BeZero())
		})

		It("should log a summary entry", func() {
			_, err := r.Run(cfg)
			Expect(err).ToNot(HaveOccurred())

			entry := hook.LastEntry()
			Expect(entry.Message).To(Equal("Run complete"))
			Expect(entry.Data).To(HaveKeyWithValue("tests", 9))
			Expect(entry.Data).To(HaveKeyWithValue("failures", 1))
		})
	})
})
