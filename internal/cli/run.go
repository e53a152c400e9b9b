package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/fjglira/specrunner/internal/config"
	"github.com/fjglira/specrunner/internal/converter"
	"github.com/fjglira/specrunner/internal/domain"
	"github.com/fjglira/specrunner/internal/isolate"
	"github.com/fjglira/specrunner/internal/parser"
	"github.com/fjglira/specrunner/internal/reporter"
	"github.com/fjglira/specrunner/internal/runner"
	"github.com/fjglira/specrunner/internal/scanner"
	"github.com/fjglira/specrunner/internal/storage"
)

// envIsolatedChild marks the re-executed child of run --isolated.
const envIsolatedChild = "SPECRUNNER_ISOLATED_CHILD"

var (
	isolated bool
	jsonFile string
	echo     bool
	progress bool
	noColor  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every suite and print the report",
	Long: `Scans the configured directories for suite documents, registers every
context and case, runs each case exactly once and prints the report.
The exit status is 0 only when there were no failures and no errors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if isolated && os.Getenv(envIsolatedChild) == "" {
			return runIsolated(cmd)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyRunFlags(cfg)

		summary, err := runSuites(cfg)
		if err != nil {
			return err
		}

		if err := reporter.WriteTo(cmd.OutOrStdout(), summary); err != nil {
			return domain.NewError("report", "", 0, "failed to write report", err)
		}
		if cfg.Report.JSONFile != "" {
			if err := storage.NewJSONStorage(cfg.Report.JSONFile).Save(summary); err != nil {
				return err
			}
			log.Infof("Summary saved to %s", cfg.Report.JSONFile)
		}

		printStatus(summary)
		if !summary.Succeeded() {
			return &ExitError{Code: summary.ExitCode()}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&isolated, "isolated", false, "run in a child process and relay its output and exit status")
	runCmd.Flags().StringVar(&jsonFile, "json", "", "also save the summary as JSON to this file")
	runCmd.Flags().BoolVar(&echo, "echo", false, "copy case command output to stdout")
	runCmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar on stderr")
	runCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored status output")
	rootCmd.AddCommand(runCmd)
}

// applyRunFlags lets the run flags override the loaded configuration.
func applyRunFlags(cfg *config.Config) {
	if jsonFile != "" {
		cfg.Report.JSONFile = jsonFile
	}
	if progress {
		cfg.Report.Progress = true
	}
	if noColor {
		cfg.Report.Color = false
		color.NoColor = true
	}
}

// newRunner wires the scanner, the parsers and conv into a runner.
func newRunner(cfg *config.Config, conv *converter.DefaultConverter) (*runner.DefaultRunner, error) {
	parsers, err := parser.NewRegistryWithMarkers(cfg.PlaintextPatterns.BlockStart, cfg.PlaintextPatterns.BlockEnd)
	if err != nil {
		return nil, domain.NewError("config", cfgFile, 0, "invalid plaintext_patterns", err)
	}
	return runner.NewRunner(scanner.NewScanner(cfg.IsRecursive()), parsers, conv, log), nil
}

// runSuites wires all components and runs the suites once.
func runSuites(cfg *config.Config) (domain.RunSummary, error) {
	conv := converter.NewConverter(&cfg.Commands)
	if echo {
		conv.WithEcho(os.Stdout)
	}
	r, err := newRunner(cfg, conv)
	if err != nil {
		return domain.RunSummary{}, err
	}

	reg, err := r.Load(cfg)
	if err != nil {
		return domain.RunSummary{}, err
	}

	if cfg.Report.Progress && reg.Count() > 0 {
		bar := progressbar.NewOptions(reg.Count(),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("running"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		r.AddObserver(func(domain.Record) { _ = bar.Add(1) })
		defer func() { _ = bar.Finish() }()
	}

	return r.Execute(reg)
}

// runIsolated re-executes this binary and relays what the child printed.
func runIsolated(cmd *cobra.Command) error {
	res, err := isolate.Self(cmd.Context(), os.Args[1:], []string{envIsolatedChild + "=1"})
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
	fmt.Fprint(os.Stderr, res.Stderr)
	log.Debugf("Isolated run exited with status %d", res.ExitCode)
	if !res.Succeeded() {
		return &ExitError{Code: res.ExitCode}
	}
	return nil
}

func printStatus(summary domain.RunSummary) {
	if summary.Succeeded() {
		color.New(color.FgGreen).Fprintf(os.Stderr, "✓ %d tests passed", summary.Passes)
		if summary.Skips > 0 {
			color.New(color.FgYellow).Fprintf(os.Stderr, " (%d skipped)", summary.Skips)
		}
		fmt.Fprintln(os.Stderr)
		return
	}
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ %d failures, %d errors\n", summary.Failures, summary.Errors)
}
