package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fjglira/specrunner/internal/config"
)

var (
	cfgFile string
	envFile string
	verbose bool
	log     *logrus.Logger
	logFile *os.File
)

// ExitError carries a process exit status out of a command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// rootCmd is the base command for specrunner.
var rootCmd = &cobra.Command{
	Use:   "specrunner",
	Short: "Run hierarchical test specifications and report the results",
	Long: `specrunner registers nested describe/it suites from Markdown and YAML
documents, runs every case exactly once and prints a report of every case
that did not pass.

Everything is driven by a YAML configuration file (specrunner.yaml).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
		log = newLogger(verbose)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogFile()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "specrunner.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with SPECRUNNER_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Initialize default logger (overridden in PersistentPreRunE)
	log = newLogger(false)
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	// PersistentPostRunE is skipped when the command fails.
	_ = closeLogFile()
	return err
}

// ExitCode maps an Execute error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func newLogger(debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// loadConfig reads, overrides and validates the configuration, then applies
// its logging and color settings.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if !verbose && cfg.Logging.Level != "" {
		level, err := logrus.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid logging.level: %w", err)
		}
		log.SetLevel(level)
	}
	if cfg.Logging.File != "" {
		if err := closeLogFile(); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logFile = f
		log.SetOutput(f)
	}
	if !cfg.Report.Color {
		color.NoColor = true
	}

	log.Debugf("Loaded config: %+v", cfg)
	return cfg, nil
}

// closeLogFile closes the logging.file handle, if any, and sends log output
// back to stderr.
func closeLogFile() error {
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
