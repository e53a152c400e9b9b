package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/fjglira/specrunner/internal/domain"
)

// Environment variables that override the file configuration.
const (
	EnvLogLevel   = "SPECRUNNER_LOG_LEVEL"
	EnvReportJSON = "SPECRUNNER_REPORT_JSON"
	EnvNoColor    = "SPECRUNNER_NO_COLOR"
)

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return domain.NewError("config", path, 0, "failed to load env file", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any SPECRUNNER_* variables that are set.
func ApplyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.Logging.Level = v
	}
	if v, ok := os.LookupEnv(EnvReportJSON); ok && v != "" {
		cfg.Report.JSONFile = v
	}
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Report.Color = false
	}
}
