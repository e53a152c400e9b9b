package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fjglira/specrunner/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	// Input validation
	if len(cfg.Input.Directories) == 0 {
		errs = append(errs, "input.directories must not be empty")
	}
	if len(cfg.Input.Include) == 0 {
		errs = append(errs, "input.include must not be empty")
	}
	for _, p := range append(append([]string{}, cfg.Input.Include...), cfg.Input.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Sprintf("input pattern %q is not a valid glob", p))
		}
	}

	if cfg.Input.Workers < 0 {
		errs = append(errs, "input.workers must not be negative")
	}

	// Tags validation
	if len(cfg.Tags.CaseTags) == 0 {
		errs = append(errs, "tags.case_tags must not be empty")
	}

	// Plaintext markers must be valid regexes, the start one capturing the tag
	if re, err := regexp.Compile(cfg.PlaintextPatterns.BlockStart); err != nil {
		errs = append(errs, fmt.Sprintf("plaintext_patterns.block_start is not a valid regex: %v", err))
	} else if re.NumSubexp() < 1 {
		errs = append(errs, "plaintext_patterns.block_start must capture the tag")
	}
	if _, err := regexp.Compile(cfg.PlaintextPatterns.BlockEnd); err != nil {
		errs = append(errs, fmt.Sprintf("plaintext_patterns.block_end is not a valid regex: %v", err))
	}

	// Commands validation
	if cfg.Commands.Shell == "" {
		errs = append(errs, "commands.shell must not be empty")
	}
	if cfg.Commands.DefaultTimeout != "" {
		if _, err := time.ParseDuration(cfg.Commands.DefaultTimeout); err != nil {
			errs = append(errs, fmt.Sprintf("commands.default_timeout is not a valid duration: %v", err))
		}
	}

	// Validate logging level
	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError("config", "", 0, fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}
