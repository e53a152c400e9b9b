package config

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	recursive := true
	return &Config{
		Input: InputConfig{
			Directories: []string{"specs"},
			Include:     []string{"**/*.md", "**/*.spec.yaml", "**/*.adoc"},
			Exclude:     []string{"vendor/**", "node_modules/**"},
			Recursive:   &recursive,
		},
		Tags: TagConfig{
			CaseTags: []string{"spec"},
			Attributes: map[string][]string{
				"case_name":          {"it", "name"},
				"timeout":            {"timeout"},
				"expected_exit_code": {"expected", "exit-code"},
				"expect_output":      {"output", "expect-output"},
				"skip":               {"skip"},
			},
		},
		PlaintextPatterns: PlaintextPatternsConfig{
			BlockStart: `^\s*@begin\((\S+)(?:\s+(.*))?\)\s*$`,
			BlockEnd:   `^\s*@end\s*$`,
		},
		Commands: CommandConfig{
			DefaultTimeout:          "30s",
			DefaultExpectedExitCode: 0,
			BlockedPatterns: []string{
				"rm -rf /",
				"mkfs",
				"dd if=",
				"format c:",
				"> /dev/sd",
			},
			Shell:     "/bin/sh",
			ShellFlag: "-c",
		},
		Report: ReportConfig{
			Color: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
