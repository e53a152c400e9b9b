package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fjglira/specrunner/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	Input             InputConfig             `yaml:"input"`
	Tags              TagConfig               `yaml:"tags"`
	PlaintextPatterns PlaintextPatternsConfig `yaml:"plaintext_patterns"`
	Commands          CommandConfig           `yaml:"commands"`
	Report            ReportConfig            `yaml:"report"`
	Logging           LoggingConfig           `yaml:"logging"`
}

type InputConfig struct {
	Directories []string `yaml:"directories"`
	Include     []string `yaml:"include"`
	Exclude     []string `yaml:"exclude"`
	Recursive   *bool    `yaml:"recursive"` // pointer to distinguish unset from false
	Workers     int      `yaml:"workers"`   // parse concurrency, 0 means GOMAXPROCS
}

type TagConfig struct {
	CaseTags   []string            `yaml:"case_tags"`
	Attributes map[string][]string `yaml:"attributes"`
}

// PlaintextPatternsConfig holds the block markers of plaintext suites.
// BlockStart captures the tag and, optionally, the attributes.
type PlaintextPatternsConfig struct {
	BlockStart string `yaml:"block_start"`
	BlockEnd   string `yaml:"block_end"`
}

type CommandConfig struct {
	DefaultTimeout          string   `yaml:"default_timeout"`
	DefaultExpectedExitCode int      `yaml:"default_expected_exit_code"`
	BlockedPatterns         []string `yaml:"blocked_patterns"`
	Shell                   string   `yaml:"shell"`
	ShellFlag               string   `yaml:"shell_flag"`
}

type ReportConfig struct {
	JSONFile string `yaml:"json_file"`
	Color    bool   `yaml:"color"`
	Progress bool   `yaml:"progress"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to DefaultConfig when the
// file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return Load(path)
}

// IsRecursive resolves the recursive flag, defaulting to true.
func (c *Config) IsRecursive() bool {
	if c.Input.Recursive == nil {
		return true
	}
	return *c.Input.Recursive
}
