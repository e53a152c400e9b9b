package config_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fjglira/specrunner/internal/config"
)

var _ = Describe("Config", func() {
	Describe("Load", func() {
		It("should load minimal config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "minimal.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Input.Directories).To(ContainElement("specs"))
			Expect(cfg.Tags.CaseTags).To(ContainElement("spec"))
			Expect(cfg.Commands.Shell).To(Equal("/bin/sh"))
			Expect(cfg.IsRecursive()).To(BeTrue())
		})

		It("should load full config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).ToNot(BeNil())
			Expect(cfg.Input.Directories).To(HaveLen(3))
			Expect(cfg.Input.Include).To(ContainElement("**/*.spec.yaml"))
			Expect(cfg.Input.Exclude).To(ContainElement("vendor/**"))
			Expect(cfg.IsRecursive()).To(BeFalse())
			Expect(cfg.Input.Workers).To(Equal(4))
			Expect(cfg.Tags.CaseTags).To(ContainElements("spec", "shell-spec"))
			Expect(cfg.Tags.Attributes["skip"]).To(ContainElement("pending"))
			Expect(cfg.PlaintextPatterns.BlockStart).To(Equal(`^\s*<<<\s*(\S+)(?:\s+(.*))?$`))
			Expect(cfg.PlaintextPatterns.BlockEnd).To(Equal(`^\s*>>>\s*$`))
			Expect(cfg.Commands.DefaultTimeout).To(Equal("10s"))
			Expect(cfg.Commands.BlockedPatterns).To(ContainElement("rm -rf /"))
			Expect(cfg.Report.JSONFile).To(Equal("build/summary.json"))
			Expect(cfg.Report.Color).To(BeFalse())
			Expect(cfg.Report.Progress).To(BeTrue())
			Expect(cfg.Logging.Level).To(Equal("debug"))
		})

		It("should return error for nonexistent file", func() {
			_, err := config.Load("nonexistent.yaml")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("[config]"))
		})

		It("should return error for invalid YAML", func() {
			tmpFile := filepath.Join(GinkgoT().TempDir(), "invalid_specrunner.yaml")
			Expect(os.WriteFile(tmpFile, []byte("{{invalid yaml}}"), 0644)).To(Succeed())

			_, err := config.Load(tmpFile)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("LoadOrDefault", func() {
		It("should fall back to defaults when the file is missing", func() {
			cfg, err := config.LoadOrDefault(filepath.Join(GinkgoT().TempDir(), "specrunner.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).To(Equal(config.DefaultConfig()))
		})
	})

	Describe("DefaultConfig", func() {
		It("should return config with sensible defaults", func() {
			cfg := config.DefaultConfig()
			Expect(cfg.Input.Directories).To(ContainElement("specs"))
			Expect(cfg.Input.Include).To(ContainElements("**/*.md", "**/*.spec.yaml", "**/*.adoc"))
			Expect(cfg.PlaintextPatterns.BlockStart).ToNot(BeEmpty())
			Expect(*cfg.Input.Recursive).To(BeTrue())
			Expect(cfg.Tags.CaseTags).To(ContainElement("spec"))
			Expect(cfg.Tags.Attributes["case_name"]).To(Equal([]string{"it", "name"}))
			Expect(cfg.Commands.DefaultTimeout).To(Equal("30s"))
			Expect(cfg.Report.Color).To(BeTrue())
			Expect(cfg.Logging.Level).To(Equal("info"))
		})
	})

	Describe("Validate", func() {
		It("should pass for valid config", func() {
			cfg, err := config.Load(filepath.Join("..", "..", "testdata", "configs", "full.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(config.Validate(cfg)).To(Succeed())
		})

		It("should fail if directories are empty", func() {
			cfg := config.DefaultConfig()
			cfg.Input.Directories = nil
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("input.directories"))
		})

		It("should fail if case tags are empty", func() {
			cfg := config.DefaultConfig()
			cfg.Tags.CaseTags = nil
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("tags.case_tags")))
		})

		It("should reject malformed globs", func() {
			cfg := config.DefaultConfig()
			cfg.Input.Include = []string{"[unclosed"}
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring(`"[unclosed"`)))
		})

		It("should reject a bad timeout", func() {
			cfg := config.DefaultConfig()
			cfg.Commands.DefaultTimeout = "soon"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("commands.default_timeout")))
		})

		It("should reject negative workers", func() {
			cfg := config.DefaultConfig()
			cfg.Input.Workers = -1
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("input.workers")))
		})

		It("should reject plaintext markers that are not regexes", func() {
			cfg := config.DefaultConfig()
			cfg.PlaintextPatterns.BlockEnd = "(@end"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("plaintext_patterns.block_end")))
		})

		It("should require the plaintext start marker to capture the tag", func() {
			cfg := config.DefaultConfig()
			cfg.PlaintextPatterns.BlockStart = `^@begin$`
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("must capture the tag")))
		})

		It("should fail for invalid log level", func() {
			cfg := config.DefaultConfig()
			cfg.Logging.Level = "verbose"
			Expect(config.Validate(cfg)).To(MatchError(ContainSubstring("logging.level")))
		})

		It("should report every problem at once", func() {
			cfg := config.DefaultConfig()
			cfg.Input.Directories = nil
			cfg.Commands.Shell = ""
			err := config.Validate(cfg)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("input.directories must not be empty; commands.shell must not be empty"))
		})
	})

	Describe("Environment", func() {
		BeforeEach(func() {
			for _, key := range []string{config.EnvLogLevel, config.EnvReportJSON, config.EnvNoColor} {
				if old, ok := os.LookupEnv(key); ok {
					DeferCleanup(os.Setenv, key, old)
				} else {
					DeferCleanup(os.Unsetenv, key)
				}
				Expect(os.Unsetenv(key)).To(Succeed())
			}
		})

		It("should leave the config alone when nothing is set", func() {
			cfg := config.DefaultConfig()
			config.ApplyEnv(cfg)
			Expect(cfg).To(Equal(config.DefaultConfig()))
		})

		It("should apply overrides", func() {
			GinkgoT().Setenv(config.EnvLogLevel, "warn")
			GinkgoT().Setenv(config.EnvReportJSON, "out.json")
			GinkgoT().Setenv(config.EnvNoColor, "")

			cfg := config.DefaultConfig()
			config.ApplyEnv(cfg)
			Expect(cfg.Logging.Level).To(Equal("warn"))
			Expect(cfg.Report.JSONFile).To(Equal("out.json"))
			Expect(cfg.Report.Color).To(BeFalse())
		})

		It("should load variables from an env file", func() {
			envFile := filepath.Join(GinkgoT().TempDir(), ".env")
			Expect(os.WriteFile(envFile, []byte(config.EnvLogLevel+"=error\n"), 0644)).To(Succeed())

			Expect(config.LoadEnvFile(envFile)).To(Succeed())
			Expect(os.Getenv(config.EnvLogLevel)).To(Equal("error"))
		})

		It("should ignore a missing env file", func() {
			Expect(config.LoadEnvFile(filepath.Join(GinkgoT().TempDir(), ".env"))).To(Succeed())
		})
	})
})
