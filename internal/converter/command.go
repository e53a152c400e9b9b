package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/fjglira/specrunner/internal/assert"
	"github.com/fjglira/specrunner/internal/config"
	"github.com/fjglira/specrunner/internal/domain"
	"github.com/fjglira/specrunner/internal/registry"
)

// CommandBody builds the body of a document case: run the command, then
// assert on its exit status and output. Failures are reported at the case's
// line in the suite document. echo, if non-nil, receives the command output.
func CommandBody(spec domain.CaseSpec, cmdCfg *config.CommandConfig, echo io.Writer) registry.Body {
	return func(t *assert.T) {
		t.At(spec.Location)

		ctx := context.Background()
		timeout := parseTimeout(spec.Timeout)
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		cmd, err := buildCommand(ctx, spec.Command, cmdCfg)
		if err != nil {
			panic(domain.NewError("run", spec.Location.File, spec.Location.Line, err.Error(), nil))
		}
		output, err := cmd.CombinedOutput()
		if echo != nil && len(output) > 0 {
			_, _ = echo.Write(output)
		}

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			t.Fail(fmt.Sprintf("command %q timed out after %s", spec.Command, timeout))
		}

		exitCode := 0
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				panic(domain.NewError("run", spec.Location.File, spec.Location.Line,
					fmt.Sprintf("failed to start %q", spec.Command), err))
			}
			exitCode = exitErr.ExitCode()
		}
		t.Equal(spec.ExpectedExit, exitCode, "exit status of %q, output:\n%s", spec.Command, output)
		if spec.ExpectOutput != "" {
			t.Contains(string(output), spec.ExpectOutput)
		}
	}
}

// waitDelay bounds how long a cancelled command may hold its output pipes.
const waitDelay = 500 * time.Millisecond

// buildCommand joins multi-line scripts with && and runs anything that
// needs shell features through the configured shell. Cancelling ctx kills
// the whole process group.
func buildCommand(ctx context.Context, command string, cmdCfg *config.CommandConfig) (*exec.Cmd, error) {
	command = strings.TrimSpace(command)
	lines := strings.Split(command, "\n")
	if len(lines) > 1 {
		var trimmed []string
		for _, l := range lines {
			if l = strings.TrimSpace(l); l != "" {
				trimmed = append(trimmed, l)
			}
		}
		command = strings.Join(trimmed, " && ")
	}

	var cmd *exec.Cmd
	if isComplexCommand(command) {
		cmd = exec.CommandContext(ctx, cmdCfg.Shell, cmdCfg.ShellFlag, command)
	} else {
		parts := shellSplit(command)
		if len(parts) == 0 {
			return nil, fmt.Errorf("empty command %q", command)
		}
		cmd = exec.CommandContext(ctx, parts[0], parts[1:]...)
	}
	cmd.WaitDelay = waitDelay
	setProcessGroup(cmd)
	return cmd, nil
}

func parseTimeout(s string) time.Duration {
	if s == "" || s == "0" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}

// shellChars are the characters that need a shell to mean anything.
const shellChars = "|&;<>$`*~"

// isComplexCommand reports whether cmd needs the configured shell.
func isComplexCommand(cmd string) bool {
	return strings.ContainsAny(cmd, shellChars)
}

// shellSplit splits a command string into arguments, respecting quotes.
func shellSplit(s string) []string {
	var parts []string
	var current strings.Builder
	var quote byte

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				current.WriteByte(c)
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ' ' || c == '\t':
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteByte(c)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
