// Package isolate runs a whole registration-to-report sequence in a child
// process, so a case that crashes the process cannot take the caller with it.
package isolate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/fjglira/specrunner/internal/domain"
)

// Result is what the parent observes of the child.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Succeeded reports a zero exit status.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Run starts name with args, adding env to the current environment, and
// waits for it. A non-zero exit is part of the Result, not an error.
func Run(ctx context.Context, name string, args []string, env []string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, domain.NewError("isolate", name, 0, "failed to run child process", err)
}

// Self re-executes the current binary with args.
func Self(ctx context.Context, args []string, env []string) (Result, error) {
	exe, err := os.Executable()
	if err != nil {
		return Result{}, domain.NewError("isolate", "", 0, "cannot locate own executable", err)
	}
	return Run(ctx, exe, args, env)
}
