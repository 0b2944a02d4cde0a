package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external program and captures its stdout. The
// orchestrator depends on this interface rather than os/exec directly
// so tests can count and fake executions.
type Runner interface {
	Run(ctx context.Context, program string, args []string) (string, error)
}

// execRunner runs programs with os/exec, synchronously.
type execRunner struct{}

// NewExecRunner returns the default process-spawning Runner.
func NewExecRunner() Runner {
	return execRunner{}
}

// Run executes program with args and returns its stdout. A spawn
// failure or non-zero exit is terminal: the error carries the exit code
// and the captured stderr text.
func (execRunner) Run(ctx context.Context, program string, args []string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("command failed with exit code %d: %s",
				exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("failed to execute command: %w", err)
	}

	return stdout.String(), nil
}
