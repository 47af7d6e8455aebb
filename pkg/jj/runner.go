package jj

import (
	"context"
	"os/exec"
	"strings"
)

// Runner executes jj commands. Abstracted for testing.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// ExecRunner runs jj commands via os/exec.
type ExecRunner struct{}

// Run executes jj with the given arguments and returns stdout.
// The pager is always disabled to avoid blocking on interactive output.
func (ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"--config", "ui.paginate=never"}, args...)

	cmd := exec.CommandContext(ctx, "jj", full...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &CommandError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	return stdout.String(), nil
}
