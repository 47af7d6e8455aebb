package jj

import (
	"fmt"
	"strings"
)

// CommandError is returned when a jj invocation fails to launch or exits
// non-zero. It carries the command arguments and stderr so callers can
// surface the failing invocation verbatim.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("jj %s failed: %s", strings.Join(e.Args, " "), e.Stderr)
	}
	return fmt.Sprintf("jj %s failed: %v", strings.Join(e.Args, " "), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
