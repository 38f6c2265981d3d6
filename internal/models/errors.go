package models

import (
	"fmt"
	"strings"
)

// ValidationError reports bad or missing caller input. It is detected
// before any socket is opened or process spawned and is never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError creates a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// CommandError reports a remote command that ran but exited non-zero.
// It carries the attempted command line and exit code so callers can
// surface the failure verbatim.
type CommandError struct {
	Command  []string
	ExitCode int
	Output   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q exited with code %d", e.CommandLine(), e.ExitCode)
}

// CommandLine returns the attempted command as a single string.
func (e *CommandError) CommandLine() string {
	return strings.Join(e.Command, " ")
}
