package remoteshell

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/rs/zerolog"
)

// CommandRunner allows mocking exec.Command in tests. It returns the
// combined output, the child's exit code (0 on success) and an error
// only when the command could not be started or waited on.
type CommandRunner interface {
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, int, error)
}

// DefaultRunner is the default command runner using os/exec.
type DefaultRunner struct{}

// CombinedOutput runs the child process and waits for completion.
func (r *DefaultRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return output, exitErr.ExitCode(), nil
		}
		return output, -1, fmt.Errorf("running %s: %w", name, err)
	}

	return output, 0, nil
}

// ExecShell runs remote commands by executing an external ssh client
// with the argument vector [binary, extraArgs..., host, command].
type ExecShell struct {
	binary    string
	extraArgs []string
	runner    CommandRunner
	logger    zerolog.Logger
}

// NewExecShell creates a shell backed by an external ssh client.
func NewExecShell(logger zerolog.Logger, cfg models.SSHConfig) *ExecShell {
	return &ExecShell{
		binary:    cfg.Binary,
		extraArgs: cfg.ExtraArgs,
		runner:    &DefaultRunner{},
		logger:    logger,
	}
}

// NewExecShellWithRunner creates an ExecShell with a custom runner (for testing).
func NewExecShellWithRunner(logger zerolog.Logger, cfg models.SSHConfig, runner CommandRunner) *ExecShell {
	shell := NewExecShell(logger, cfg)
	shell.runner = runner
	return shell
}

// Run executes command on host through the external client. One child
// process per call; it has exited before Run returns.
func (s *ExecShell) Run(ctx context.Context, host, command string) (string, error) {
	argv := s.buildArgs(host, command)

	s.logger.Debug().Strs("argv", argv).Msg("executing remote command")

	output, exitCode, err := s.runner.CombinedOutput(ctx, argv[0], argv[1:]...)
	if err != nil {
		return string(output), err
	}
	// A child killed by the deadline is a timeout, not a remote failure.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return string(output), ctxErr
	}
	if exitCode != 0 {
		return string(output), &models.CommandError{
			Command:  argv,
			ExitCode: exitCode,
			Output:   string(output),
		}
	}

	return string(output), nil
}

func (s *ExecShell) buildArgs(host, command string) []string {
	argv := make([]string, 0, len(s.extraArgs)+3)
	argv = append(argv, s.binary)
	argv = append(argv, s.extraArgs...)
	argv = append(argv, host, command)
	return argv
}
