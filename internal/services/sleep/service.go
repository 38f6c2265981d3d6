// Package sleep resolves and executes remote suspend commands.
package sleep

import (
	"context"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/fgeck/wolrelay/internal/services/remoteshell"
	"github.com/rs/zerolog"
)

// Service defines the interface for putting a remote host to sleep.
type Service interface {
	Sleep(ctx context.Context, host, osFamily, override string) (*models.SleepResult, error)
}

// Impl implements the sleep Service interface.
type Impl struct {
	shell    remoteshell.Shell
	commands models.SleepCommands
	ssh      models.SSHConfig
	logger   zerolog.Logger
}

// New creates a new sleep service using the shell the configuration selects.
func New(logger zerolog.Logger, cfg models.SSHConfig, commands models.SleepCommands) *Impl {
	return NewWithShell(logger, cfg, commands, remoteshell.NewFromConfig(logger, cfg))
}

// NewWithShell creates a new sleep service with a custom shell (for testing).
func NewWithShell(logger zerolog.Logger, cfg models.SSHConfig, commands models.SleepCommands, shell remoteshell.Shell) *Impl {
	return &Impl{
		shell:    shell,
		commands: commands,
		ssh:      cfg,
		logger:   logger,
	}
}

// Resolve picks the command to run: a non-empty override wins verbatim,
// otherwise the OS family selects from the configured table. An
// unrecognized family without an override fails; there is no default.
func (s *Impl) Resolve(osFamily, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	family, ok := models.ParseOSFamily(osFamily)
	if !ok {
		return "", models.NewValidationError("unknown OS type %q and no custom command provided", osFamily)
	}

	command, ok := s.commands.For(family)
	if !ok {
		return "", models.NewValidationError("no sleep command configured for OS family %q", family)
	}
	return command, nil
}

// Sleep resolves the suspend command for host and runs it through the
// remote shell. A zero exit status means the command was accepted by
// the remote, not that the host is asleep. Execution is bounded by the
// configured SSH timeout.
func (s *Impl) Sleep(ctx context.Context, host, osFamily, override string) (*models.SleepResult, error) {
	if host == "" {
		return nil, models.NewValidationError("host is required")
	}

	command, err := s.Resolve(osFamily, override)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("host", host).
		Str("os", osFamily).
		Str("command", command).
		Msg("executing sleep command")

	runCtx := ctx
	if s.ssh.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.ssh.Timeout)
		defer cancel()
	}

	output, err := s.shell.Run(runCtx, host, command)
	result := &models.SleepResult{Host: host, Command: command, Output: output}
	if err != nil {
		return result, err
	}

	s.logger.Info().Str("host", host).Msg("sleep command accepted")

	return result, nil
}
