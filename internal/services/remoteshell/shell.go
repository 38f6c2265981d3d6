// Package remoteshell runs a single command on a remote host, either
// through an external ssh client or a native SSH connection.
package remoteshell

import (
	"context"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/rs/zerolog"
)

// Shell executes one command on a remote host and returns its combined
// output. A command that runs but exits non-zero is reported as a
// *models.CommandError carrying the attempted command line and exit
// code; any other error means the command could not be run at all.
type Shell interface {
	Run(ctx context.Context, host string, command string) (string, error)
}

// NewFromConfig returns the shell the configuration selects: native
// SSH when a key file is set, the external client otherwise.
func NewFromConfig(logger zerolog.Logger, cfg models.SSHConfig) Shell {
	if cfg.KeyFile != "" {
		return NewNativeShell(logger, cfg)
	}
	return NewExecShell(logger, cfg)
}
