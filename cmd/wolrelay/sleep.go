package main

import (
	"context"
	"errors"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/fgeck/wolrelay/internal/services/sleep"
	"github.com/spf13/cobra"
)

var (
	sleepOS      string
	sleepCommand string
)

var sleepCmd = &cobra.Command{
	Use:   "sleep HOST",
	Short: "Put a remote host to sleep over SSH",
	Args:  cobra.ExactArgs(1),
	RunE:  runSleep,
}

func init() {
	sleepCmd.Flags().StringVar(&sleepOS, "os", "", "OS family of the target (linux, windows, macos)")
	sleepCmd.Flags().StringVar(&sleepCommand, "command", "", "custom sleep command (overrides --os)")
}

func runSleep(cmd *cobra.Command, args []string) error {
	svc := sleep.New(logger, cfg.SSH, cfg.Sleep)

	result, err := svc.Sleep(context.Background(), args[0], sleepOS, sleepCommand)
	if err != nil {
		var cmdErr *models.CommandError
		if errors.As(err, &cmdErr) {
			logger.Error().
				Str("command", cmdErr.CommandLine()).
				Int("returncode", cmdErr.ExitCode).
				Str("output", cmdErr.Output).
				Msg("sleep command failed")
			return err
		}
		logger.Error().Err(err).Msg("sleep failed")
		return err
	}

	logger.Info().
		Str("host", result.Host).
		Str("command", result.Command).
		Msg("sleep command accepted")
	return nil
}
