package main

import (
	"context"

	"github.com/fgeck/wolrelay/internal/services/wake"
	"github.com/spf13/cobra"
)

var wakeCmd = &cobra.Command{
	Use:   "wake MAC",
	Short: "Send a Wake-on-LAN magic packet",
	Args:  cobra.ExactArgs(1),
	RunE:  runWake,
}

func runWake(cmd *cobra.Command, args []string) error {
	svc := wake.New(logger, cfg.Broadcast)

	result, err := svc.Wake(context.Background(), args[0])
	if err != nil {
		logger.Error().Err(err).Msg("wake failed")
		return err
	}

	logger.Info().
		Str("mac", result.MAC).
		Str("destination", result.Destination).
		Msg("magic packet sent")
	return nil
}
