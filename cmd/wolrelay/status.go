package main

import (
	"context"

	"github.com/fgeck/wolrelay/internal/services/probe"
	"github.com/spf13/cobra"
)

var statusPort int

var statusCmd = &cobra.Command{
	Use:   "status HOST",
	Short: "Classify a host as online, sleeping or offline",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusPort, "port", 22, "TCP port for the service probe")
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc := probe.New(logger, cfg.Probe)

	result, err := svc.Classify(context.Background(), args[0], statusPort)
	if err != nil {
		logger.Error().Err(err).Msg("status check failed")
		return err
	}

	logger.Info().
		Str("host", result.Host).
		Int("port", result.Port).
		Bool("ping", result.Ping).
		Bool("tcp", result.TCP).
		Str("status", string(result.Status)).
		Msg("host classified")
	return nil
}
