package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/wolrelay/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP relay server",
	Long: `Run the HTTP relay server. Endpoints:
  GET  /healthz       health check
  POST /wake          send a magic packet ({"mac": "..."})
  POST /sleep         suspend a remote host ({"host": "...", "os"?, "command"?})
  GET  /api/status    classify a host (query: ip, port)
  POST /api/control   combined wake/sleep endpoint
  GET  /metrics       prometheus metrics`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Info().
		Str("bind", cfg.Server.BindAddress).
		Int("port", cfg.Server.Port).
		Str("broadcast", cfg.Broadcast.IP).
		Msg("configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	if err := server.New(logger, cfg).Run(ctx); err != nil {
		logger.Error().Err(err).Msg("relay server failed")
		return err
	}

	logger.Info().Msg("relay server stopped")
	return nil
}
