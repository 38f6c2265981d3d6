package main

import (
	"github.com/fgeck/wolrelay/internal/config"
	"github.com/fgeck/wolrelay/internal/logging"
	"github.com/fgeck/wolrelay/internal/models"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Logging flags.
	verbose    bool
	quiet      bool
	jsonOutput bool

	cfg    *models.RelayConfig
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "wolrelay",
	Short: "A Wake-on-LAN relay for homelab machines",
	Long: `wolrelay wakes machines with Wake-on-LAN magic packets, puts them to
sleep over a remote shell and classifies their power state with a
two-tier liveness probe.

Run 'wolrelay serve' for the HTTP API, or use the wake/sleep/status
subcommands directly. Configuration comes from WOL_* environment
variables.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := config.NewParser().Load()
		if err != nil {
			return err
		}
		cfg = parsed

		switch {
		case quiet:
			cfg.Log.Level = "error"
		case verbose:
			cfg.Log.Level = "debug"
		}
		if jsonOutput {
			cfg.Log.JSON = true
		}

		logger, err = logging.New(cfg.Log)
		return err
	},
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode (errors only)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output logs in JSON format")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(wakeCmd)
	rootCmd.AddCommand(sleepCmd)
	rootCmd.AddCommand(statusCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
