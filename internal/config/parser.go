// Package config provides environment-driven configuration parsing.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Default sleep commands per OS family. Overridable via WOL_SLEEP_CMD_*.
const (
	defaultSleepCmdLinux   = "systemctl suspend"
	defaultSleepCmdWindows = `powershell.exe -Command "Start-Sleep -Seconds 1; Add-Type -AssemblyName System.Windows.Forms; ` +
		`[System.Windows.Forms.Application]::SetSuspendState('Suspend', $false, $false)"`
	defaultSleepCmdDarwin = "pmset sleepnow"
)

// Parser reads relay configuration from WOL_* environment variables.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser bound to the process
// environment.
func NewParser() *Parser {
	v := viper.New()
	v.SetEnvPrefix("wol")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("relay.port", 5000)
	v.SetDefault("relay.bind", "0.0.0.0")
	v.SetDefault("broadcast.ip", "255.255.255.255")
	v.SetDefault("broadcast.port", 9)
	v.SetDefault("ssh.bin", "ssh")
	v.SetDefault("ssh.extra.args", "")
	v.SetDefault("ssh.user", "root")
	v.SetDefault("ssh.port", 22)
	v.SetDefault("ssh.key.file", "")
	v.SetDefault("ssh.timeout", 30*time.Second)
	v.SetDefault("sleep.cmd.linux", defaultSleepCmdLinux)
	v.SetDefault("sleep.cmd.windows", defaultSleepCmdWindows)
	v.SetDefault("sleep.cmd.macos", defaultSleepCmdDarwin)
	v.SetDefault("ping.timeout", time.Second)
	v.SetDefault("tcp.timeout", 2*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max.size.mb", 1)
	v.SetDefault("log.backup.count", 5)

	return &Parser{v: v}
}

// Load reads, validates and returns the relay configuration.
func (p *Parser) Load() (*models.RelayConfig, error) {
	cfg := &models.RelayConfig{
		Server: models.ServerConfig{
			BindAddress: p.v.GetString("relay.bind"),
			Port:        p.v.GetInt("relay.port"),
		},
		Broadcast: models.BroadcastConfig{
			IP:   p.v.GetString("broadcast.ip"),
			Port: p.v.GetInt("broadcast.port"),
		},
		SSH: models.SSHConfig{
			Binary:    p.v.GetString("ssh.bin"),
			ExtraArgs: strings.Fields(p.v.GetString("ssh.extra.args")),
			User:      p.v.GetString("ssh.user"),
			Port:      p.v.GetInt("ssh.port"),
			KeyFile:   p.v.GetString("ssh.key.file"),
			Timeout:   p.v.GetDuration("ssh.timeout"),
		},
		Sleep: models.SleepCommands{
			Linux:   p.v.GetString("sleep.cmd.linux"),
			Windows: p.v.GetString("sleep.cmd.windows"),
			Darwin:  p.v.GetString("sleep.cmd.macos"),
		},
		Probe: models.ProbeConfig{
			PingTimeout: p.v.GetDuration("ping.timeout"),
			TCPTimeout:  p.v.GetDuration("tcp.timeout"),
		},
		Log: models.LogConfig{
			Level:       p.v.GetString("log.level"),
			JSON:        p.v.GetBool("log.json"),
			File:        p.v.GetString("log.file"),
			MaxSizeMB:   p.v.GetInt("log.max.size.mb"),
			BackupCount: p.v.GetInt("log.backup.count"),
		},
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate performs validation on the loaded configuration.
func Validate(cfg *models.RelayConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	if err := validatePort("WOL_RELAY_PORT", cfg.Server.Port); err != nil {
		return err
	}
	if err := validatePort("WOL_BROADCAST_PORT", cfg.Broadcast.Port); err != nil {
		return err
	}
	if err := validatePort("WOL_SSH_PORT", cfg.SSH.Port); err != nil {
		return err
	}

	if cfg.SSH.Binary == "" && cfg.SSH.KeyFile == "" {
		return fmt.Errorf("WOL_SSH_BIN is required when WOL_SSH_KEY_FILE is not set")
	}

	if cfg.SSH.Timeout <= 0 {
		return fmt.Errorf("WOL_SSH_TIMEOUT must be positive")
	}
	if cfg.Probe.PingTimeout <= 0 {
		return fmt.Errorf("WOL_PING_TIMEOUT must be positive")
	}
	if cfg.Probe.TCPTimeout <= 0 {
		return fmt.Errorf("WOL_TCP_TIMEOUT must be positive")
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("WOL_LOG_LEVEL: %w", err)
	}

	return nil
}

func validatePort(name string, port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be in range 1-65535, got %d", name, port)
	}
	return nil
}
