// Package models contains the data structures used throughout wolrelay.
package models

import "time"

// RelayConfig holds the complete configuration for the relay.
type RelayConfig struct {
	Server    ServerConfig
	Broadcast BroadcastConfig
	SSH       SSHConfig
	Sleep     SleepCommands
	Probe     ProbeConfig
	Log       LogConfig
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	BindAddress string
	Port        int
}

// BroadcastConfig holds the Wake-on-LAN destination.
type BroadcastConfig struct {
	IP   string
	Port int
}

// SSHConfig holds remote-shell settings for the sleep path.
type SSHConfig struct {
	Binary    string        // external ssh client, used when KeyFile is empty
	ExtraArgs []string      // inserted before the host argument
	User      string        // native shell login user
	Port      int           // native shell port
	KeyFile   string        // private key path; non-empty selects the native shell
	Timeout   time.Duration // bound on a single remote command
}

// ProbeConfig holds the liveness prober timeouts.
type ProbeConfig struct {
	PingTimeout time.Duration
	TCPTimeout  time.Duration
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string
	JSON        bool
	File        string // empty disables the file sink
	MaxSizeMB   int
	BackupCount int
}
