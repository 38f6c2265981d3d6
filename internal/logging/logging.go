// Package logging constructs the zerolog logger used across wolrelay.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/fgeck/wolrelay/internal/models"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a logger from the given configuration. The logger is
// passed into each component explicitly; nothing in wolrelay reads the
// zerolog global.
func New(cfg models.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	var console io.Writer
	if cfg.JSON {
		console = os.Stdout
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		output.FormatLevel = func(i interface{}) string {
			if s, ok := i.(string); ok {
				return strings.ToUpper(s)
			}
			return ""
		}
		console = output
	}

	writer := console
	if cfg.File != "" {
		fileSink := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.BackupCount,
		}
		writer = zerolog.MultiLevelWriter(console, fileSink)
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}
