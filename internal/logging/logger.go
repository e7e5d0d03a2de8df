// Package logging builds the zerolog loggers used by the CLI and the TUI.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Mode selects where logs go.
type Mode string

const (
	// ModeCLI writes human-readable lines to stderr (stdout carries command output).
	ModeCLI Mode = "cli"
	// ModeTUI writes JSON lines to a rotating file; the terminal belongs to the UI.
	ModeTUI Mode = "tui"
)

type Options struct {
	Mode  Mode
	Level string
	// File is the log path in TUI mode. Empty disables logging there.
	File string
	// Out overrides the CLI writer (tests).
	Out io.Writer
}

// New returns a logger and a close function for the underlying file, if any.
func New(opts Options) (zerolog.Logger, func() error, error) {
	level := ParseLevel(opts.Level)
	nop := func() error { return nil }

	switch opts.Mode {
	case ModeTUI:
		if strings.TrimSpace(opts.File) == "" {
			return zerolog.Nop(), nop, nil
		}
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), nop, err
		}
		w := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		}
		log := zerolog.New(w).Level(level).With().Timestamp().Logger()
		return log, w.Close, nil
	default:
		out := opts.Out
		if out == nil {
			out = os.Stderr
		}
		cw := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "15:04:05",
			NoColor:    opts.Out != nil,
		}
		return zerolog.New(cw).Level(level).With().Timestamp().Logger(), nop, nil
	}
}

// ParseLevel maps a config string onto a zerolog level. Unknown or empty
// values mean info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
