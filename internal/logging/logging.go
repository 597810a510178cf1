// Package logging builds the zerolog logger shared by every command.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/patientdesk/patientdesk/internal/config"
)

// New returns a logger writing to w at cfg.LogLevel. Development gets the
// human-readable console writer, anything else JSON lines.
func New(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	out := w
	if cfg.IsDev() {
		out = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Output resolves where logs go. LOG_FILE wins when set; otherwise quiet
// commands (the full-screen TUI) discard and the rest use stderr. The returned
// closer must be called on exit.
func Output(cfg *config.Config, quiet bool) (io.Writer, func() error, error) {
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, f.Close, nil
	}
	if quiet {
		return io.Discard, func() error { return nil }, nil
	}
	return os.Stderr, func() error { return nil }, nil
}
