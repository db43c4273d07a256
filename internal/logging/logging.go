// Package logging builds the process-wide slog.Logger of hcp from its
// configuration.
package logging

import (
	"io"
	"log/slog"

	"github.com/coreos/go-systemd/v22/journal"

	"github.com/hcptools/hcp/internal/conf"
)

// New returns a logger writing to w in the format and at the level that
// config asks for. When config.Journal is set and the systemd journal is
// reachable, records are also sent to the journal.
func New(w io.Writer, config conf.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: config.LogLevel}

	var handler slog.Handler
	if config.LogFormat == conf.FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	if config.Journal && journal.Enabled() {
		handler = newTeeHandler(handler, newJournalHandler(config.LogLevel, journal.Send))
	}
	return slog.New(handler)
}

// Setup builds the logger with New and installs it as slog.Default.
func Setup(w io.Writer, config conf.Config) *slog.Logger {
	logger := New(w, config)
	slog.SetDefault(logger)
	return logger
}
