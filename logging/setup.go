// Package logging configures slog for the medassist API: a text handler for
// the console, a JSON handler for the daily log file, and a request logging
// middleware for the HTTP layer.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// SetupLogger configures slog to log to the console and, when logDir is
// non-empty, to a daily JSON log file as well. File setup failures degrade
// to console-only logging rather than aborting startup.
func SetupLogger(logDir string) *slog.Logger {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if logDir == "" {
		return slog.New(consoleHandler)
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to create logs directory", "error", err)
		return logger
	}

	fileName := fmt.Sprintf("medassist-%s.log", time.Now().Format("2006-01-02"))
	logPath := filepath.Join(logDir, fileName)
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to open log file", "path", logPath, "error", err)
		return logger
	}

	// Console gets text format, file gets JSON format for better parsing
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return slog.New(&multiHandler{
		handlers: []slog.Handler{consoleHandler, fileHandler},
	})
}

// multiHandler implements slog.Handler to write to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}
