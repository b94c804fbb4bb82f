package logging

import (
	"context"
	"log/slog"
	"os"
)

type LoggingService struct {
	Logger *slog.Logger
}

var DefaultLoggingService *LoggingService

// InitLogger initializes the global logger instance. An empty logDir logs to
// the console only.
func InitLogger(logDir string) {
	DefaultLoggingService = &LoggingService{
		Logger: SetupLogger(logDir),
	}
	slog.SetDefault(DefaultLoggingService.Logger)
}

// Package-level functions for direct access

func Info(msg string, args ...any) {
	logAt(slog.LevelInfo, msg, args...)
}

func Warn(msg string, args ...any) {
	logAt(slog.LevelWarn, msg, args...)
}

func Error(msg string, args ...any) {
	logAt(slog.LevelError, msg, args...)
}

func Debug(msg string, args ...any) {
	logAt(slog.LevelDebug, msg, args...)
}

func logAt(level slog.Level, msg string, args ...any) {
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		// Fallback to console logger if not initialized
		fallback := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		fallback.Log(context.Background(), level, msg, args...)
		return
	}
	DefaultLoggingService.Logger.Log(context.Background(), level, msg, args...)
}
