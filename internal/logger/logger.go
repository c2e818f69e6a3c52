package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/config"
)

// New builds the process logger and installs it as the slog default.
func New(cfg *config.Config) *slog.Logger {
	logger := NewWithWriter(cfg, os.Stdout)
	slog.SetDefault(logger)
	return logger
}

// NewWithWriter builds a logger writing to w: JSON in production, text elsewhere.
func NewWithWriter(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.AppEnv) == "production" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With("service", "blog-api")
}
