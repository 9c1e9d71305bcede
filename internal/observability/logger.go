package observability

import (
	"log/slog"
	"os"
)

func NewLogger(env, service string) *slog.Logger {
	var logger *slog.Logger
	if env == "prod" || env == "production" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return logger.With("service", service)
}
