package main

import (
	"log/slog"
	"os"

	"school-admin/internal/app"
	"school-admin/internal/logger"
)

func main() {
	// Level and color come from the environment before config is loaded so
	// config errors are logged the same way.
	level := slog.LevelInfo
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		_ = level.UnmarshalText([]byte(raw))
	}
	logger.Install(os.Stdout, level, os.Getenv("NO_COLOR") != "")

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
