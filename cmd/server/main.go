package main

import (
	"log/slog"
	"os"

	"quiz-backend/internal/app"
	"quiz-backend/internal/logger"
)

func main() {
	// Replaced once the config is loaded.
	slog.SetDefault(logger.New("pretty", "info", os.Stdout))

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
