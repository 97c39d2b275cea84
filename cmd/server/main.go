// Package main is the entry point for the LuzPlay server.
//
// main only reads the configuration, builds the logger and starts the
// server. Everything else lives under internal/.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sakif/luzplay/internal/config"
	"github.com/sakif/luzplay/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// no logger level yet, so use the default one
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// LOG_LEVEL=info (or warn) in production; debug logs every
	// persistence fallback and session transition.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
