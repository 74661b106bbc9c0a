package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/apresai/podstudio/internal/mcpserver"
	"github.com/apresai/podstudio/internal/observability"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	logger := observability.InitLogger()

	logger.Info("Podstudio MCP Server starting...")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown, err := observability.InitTracer(ctx, "podstudio-mcp", mcpserver.Version, os.Getenv("ENVIRONMENT"))
	if err != nil {
		logger.Warn("Failed to init tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("Tracer shutdown error", "error", err)
			}
		}()
	}

	shutdownMeter, err := observability.InitMeter(ctx, "podstudio-mcp", mcpserver.Version, os.Getenv("ENVIRONMENT"))
	if err != nil {
		logger.Warn("Failed to init meter, continuing without metrics", "error", err)
	} else {
		defer func() {
			if err := shutdownMeter(context.Background()); err != nil {
				logger.Error("Meter shutdown error", "error", err)
			}
		}()
	}

	cfg := mcpserver.DefaultConfig()

	srv, err := mcpserver.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}
	logger.Info("Shutdown complete")
}
