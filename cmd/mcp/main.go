package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/vkuznetsov/askdata/internal/adapters/mcp"
	"github.com/vkuznetsov/askdata/internal/bootstrap"
	"github.com/vkuznetsov/askdata/internal/config"
	"github.com/vkuznetsov/askdata/internal/observability/logging"
)

// The MCP binary speaks the protocol over stdio, so the JSON log stream
// must go to stderr instead of stdout.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := logging.NewJSONLoggerTo(os.Stderr, "askdata-mcp", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close(ctx)

	server := mcpadapter.NewServer(app.Query, app.Documents, app.History)
	logger.Info("mcp server starting on stdio")
	if err := server.ServeStdio(); err != nil {
		logger.Error("mcp server failed", "error", err)
		os.Exit(1)
	}
}
