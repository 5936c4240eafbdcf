package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/statbridge/statbridge/internal/backend"
	"github.com/statbridge/statbridge/internal/config"
	"github.com/statbridge/statbridge/internal/directory"
	"github.com/statbridge/statbridge/internal/dispatch"
	"github.com/statbridge/statbridge/internal/handlers"
	"github.com/statbridge/statbridge/internal/mcp"
	"github.com/statbridge/statbridge/internal/pipeline"
	"github.com/statbridge/statbridge/internal/policy"
	"github.com/statbridge/statbridge/internal/telemetry"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	os.Exit(run0())
}

func run0() int {
	level := slog.LevelInfo
	if os.Getenv("STATBRIDGE_LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	// Logs go to stderr: stdout belongs to the MCP stdio transport.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger); err != nil {
		slog.Error("fatal error", "error", err)
		return 1
	}
	return 0
}

func run(ctx context.Context, logger *slog.Logger) error {
	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger.Info("statbridge starting",
		"version", version,
		"server_url", cfg.ServerURL,
		"transport", cfg.Transport,
	)

	// Initialize OpenTelemetry.
	otelShutdown, err := telemetry.Init(ctx, cfg.OTELEndpoint, cfg.ServiceName, version, cfg.OTELInsecure)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	// Shared base client. Carries the session-level credential, if any;
	// per-invocation credentials are bound as immutable derived clients.
	base, err := backend.New(backend.Config{
		BaseURL: cfg.ServerURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	apps := directory.NewAppCache(cfg.AppCacheTTL)
	plugins := directory.NewPluginCache(cfg.PluginCacheTTL)

	// Permission config is built once here and never reloaded.
	perms := policy.NewPermissionConfig(cfg.DefaultPermissions, cfg.CategoryPermissions)
	for name, ops := range perms {
		logger.Debug("category permissions", "category", name, "ops", ops.String())
	}

	table := dispatch.New(&handlers.Deps{Apps: apps, Logger: logger}, perms, logger)
	pipe := pipeline.New(base, table, plugins, logger)
	srv := mcp.New(pipe, perms, logger, version)

	switch cfg.Transport {
	case "stdio":
		// ServeStdio returns when stdin closes or the context is cancelled.
		errCh := make(chan error, 1)
		go func() { errCh <- srv.ServeStdio() }()
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		}

	case "http":
		httpSrv := srv.NewHTTPServer()
		errCh := make(chan error, 1)
		go func() {
			if err := httpSrv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		logger.Info("http transport listening", "port", cfg.Port)

		select {
		case <-ctx.Done():
		case err := <-errCh:
			return err
		}

		logger.Info("statbridge shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpSrv.Shutdown(shutdownCtx)
	}

	return nil
}
