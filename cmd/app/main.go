package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alert_relay/internal/app"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	configPath := os.Getenv("RELAY_CONFIG")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer bootstrap.Close()

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start the relay server
	errCh := make(chan error, 1)
	go func() {
		errCh <- bootstrap.Server.Start(ctx)
	}()

	slog.InfoContext(ctx, "✨ Alert relay fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal or listener failure
	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "👋 Shutting down gracefully...")
	case err := <-errCh:
		if err != nil {
			slog.Error("❌ Server failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := bootstrap.Server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown error", slog.Any("error", err))
	}
}
