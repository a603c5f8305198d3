package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/habitsync/internal/config"
	"github.com/iudanet/habitsync/internal/logging"
	"github.com/iudanet/habitsync/internal/server/arbiter"
	"github.com/iudanet/habitsync/internal/server/handlers"
	"github.com/iudanet/habitsync/internal/server/middleware"
	"github.com/iudanet/habitsync/internal/server/notify"
	"github.com/iudanet/habitsync/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Parse flags
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", "", "Listen address (overrides HABITSYNC_ADDR)")
	dbPath := flag.String("db", "", "Path to SQLite database (overrides HABITSYNC_DB)")
	envFile := flag.String("env", ".env", "Path to optional .env file")
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	cfg, err := config.LoadServer(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid logging configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

// run поднимает хранилище, арбитра и HTTP сервер и ждет отмены ctx
func run(ctx context.Context, cfg *config.ServerConfig, logger *slog.Logger) error {
	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage", "error", err)
		}
	}()

	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()

	hub := notify.NewHub(logger, notify.Options{
		WriteWait:  cfg.WebSocket.WriteWait,
		PongWait:   cfg.WebSocket.PongWait,
		PingPeriod: cfg.WebSocket.PingPeriod,
		SendBuffer: cfg.WebSocket.SendBuffer,
	})
	go hub.Run(hubCtx)

	arb, err := arbiter.New(ctx, store, logger, arbiter.Options{
		Notifier:   hub,
		WindowDays: cfg.WindowDays,
	})
	if err != nil {
		return fmt.Errorf("failed to create arbiter: %w", err)
	}

	chain := []mux.MiddlewareFunc{
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger, "/api/health"),
	}
	if cfg.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(ctx, cfg.RateLimit, time.Minute, logger)
		chain = append(chain, limiter.Middleware)
	}

	router := handlers.Router{
		Sync:       handlers.NewSyncHandler(logger, arb),
		Health:     handlers.NewHealthHandler(logger, Version),
		Notify:     handlers.NewNotifyHandler(logger, hub),
		Middleware: chain,
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting habitsync server",
			"addr", cfg.Addr,
			"db", cfg.DBPath,
			"version", Version,
			"entry_window_days", cfg.WindowDays)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", "timeout", cfg.ShutdownTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown не ждет hijacked websocket соединения, их закрывает хаб
	cancelHub()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}

func printVersion() {
	fmt.Printf("Habitsync Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
