/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave ledger server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Configure the slog logger
  3. Initialize the store (SQLite, or memory for demos)
  4. Create API handler with dependencies
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PORT, default: 8080)
  -db      SQLite database path (overrides DB_PATH, default: leave.db)
           Use ":memory:" for an in-memory SQLite database or "memory"
           for the plain in-memory store

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (SHUTDOWN_TIMEOUT)
  3. Close the store
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/leave.db"

  # Run with in-memory store and JSON logs
  LOG_FORMAT=json ./server -db=memory

  # Run on different port
  ./server -port=3000

ENVIRONMENT:
  See config/config.go for every key.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
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

	"github.com/warp/leave-ledger/api"
	"github.com/warp/leave-ledger/config"
	"github.com/warp/leave-ledger/store/memory"
	"github.com/warp/leave-ledger/store/sqlite"
	"github.com/warp/leave-ledger/timeoff"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flags
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path, or \"memory\"")
	flag.Parse()
	cfg.Port = *port
	cfg.DBPath = *dbPath
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Initialize store
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	holidays, err := api.NewHolidayCache(cfg.HolidayCacheSize, timeoff.DefaultCalendar)
	if err != nil {
		return err
	}

	// Initialize handler
	handler, err := api.NewHandler(store, api.HandlerOptions{
		LedgerConfig: cfg.LedgerConfig(),
		Rollover:     cfg.JanuaryRollover,
		Holidays:     holidays,
	})
	if err != nil {
		return err
	}

	// Create router
	router, err := api.NewRouter(handler, api.RouterOptions{
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr, "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts)), nil
}

func openStore(cfg *config.Config) (timeoff.Store, error) {
	if cfg.UseMemoryStore() {
		return memory.New(), nil
	}
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return store, nil
}
