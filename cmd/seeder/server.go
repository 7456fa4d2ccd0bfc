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

	"github.com/spf13/cobra"

	"arc-framework/seeder/internal/orchestrator"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Seeder HTTP API server",
	Long: `Start the Seeder HTTP server on the configured port (default :8082).

When seeding.on_startup is set (the default) a bootstrap run, including
database seeding, starts in the background as soon as the server is up.
The server shuts down cleanly on SIGTERM or SIGINT.`,
	RunE: runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      app.router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("seeder server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	if cfg.Seeding.OnStartup {
		// Deferred so the run has returned before PersistentPostRunE closes
		// the database.
		stopBootstrap := startBootstrap(ctx, app.orchestrator, cfg.Seeding.Timeout)
		defer stopBootstrap()
	}

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped cleanly")
	return nil
}

type bootstrapRunner interface {
	RunBootstrap(ctx context.Context) (*orchestrator.BootstrapResult, error)
}

// startBootstrap runs the initial bootstrap in the background, bounded by
// timeout when it is positive. The returned stop cancels the run and blocks
// until it has returned.
func startBootstrap(ctx context.Context, r bootstrapRunner, timeout time.Duration) (stop func()) {
	var cancel context.CancelFunc
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		startupBootstrap(ctx, r)
	}()

	return func() {
		cancel()
		<-done
	}
}

func startupBootstrap(ctx context.Context, r bootstrapRunner) {
	result, err := r.RunBootstrap(ctx)
	switch {
	case errors.Is(err, orchestrator.ErrBootstrapInProgress):
		slog.Info("startup bootstrap skipped, a run is already in progress")
	case err != nil:
		slog.Error("startup bootstrap failed", "err", err)
	case result.Status != orchestrator.StatusOK:
		slog.Warn("startup bootstrap completed with errors; /ready stays 503 until a bootstrap succeeds")
	}
}
