package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Denyme24/edgegw/internal/config"
	"github.com/Denyme24/edgegw/internal/observability"
)

// waitForShutdown waits for a shutdown signal or a listener failure
// and performs graceful shutdown.
func waitForShutdown(
	app *application,
	watcher *config.Watcher,
	errCh <-chan error,
	logger observability.Logger,
) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", observability.String("signal", sig.String()))
	case err, ok := <-errCh:
		if !ok {
			return
		}
		logger.Error("gateway listener failed", observability.Error(err))
	}

	// Fail readiness first so load balancers drain traffic before
	// the listener closes.
	app.healthChecker.SetDraining(true)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if watcher != nil {
		_ = watcher.Stop()
	}

	if err := app.gateway.Stop(shutdownCtx); err != nil {
		logger.Error("failed to stop gateway gracefully", observability.Error(err))
	}

	if err := app.tracer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown tracer", observability.Error(err))
	}

	logger.Info("gateway stopped")
}
