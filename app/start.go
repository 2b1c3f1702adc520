package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
)

const shutdownTimeout = 15 * time.Second

// Start runs the HTTP server, the event router and the handicap module until
// ctx is cancelled, then shuts them down.
func (app *App) Start(ctx context.Context) error {
	handler := app.HTTPHandler()
	app.logRoutes(handler)

	srv := &http.Server{
		Addr:              app.Cfg.HTTP.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go app.HandicapModule.Run(ctx, &wg)

	go func() {
		if err := app.Router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("message router stopped: %w", err)
		}
	}()

	go func() {
		app.Logger.Info("Starting HTTP server", attr.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server stopped: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		app.Logger.Error("Component failed, shutting down", attr.Error(runErr))
	}

	app.WaitForShutdown(srv, cancel, &wg)
	return runErr
}

// WaitForShutdown drains HTTP requests, stops background work and closes the app.
func (app *App) WaitForShutdown(srv *http.Server, cancel context.CancelFunc, wg *sync.WaitGroup) {
	app.Logger.Info("Shutting down")

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("HTTP server shutdown failed", attr.Error(err))
	}

	cancel()
	wg.Wait()

	if err := app.Close(); err != nil {
		app.Logger.Error("Failed to close app", attr.Error(err))
	}
	app.Logger.Info("Shutdown complete")
}
