package app

import (
	"context"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/fairway-bot/app/modules/handicap"
	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
)

// HTTPHandler builds the HTTP handler for the API, health and metrics endpoints.
func (app *App) HTTPHandler() http.Handler {
	return newHTTPRouter(app.HandicapModule, app.db.GetDB(), app.Observability.Registry, app.Cfg.RequestTimeout())
}

func newHTTPRouter(module *handicap.Module, db *bun.DB, registry *prometheus.Registry, timeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/healthz", healthHandler(module, db))
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	module.RegisterRoutes(r)
	return r
}

func healthHandler(module *handicap.Module, db *bun.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if err := module.HealthCheck(ctx); err != nil {
			http.Error(w, "queue unavailable: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}
}

// logRoutes prints every mounted route at debug level.
func (app *App) logRoutes(h http.Handler) {
	routes, ok := h.(chi.Routes)
	if !ok {
		return
	}
	_ = chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		app.Logger.Debug("Registered route", attr.String("method", method), attr.String("route", route))
		return nil
	})
}
