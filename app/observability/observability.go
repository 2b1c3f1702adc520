package observability

import (
	"log/slog"
	"os"
	"strings"

	handicapmetrics "github.com/Black-And-White-Club/fairway-bot/app/observability/metrics/handicap"
	"github.com/Black-And-White-Club/fairway-bot/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "fairway-bot"

// Observability bundles the logger, tracer and metrics shared by every module.
type Observability struct {
	Logger          *slog.Logger
	Tracer          trace.Tracer
	Registry        *prometheus.Registry
	HandicapMetrics handicapmetrics.HandicapMetrics
}

// Init builds the observability stack from configuration.
func Init(cfg config.ObservabilityConfig) *Observability {
	logger := NewLogger(cfg)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Observability{
		Logger:          logger,
		Tracer:          otel.Tracer(serviceName),
		Registry:        registry,
		HandicapMetrics: handicapmetrics.NewPrometheus(registry, "fairway"),
	}
}

// NewLogger returns a slog logger writing to stdout in the configured format.
func NewLogger(cfg config.ObservabilityConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(
		slog.String("service", serviceName),
		slog.String("environment", cfg.Environment),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
