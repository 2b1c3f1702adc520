package handicaprouter

import (
	"context"
	"log/slog"
	"os"
	"time"

	handicapevents "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain/events"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

const (
	TestEnvironmentFlag  = "APP_ENV"
	TestEnvironmentValue = "test"
)

// EventHandlers consumes the round lifecycle events.
type EventHandlers interface {
	HandleRoundRecorded(msg *message.Message) error
	HandleRoundDeleted(msg *message.Message) error
}

// HandicapRouter wires round events into the handicap module.
type HandicapRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	tracer     trace.Tracer

	metricsBuilder *metrics.PrometheusMetricsBuilder
	metricsEnabled bool
}

func NewHandicapRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) *HandicapRouter {
	inTestEnv := os.Getenv(TestEnvironmentFlag) == TestEnvironmentValue

	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil && !inTestEnv {
		b := metrics.NewPrometheusMetricsBuilder(registry, "", "")
		metricsBuilder = &b
	}

	return &HandicapRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
		metricsEnabled: metricsBuilder != nil,
	}
}

// Configure installs router middleware and registers the round event consumers.
func (r *HandicapRouter) Configure(_ context.Context, handlers EventHandlers) error {
	if r.metricsEnabled && r.metricsBuilder != nil {
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 200 * time.Millisecond,
			Multiplier:      2,
			Logger:          watermill.NewSlogLogger(r.logger),
		}.Middleware,
		middleware.Recoverer,
	)

	r.registerHandlers(handlers)
	return nil
}

func (r *HandicapRouter) registerHandlers(h EventHandlers) {
	r.Router.AddNoPublisherHandler(
		"handicap."+handicapevents.RoundRecordedV1,
		handicapevents.RoundRecordedV1,
		r.subscriber,
		h.HandleRoundRecorded,
	)
	r.Router.AddNoPublisherHandler(
		"handicap."+handicapevents.RoundDeletedV1,
		handicapevents.RoundDeletedV1,
		r.subscriber,
		h.HandleRoundDeleted,
	)
}

// Close stops the router.
func (r *HandicapRouter) Close() error {
	return r.Router.Close()
}
