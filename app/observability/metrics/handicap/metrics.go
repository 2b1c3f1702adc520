package handicapmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HandicapMetrics records handicap module activity.
type HandicapMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordHandicapIndex(ctx context.Context, index float64)
	RecordLeaderboardSize(ctx context.Context, metric string, size int)
	RecordImportedRounds(ctx context.Context, count int)
}

type prometheusMetrics struct {
	attempts        *prometheus.CounterVec
	successes       *prometheus.CounterVec
	failures        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	handicapIndex   prometheus.Histogram
	leaderboardSize *prometheus.HistogramVec
	importedRounds  prometheus.Counter
}

// NewPrometheus registers the handicap collectors on reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) HandicapMetrics {
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "handicap",
			Name:      "operation_attempts_total",
			Help:      "Handicap service operations started.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "handicap",
			Name:      "operation_success_total",
			Help:      "Handicap service operations that succeeded.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "handicap",
			Name:      "operation_failures_total",
			Help:      "Handicap service operations that failed.",
		}, []string{"operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "handicap",
			Name:      "operation_duration_seconds",
			Help:      "Handicap service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		handicapIndex: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "handicap",
			Name:      "index",
			Help:      "Distribution of computed handicap indexes.",
			Buckets:   prometheus.LinearBuckets(0, 4, 14),
		}),
		leaderboardSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "handicap",
			Name:      "leaderboard_entries",
			Help:      "Number of entries per leaderboard query.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}, []string{"metric"}),
		importedRounds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "handicap",
			Name:      "imported_rounds_total",
			Help:      "Rounds created from scorecard imports.",
		}),
	}

	reg.MustRegister(m.attempts, m.successes, m.failures, m.duration, m.handicapIndex, m.leaderboardSize, m.importedRounds)
	return m
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordHandicapIndex(_ context.Context, index float64) {
	m.handicapIndex.Observe(index)
}

func (m *prometheusMetrics) RecordLeaderboardSize(_ context.Context, metric string, size int) {
	m.leaderboardSize.WithLabelValues(metric).Observe(float64(size))
}

func (m *prometheusMetrics) RecordImportedRounds(_ context.Context, count int) {
	m.importedRounds.Add(float64(count))
}

// NoOpMetrics discards everything. Used in tests.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordHandicapIndex(context.Context, float64)                   {}
func (NoOpMetrics) RecordLeaderboardSize(context.Context, string, int)             {}
func (NoOpMetrics) RecordImportedRounds(context.Context, int)                      {}
