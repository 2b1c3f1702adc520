package handicapqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/fairway-bot/config"
	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

const (
	// QueueName is the dedicated River queue for handicap jobs.
	QueueName = "handicap"
	// RecalculationDelay lets rounds recorded in quick succession share one job.
	RecalculationDelay = 5 * time.Second
)

// ErrPlayerRequired is returned when scheduling without a player.
var ErrPlayerRequired = errors.New("player ID is required")

// Metrics is the subset of handicap metrics the queue reports to.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
}

// QueueService defines the contract for handicap job scheduling.
type QueueService interface {
	// ScheduleRecalculation enqueues a deduplicated recalculation for playerID.
	ScheduleRecalculation(ctx context.Context, playerID string) error
	// GetScheduledJobs returns recalculation jobs for a player (for debugging)
	GetScheduledJobs(ctx context.Context, playerID string) ([]JobInfo, error)
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service handles job scheduling for the handicap module using River
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics Metrics
	delay   time.Duration
	now     func() time.Time
}

// NewService creates a River-based queue service whose worker drives recalculator.
func NewService(
	ctx context.Context,
	bunDB *bun.DB,
	logger *slog.Logger,
	dsn string,
	metrics Metrics,
	recalculator Recalculator,
	cfg config.QueueConfig,
) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_handicap_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "queue_initialize")

	ctxLogger.Info("Initializing handicap queue service")

	// River requires pgx, not database/sql
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "queue_initialize")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "queue_initialize")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "queue_initialize")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewRecalculateWorker(ctxLogger, recalculator))

	maxWorkers := cfg.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			QueueName: {MaxWorkers: maxWorkers},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		metrics.RecordOperationFailure(ctx, "queue_initialize")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	service := &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
		delay:   RecalculationDelay,
		now:     time.Now,
	}

	metrics.RecordOperationSuccess(ctx, "queue_initialize")
	metrics.RecordOperationDuration(ctx, "queue_initialize", time.Since(start))

	ctxLogger.Info("Handicap queue service initialized successfully", attr.Int("max_workers", maxWorkers))
	return service, nil
}

// Start starts the River queue service
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "queue_start")

	s.logger.Info("Starting handicap queue service")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "queue_start")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "queue_start")
	s.metrics.RecordOperationDuration(ctx, "queue_start", time.Since(start))

	s.logger.Info("Handicap queue service started successfully")
	return nil
}

// Stop waits for running jobs to finish, then releases the pgx pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "queue_stop")

	s.logger.Info("Stopping handicap queue service")

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "queue_stop")
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	if s.pool != nil {
		s.pool.Close()
	}

	s.metrics.RecordOperationSuccess(ctx, "queue_stop")
	s.metrics.RecordOperationDuration(ctx, "queue_stop", time.Since(start))

	s.logger.Info("Handicap queue service stopped successfully")
	return nil
}

// ScheduleRecalculation enqueues a recalculation for playerID after a short delay.
// While a job for the player is pending, further requests are absorbed by it.
func (s *Service) ScheduleRecalculation(ctx context.Context, playerID string) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "queue_schedule_recalculation")

	ctxLogger := s.logger.With(
		attr.String("player_id", playerID),
		attr.String("operation", "schedule_recalculation"),
	)

	if playerID == "" {
		s.metrics.RecordOperationFailure(ctx, "queue_schedule_recalculation")
		return ErrPlayerRequired
	}

	runAt := s.now().Add(s.delay)
	jobResult, err := s.client.Insert(ctx, RecalculateHandicapJob{PlayerID: playerID}, &river.InsertOpts{
		Queue:       QueueName,
		ScheduledAt: runAt,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		ctxLogger.Error("Failed to schedule handicap recalculation", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "queue_schedule_recalculation")
		return fmt.Errorf("failed to schedule handicap recalculation: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "queue_schedule_recalculation")
	s.metrics.RecordOperationDuration(ctx, "queue_schedule_recalculation", time.Since(start))

	if jobResult.UniqueSkippedAsDuplicate {
		ctxLogger.Info("Recalculation already pending", attr.Int64("job_id", jobResult.Job.ID))
		return nil
	}
	ctxLogger.Info("Handicap recalculation scheduled",
		attr.Time("run_at", runAt),
		attr.Int64("job_id", jobResult.Job.ID))
	return nil
}

type riverJobRow struct {
	ID          int64          `bun:"id"`
	Kind        string         `bun:"kind"`
	State       string         `bun:"state"`
	Args        map[string]any `bun:"args"`
	ScheduledAt *time.Time     `bun:"scheduled_at"`
	CreatedAt   time.Time      `bun:"created_at"`
	Attempt     int16          `bun:"attempt"`
	MaxAttempts int16          `bun:"max_attempts"`
}

// GetScheduledJobs returns recalculation jobs for a player (for debugging)
func (s *Service) GetScheduledJobs(ctx context.Context, playerID string) ([]JobInfo, error) {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "queue_get_scheduled_jobs")

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "args", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind = ?", RecalculateHandicapJob{}.Kind()).
		Where("args->>'player_id' = ?", playerID).
		Order("scheduled_at ASC NULLS LAST", "created_at ASC").
		Scan(ctx, &jobs)
	if err != nil {
		s.logger.Error("Failed to query scheduled jobs", attr.String("player_id", playerID), attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "queue_get_scheduled_jobs")
		return nil, fmt.Errorf("failed to query scheduled jobs: %w", err)
	}

	result := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		result[i] = toJobInfo(job, playerID)
	}

	s.metrics.RecordOperationSuccess(ctx, "queue_get_scheduled_jobs")
	s.metrics.RecordOperationDuration(ctx, "queue_get_scheduled_jobs", time.Since(start))
	return result, nil
}

func toJobInfo(job riverJobRow, playerID string) JobInfo {
	scheduledAt := ""
	if job.ScheduledAt != nil {
		scheduledAt = job.ScheduledAt.Format(time.RFC3339)
	}
	return JobInfo{
		ID:          job.ID,
		Kind:        job.Kind,
		PlayerID:    playerID,
		State:       job.State,
		ScheduledAt: scheduledAt,
		CreatedAt:   job.CreatedAt.Format(time.RFC3339),
		Attempt:     int(job.Attempt),
		MaxAttempts: int(job.MaxAttempts),
	}
}

// HealthCheck verifies the queue service is healthy
func (s *Service) HealthCheck(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "queue_health_check")

	if s.client == nil {
		s.metrics.RecordOperationFailure(ctx, "queue_health_check")
		return fmt.Errorf("river client is nil")
	}

	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Where("kind = ?", RecalculateHandicapJob{}.Kind()).
		Scan(ctx, &count)
	if err != nil {
		s.logger.Error("Queue service health check failed", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "queue_health_check")
		return fmt.Errorf("queue service health check failed: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "queue_health_check")
	s.metrics.RecordOperationDuration(ctx, "queue_health_check", time.Since(start))

	s.logger.Debug("Queue service health check passed", attr.Int("recalculation_jobs", count))
	return nil
}
