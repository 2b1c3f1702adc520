package handicapqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	handicapservice "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/application"
	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/riverqueue/river"
)

// Recalculator is the part of the handicap service the worker drives.
type Recalculator interface {
	RecalculateHandicap(ctx context.Context, playerID string) (*handicapservice.PlayerHandicap, error)
}

// RecalculateWorker runs RecalculateHandicapJob.
type RecalculateWorker struct {
	river.WorkerDefaults[RecalculateHandicapJob]
	service Recalculator
	logger  *slog.Logger
}

// NewRecalculateWorker creates a worker backed by service.
func NewRecalculateWorker(logger *slog.Logger, service Recalculator) *RecalculateWorker {
	return &RecalculateWorker{service: service, logger: logger}
}

// Work recalculates the job's player. A job without a player is cancelled rather than retried.
func (w *RecalculateWorker) Work(ctx context.Context, job *river.Job[RecalculateHandicapJob]) error {
	ctxLogger := w.logger.With(
		attr.Int64("job_id", job.ID),
		attr.Int("attempt", job.Attempt),
		attr.String("player_id", job.Args.PlayerID),
	)

	handicap, err := w.service.RecalculateHandicap(ctx, job.Args.PlayerID)
	if err != nil {
		if errors.Is(err, handicapservice.ErrPlayerRequired) {
			ctxLogger.Warn("Cancelling recalculation job without player", attr.Error(err))
			return river.JobCancel(err)
		}
		ctxLogger.Error("Handicap recalculation failed", attr.Error(err))
		return fmt.Errorf("failed to recalculate handicap: %w", err)
	}

	ctxLogger.Info("Handicap recalculated",
		attr.Float64("handicap_index", handicap.HandicapIndex),
		attr.Bool("is_valid", handicap.IsValid),
	)
	return nil
}
