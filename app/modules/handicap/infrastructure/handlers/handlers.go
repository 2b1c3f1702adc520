package handicaphandlers

import (
	"context"
	"log/slog"
	"net/http"

	handicapservice "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/application"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"
)

// RecalculationScheduler defers a player's handicap recalculation to a background job.
type RecalculationScheduler interface {
	ScheduleRecalculation(ctx context.Context, playerID string) error
}

// Handlers is the HTTP and event surface of the handicap module.
type Handlers interface {
	// HTTP
	HandleGetHandicap(w http.ResponseWriter, r *http.Request)
	HandleGetHandicapHistory(w http.ResponseWriter, r *http.Request)
	HandleHandicapChart(w http.ResponseWriter, r *http.Request)
	HandleRecalculateHandicap(w http.ResponseWriter, r *http.Request)
	HandleGetScorecard(w http.ResponseWriter, r *http.Request)
	HandleRecordRound(w http.ResponseWriter, r *http.Request)
	HandleDeleteRound(w http.ResponseWriter, r *http.Request)
	HandleUpsertCourse(w http.ResponseWriter, r *http.Request)
	HandleImportScorecard(w http.ResponseWriter, r *http.Request)
	HandleLeaderboard(w http.ResponseWriter, r *http.Request)
	HandleLeaderboardExport(w http.ResponseWriter, r *http.Request)

	// Events
	HandleRoundRecorded(msg *message.Message) error
	HandleRoundDeleted(msg *message.Message) error
}

// HandicapHandlers implements Handlers.
type HandicapHandlers struct {
	service   handicapservice.Service
	scheduler RecalculationScheduler
	logger    *slog.Logger
	tracer    trace.Tracer
}

// NewHandicapHandlers creates a new HandicapHandlers. A nil scheduler makes the
// event handlers recalculate inline.
func NewHandicapHandlers(
	service handicapservice.Service,
	scheduler RecalculationScheduler,
	logger *slog.Logger,
	tracer trace.Tracer,
) *HandicapHandlers {
	return &HandicapHandlers{
		service:   service,
		scheduler: scheduler,
		logger:    logger,
		tracer:    tracer,
	}
}

var _ Handlers = (*HandicapHandlers)(nil)
