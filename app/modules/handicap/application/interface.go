package handicapservice

import (
	"context"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/google/uuid"
)

// Service handles round recording, handicap computation and course leaderboards.
type Service interface {
	// Rounds
	RecordRound(ctx context.Context, req RecordRoundRequest) (*handicapdomain.Round, error)
	DeleteRound(ctx context.Context, roundID uuid.UUID) error
	GetScorecard(ctx context.Context, roundID uuid.UUID) (*handicapdomain.Scorecard, error)
	ImportScorecard(ctx context.Context, req ImportScorecardRequest) (*ImportResult, error)

	// Courses
	UpsertCourse(ctx context.Context, req UpsertCourseRequest) (*handicapdb.Course, error)

	// Handicaps
	GetPlayerHandicap(ctx context.Context, playerID string) (*PlayerHandicap, error)
	RecalculateHandicap(ctx context.Context, playerID string) (*PlayerHandicap, error)
	GetHandicapHistory(ctx context.Context, playerID string, limit int) ([]HandicapPoint, error)
	HandicapTrendChart(ctx context.Context, playerID string) ([]byte, error)

	// Leaderboards
	GetCourseLeaderboard(ctx context.Context, query LeaderboardQuery) (*Leaderboard, error)
	ExportLeaderboard(ctx context.Context, query LeaderboardQuery) ([]byte, error)
}

var _ Service = (*HandicapService)(nil)
