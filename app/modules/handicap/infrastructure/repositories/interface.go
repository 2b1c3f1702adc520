package handicapdb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RoundQuery narrows a course round listing. Zero bounds are open.
type RoundQuery struct {
	CourseID uuid.UUID
	From     time.Time
	To       time.Time
}

// Repository defines the persistence contract for rounds, courses and handicap history.
//
// Error semantics:
//   - ErrNotFound: requested record does not exist (Get* methods)
//   - ErrNoRowsAffected: UPDATE/DELETE matched no rows
//   - other errors: infrastructure failures
type Repository interface {
	// Rounds
	CreateRound(ctx context.Context, db bun.IDB, round *Round) error
	GetRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) (*Round, error)
	ListRoundsByPlayer(ctx context.Context, db bun.IDB, playerID string) ([]*Round, error)
	ListRoundsByCourse(ctx context.Context, db bun.IDB, query RoundQuery) ([]*Round, error)
	DeleteRound(ctx context.Context, db bun.IDB, roundID uuid.UUID) error

	// Courses
	GetCourse(ctx context.Context, db bun.IDB, courseID uuid.UUID) (*Course, error)
	UpsertCourse(ctx context.Context, db bun.IDB, course *Course) error

	// Handicap history
	SaveHandicapSnapshot(ctx context.Context, db bun.IDB, snapshot *HandicapSnapshot) error
	GetLatestHandicap(ctx context.Context, db bun.IDB, playerID string) (*HandicapSnapshot, error)
	ListHandicapHistory(ctx context.Context, db bun.IDB, playerID string, limit int) ([]*HandicapSnapshot, error)
}
