package handicapservice

import (
	"context"
	"errors"
	"fmt"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GetScorecard returns the round with net, Stableford and nine-hole splits filled in,
// using the player's current handicap index (0 until the index is valid).
func (s *HandicapService) GetScorecard(ctx context.Context, roundID uuid.UUID) (*handicapdomain.Scorecard, error) {
	scorecardTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*handicapdomain.Scorecard, error], error) {
		return s.getScorecardLogic(ctx, db, roundID)
	}

	result, err := withTelemetry(s, ctx, "GetScorecard", roundID.String(), func(ctx context.Context) (results.OperationResult[*handicapdomain.Scorecard, error], error) {
		return runInTx(s, ctx, scorecardTx)
	})
	return unwrap(result, err)
}

func (s *HandicapService) getScorecardLogic(ctx context.Context, db bun.IDB, roundID uuid.UUID) (results.OperationResult[*handicapdomain.Scorecard, error], error) {
	row, err := s.repo.GetRound(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, handicapdb.ErrNotFound) {
			return results.FailureResult[*handicapdomain.Scorecard, error](ErrRoundNotFound), nil
		}
		return results.OperationResult[*handicapdomain.Scorecard, error]{}, fmt.Errorf("failed to get round: %w", err)
	}

	state, err := s.playerState(ctx, db, row.PlayerID)
	if err != nil {
		return results.OperationResult[*handicapdomain.Scorecard, error]{}, err
	}
	index := 0.0
	if state.IsValid {
		index = state.HandicapIndex
	}

	card := handicapdomain.BuildScorecard(row.ToDomain(), index, s.toParFloor)
	return results.SuccessResult[*handicapdomain.Scorecard, error](&card), nil
}
