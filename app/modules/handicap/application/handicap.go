package handicapservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapevents "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain/events"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/uptrace/bun"
)

const defaultHistoryLimit = 100

// GetPlayerHandicap computes the player's handicap from their full round history without storing it.
func (s *HandicapService) GetPlayerHandicap(ctx context.Context, playerID string) (*PlayerHandicap, error) {
	getTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*PlayerHandicap, error], error) {
		res, err := s.computeHandicapLogic(ctx, db, playerID)
		if err != nil || res.IsFailure() {
			return res, err
		}
		ph := *res.Success
		last, err := s.repo.GetLatestHandicap(ctx, db, ph.PlayerID)
		switch {
		case err == nil:
			ph.LastRecalculatedAt = &last.ComputedAt
		case !errors.Is(err, handicapdb.ErrNotFound):
			return results.OperationResult[*PlayerHandicap, error]{}, fmt.Errorf("failed to get latest handicap: %w", err)
		}
		return res, nil
	}

	result, err := withTelemetry(s, ctx, "GetPlayerHandicap", playerID, func(ctx context.Context) (results.OperationResult[*PlayerHandicap, error], error) {
		return runInTx(s, ctx, getTx)
	})
	return unwrap(result, err)
}

// RecalculateHandicap recomputes the player's handicap, appends it to the history and
// publishes handicap.updated.v1.
func (s *HandicapService) RecalculateHandicap(ctx context.Context, playerID string) (*PlayerHandicap, error) {
	recalcTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*PlayerHandicap, error], error) {
		res, err := s.computeHandicapLogic(ctx, db, playerID)
		if err != nil || res.IsFailure() {
			return res, err
		}
		ph := *res.Success
		snapshot := handicapdb.SnapshotFromState(handicapdomain.PlayerID(ph.PlayerID), ph.HandicapState, ph.ComputedAt)
		if err := s.repo.SaveHandicapSnapshot(ctx, db, snapshot); err != nil {
			return results.OperationResult[*PlayerHandicap, error]{}, fmt.Errorf("failed to save handicap snapshot: %w", err)
		}
		return res, nil
	}

	result, err := withTelemetry(s, ctx, "RecalculateHandicap", playerID, func(ctx context.Context) (results.OperationResult[*PlayerHandicap, error], error) {
		res, err := runInTx(s, ctx, recalcTx)
		if err == nil && res.IsSuccess() {
			ph := *res.Success
			if s.metrics != nil && ph.IsValid {
				s.metrics.RecordHandicapIndex(ctx, ph.HandicapIndex)
			}
			s.publishBestEffort(ctx, handicapevents.HandicapUpdatedV1, handicapevents.HandicapUpdatedPayloadV1{
				PlayerID:                ph.PlayerID,
				HandicapIndex:           ph.HandicapIndex,
				IsValid:                 ph.IsValid,
				RoundsNeededForHandicap: ph.RoundsNeededForHandicap,
				EligibleRounds:          ph.EligibleRounds,
				ComputedAt:              ph.ComputedAt,
			})
		}
		return res, err
	})
	return unwrap(result, err)
}

func (s *HandicapService) computeHandicapLogic(ctx context.Context, db bun.IDB, playerID string) (results.OperationResult[*PlayerHandicap, error], error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return results.FailureResult[*PlayerHandicap, error](ErrPlayerRequired), nil
	}

	state, err := s.playerState(ctx, db, playerID)
	if err != nil {
		return results.OperationResult[*PlayerHandicap, error]{}, err
	}

	return results.SuccessResult[*PlayerHandicap, error](&PlayerHandicap{
		PlayerID:      playerID,
		HandicapState: state,
		ComputedAt:    s.clock.Now(),
	}), nil
}

// playerState derives the handicap state from every round the player has recorded.
func (s *HandicapService) playerState(ctx context.Context, db bun.IDB, playerID string) (handicapdomain.HandicapState, error) {
	rows, err := s.repo.ListRoundsByPlayer(ctx, db, playerID)
	if err != nil {
		return handicapdomain.HandicapState{}, fmt.Errorf("failed to list rounds: %w", err)
	}
	rounds := make([]handicapdomain.Round, len(rows))
	for i, row := range rows {
		rounds[i] = row.ToDomain()
	}
	return s.calculator.Compute(rounds), nil
}

// GetHandicapHistory returns the player's stored snapshots, oldest first.
func (s *HandicapService) GetHandicapHistory(ctx context.Context, playerID string, limit int) ([]HandicapPoint, error) {
	historyTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]HandicapPoint, error], error) {
		return s.handicapHistoryLogic(ctx, db, playerID, limit)
	}

	result, err := withTelemetry(s, ctx, "GetHandicapHistory", playerID, func(ctx context.Context) (results.OperationResult[[]HandicapPoint, error], error) {
		return runInTx(s, ctx, historyTx)
	})
	return unwrap(result, err)
}

func (s *HandicapService) handicapHistoryLogic(ctx context.Context, db bun.IDB, playerID string, limit int) (results.OperationResult[[]HandicapPoint, error], error) {
	if strings.TrimSpace(playerID) == "" {
		return results.FailureResult[[]HandicapPoint, error](ErrPlayerRequired), nil
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	snapshots, err := s.repo.ListHandicapHistory(ctx, db, playerID, limit)
	if err != nil {
		return results.OperationResult[[]HandicapPoint, error]{}, fmt.Errorf("failed to list handicap history: %w", err)
	}

	points := make([]HandicapPoint, len(snapshots))
	for i, snap := range snapshots {
		points[i] = HandicapPoint{
			ComputedAt:    snap.ComputedAt,
			HandicapIndex: snap.HandicapIndex,
			IsValid:       snap.IsValid,
		}
	}
	return results.SuccessResult[[]HandicapPoint, error](points), nil
}
