package handicapservice

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapevents "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain/events"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordRound validates and stores a round, then announces it on the event bus.
func (s *HandicapService) RecordRound(ctx context.Context, req RecordRoundRequest) (*handicapdomain.Round, error) {
	recordTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*handicapdomain.Round, error], error) {
		return s.recordRoundLogic(ctx, db, req)
	}

	result, err := withTelemetry(s, ctx, "RecordRound", req.PlayerID, func(ctx context.Context) (results.OperationResult[*handicapdomain.Round, error], error) {
		res, err := runInTx(s, ctx, recordTx)
		if err == nil && res.IsSuccess() {
			s.publishBestEffort(ctx, handicapevents.RoundRecordedV1, roundRecordedPayload(**res.Success, handicapdb.SourceManual))
		}
		return res, err
	})
	return unwrap(result, err)
}

func (s *HandicapService) recordRoundLogic(ctx context.Context, db bun.IDB, req RecordRoundRequest) (results.OperationResult[*handicapdomain.Round, error], error) {
	if strings.TrimSpace(req.PlayerID) == "" {
		return results.FailureResult[*handicapdomain.Round, error](ErrPlayerRequired), nil
	}
	if err := validateRound(req); err != nil {
		return results.FailureResult[*handicapdomain.Round, error](err), nil
	}

	course, err := s.repo.GetCourse(ctx, db, req.CourseID)
	if err != nil {
		if errors.Is(err, handicapdb.ErrNotFound) {
			return results.FailureResult[*handicapdomain.Round, error](ErrCourseNotFound), nil
		}
		return results.OperationResult[*handicapdomain.Round, error]{}, fmt.Errorf("failed to get course: %w", err)
	}

	round := s.buildRound(req, course)
	if err := s.repo.CreateRound(ctx, db, handicapdb.RoundFromDomain(round, handicapdb.SourceManual)); err != nil {
		return results.OperationResult[*handicapdomain.Round, error]{}, fmt.Errorf("failed to create round: %w", err)
	}
	return results.SuccessResult[*handicapdomain.Round, error](&round), nil
}

// DeleteRound removes a round and announces the removal so the player's handicap is recomputed.
func (s *HandicapService) DeleteRound(ctx context.Context, roundID uuid.UUID) error {
	deleteTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*handicapdb.Round, error], error) {
		return s.deleteRoundLogic(ctx, db, roundID)
	}

	result, err := withTelemetry(s, ctx, "DeleteRound", roundID.String(), func(ctx context.Context) (results.OperationResult[*handicapdb.Round, error], error) {
		res, err := runInTx(s, ctx, deleteTx)
		if err == nil && res.IsSuccess() {
			deleted := *res.Success
			s.publishBestEffort(ctx, handicapevents.RoundDeletedV1, handicapevents.RoundDeletedPayloadV1{
				RoundID:  deleted.ID,
				PlayerID: deleted.PlayerID,
			})
		}
		return res, err
	})
	_, err = unwrap(result, err)
	return err
}

func (s *HandicapService) deleteRoundLogic(ctx context.Context, db bun.IDB, roundID uuid.UUID) (results.OperationResult[*handicapdb.Round, error], error) {
	round, err := s.repo.GetRound(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, handicapdb.ErrNotFound) {
			return results.FailureResult[*handicapdb.Round, error](ErrRoundNotFound), nil
		}
		return results.OperationResult[*handicapdb.Round, error]{}, fmt.Errorf("failed to get round: %w", err)
	}

	if err := s.repo.DeleteRound(ctx, db, roundID); err != nil {
		if errors.Is(err, handicapdb.ErrNoRowsAffected) {
			return results.FailureResult[*handicapdb.Round, error](ErrRoundNotFound), nil
		}
		return results.OperationResult[*handicapdb.Round, error]{}, fmt.Errorf("failed to delete round: %w", err)
	}
	return results.SuccessResult[*handicapdb.Round, error](round), nil
}

// validateRound checks the scorecard shape. Every failure wraps ErrInvalidRound.
func validateRound(req RecordRoundRequest) error {
	if req.CourseID == uuid.Nil {
		return fmt.Errorf("%w: course ID is required", ErrInvalidRound)
	}
	if req.HolesPlayed != handicapdomain.NineHoles && req.HolesPlayed != handicapdomain.MaxHoles {
		return fmt.Errorf("%w: holes played must be 9 or 18, got %d", ErrInvalidRound, req.HolesPlayed)
	}
	if len(req.HoleScores) > req.HolesPlayed {
		return fmt.Errorf("%w: %d hole scores for a %d hole round", ErrInvalidRound, len(req.HoleScores), req.HolesPlayed)
	}

	seen := make(map[int]bool, len(req.HoleScores))
	for _, h := range req.HoleScores {
		switch {
		case h.Hole < 1 || h.Hole > handicapdomain.MaxHoles:
			return fmt.Errorf("%w: hole number %d out of range", ErrInvalidRound, h.Hole)
		case seen[h.Hole]:
			return fmt.Errorf("%w: hole %d recorded twice", ErrInvalidRound, h.Hole)
		case h.Par < 3 || h.Par > 6:
			return fmt.Errorf("%w: hole %d has par %d", ErrInvalidRound, h.Hole, h.Par)
		case h.Strokes != nil && *h.Strokes < 1:
			return fmt.Errorf("%w: hole %d has %d strokes", ErrInvalidRound, h.Hole, *h.Strokes)
		case h.Putts != nil && *h.Putts < 0:
			return fmt.Errorf("%w: hole %d has negative putts", ErrInvalidRound, h.Hole)
		case h.Penalties != nil && *h.Penalties < 0:
			return fmt.Errorf("%w: hole %d has negative penalties", ErrInvalidRound, h.Hole)
		case h.StrokeIndex < 0 || h.StrokeIndex > handicapdomain.MaxHoles:
			return fmt.Errorf("%w: hole %d has stroke index %d", ErrInvalidRound, h.Hole, h.StrokeIndex)
		}
		seen[h.Hole] = true
	}
	return nil
}

// buildRound turns a validated request into a Round, filling stroke indexes and tee
// rating/slope from the course where the card leaves them out.
func (s *HandicapService) buildRound(req RecordRoundRequest, course *handicapdb.Course) handicapdomain.Round {
	holes := slices.Clone(req.HoleScores)
	slices.SortFunc(holes, func(a, b handicapdomain.HoleScore) int { return a.Hole - b.Hole })

	indexes := course.StrokeIndexes()
	for i := range holes {
		if holes[i].StrokeIndex == 0 {
			holes[i].StrokeIndex = indexes[holes[i].Hole]
		}
	}

	tee := handicapdomain.Tee{Name: req.TeeName, Rating: req.TeeRating, Slope: req.TeeSlope}
	if req.TeeName != "" {
		if ct, ok := course.Tee(req.TeeName); ok {
			tee.Name = ct.Name
			if tee.Rating == nil {
				tee.Rating = ct.Rating
			}
			if tee.Slope == nil {
				tee.Slope = ct.Slope
			}
		}
	}

	playedOn := req.PlayedOn
	if playedOn.IsZero() {
		playedOn = s.clock.Now()
	}

	round := handicapdomain.Round{
		ID:              uuid.New(),
		PlayerID:        handicapdomain.PlayerID(strings.TrimSpace(req.PlayerID)),
		CourseID:        req.CourseID,
		Date:            playedOn.UTC(),
		HolesPlayed:     req.HolesPlayed,
		NetScore:        req.NetScore,
		ToParNet:        req.ToParNet,
		StablefordGross: req.StablefordGross,
		StablefordNet:   req.StablefordNet,
		HoleScores:      holes,
		Tee:             tee,
	}
	if round.HoleScores == nil {
		round.HoleScores = []handicapdomain.HoleScore{}
	}
	round.GrossScore, round.ToParGross = round.Totals()
	return round
}

func roundRecordedPayload(r handicapdomain.Round, source string) handicapevents.RoundRecordedPayloadV1 {
	return handicapevents.RoundRecordedPayloadV1{
		RoundID:     r.ID,
		PlayerID:    string(r.PlayerID),
		CourseID:    r.CourseID,
		PlayedOn:    r.Date,
		HolesPlayed: r.HolesPlayed,
		GrossScore:  r.GrossScore,
		ToParGross:  r.ToParGross,
		Source:      source,
	}
}
