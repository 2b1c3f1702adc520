package handicapservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// GetCourseLeaderboard ranks the course's rounds under the query's metric and hole selection.
func (s *HandicapService) GetCourseLeaderboard(ctx context.Context, query LeaderboardQuery) (*Leaderboard, error) {
	leaderboardTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*Leaderboard, error], error) {
		return s.courseLeaderboardLogic(ctx, db, query)
	}

	result, err := withTelemetry(s, ctx, "GetCourseLeaderboard", query.CourseID.String(), func(ctx context.Context) (results.OperationResult[*Leaderboard, error], error) {
		res, err := runInTx(s, ctx, leaderboardTx)
		if err == nil && res.IsSuccess() && s.metrics != nil {
			lb := *res.Success
			s.metrics.RecordLeaderboardSize(ctx, string(lb.Metric), len(lb.Entries))
		}
		return res, err
	})
	return unwrap(result, err)
}

func (s *HandicapService) courseLeaderboardLogic(ctx context.Context, db bun.IDB, query LeaderboardQuery) (results.OperationResult[*Leaderboard, error], error) {
	q, window, err := s.normalizeQuery(query)
	if err != nil {
		return results.FailureResult[*Leaderboard, error](err), nil
	}

	if _, err := s.repo.GetCourse(ctx, db, q.CourseID); err != nil {
		if errors.Is(err, handicapdb.ErrNotFound) {
			return results.FailureResult[*Leaderboard, error](ErrCourseNotFound), nil
		}
		return results.OperationResult[*Leaderboard, error]{}, fmt.Errorf("failed to get course: %w", err)
	}

	rows, err := s.repo.ListRoundsByCourse(ctx, db, handicapdb.RoundQuery{
		CourseID: q.CourseID,
		From:     window.From,
		To:       window.To,
	})
	if err != nil {
		return results.OperationResult[*Leaderboard, error]{}, fmt.Errorf("failed to list course rounds: %w", err)
	}

	rounds := make([]handicapdomain.Round, len(rows))
	for i, row := range rows {
		rounds[i] = row.ToDomain()
	}
	rounds = handicapdomain.FilterRounds(rounds, handicapdomain.RoundFilter{
		From:      window.From,
		To:        window.To,
		TeeName:   q.TeeName,
		RoundType: q.RoundType,
	})

	var handicaps map[handicapdomain.PlayerID]float64
	if q.Metric == handicapdomain.MetricNet || q.Metric == handicapdomain.MetricStablefordNet {
		handicaps, err = s.poolHandicaps(ctx, db, rounds)
		if err != nil {
			return results.OperationResult[*Leaderboard, error]{}, err
		}
	}

	entries := handicapdomain.Rank(handicapdomain.ScorePool(rounds, q.Metric, q.Holes, handicaps), q.Metric)

	lb := &Leaderboard{
		CourseID: q.CourseID,
		Metric:   q.Metric,
		Holes:    q.Holes,
		Entries:  entries,
	}
	if !window.From.IsZero() {
		lb.From = &window.From
	}
	if !window.To.IsZero() {
		lb.To = &window.To
	}
	if q.PlayerID != "" {
		if best, ok := handicapdomain.BestRoundForPlayer(entries, handicapdomain.PlayerID(q.PlayerID), q.Metric); ok {
			lb.PlayerBest = &best
		}
	}
	return results.SuccessResult[*Leaderboard, error](lb), nil
}

// normalizeQuery applies defaults and resolves the date window.
func (s *HandicapService) normalizeQuery(q LeaderboardQuery) (LeaderboardQuery, DateRange, error) {
	if q.CourseID == uuid.Nil {
		return q, DateRange{}, fmt.Errorf("%w: course ID is required", ErrInvalidQuery)
	}

	if q.Metric == "" {
		q.Metric = handicapdomain.MetricGross
	}
	if !q.Metric.IsValid() {
		return q, DateRange{}, fmt.Errorf("%w: %q", ErrUnsupportedMetric, q.Metric)
	}

	if q.Holes == "" {
		q.Holes = handicapdomain.SelectAll
	}
	if !q.Holes.IsValid() {
		return q, DateRange{}, fmt.Errorf("%w: unknown hole selection %q", ErrInvalidQuery, q.Holes)
	}

	switch q.RoundType {
	case "":
		q.RoundType = handicapdomain.RoundTypeAll
	case handicapdomain.RoundTypeAll, handicapdomain.RoundTypeNine, handicapdomain.RoundTypeEighteen:
	default:
		return q, DateRange{}, fmt.Errorf("%w: unknown round type %q", ErrInvalidQuery, q.RoundType)
	}

	q.PlayerID = strings.TrimSpace(q.PlayerID)
	q.TeeName = strings.TrimSpace(q.TeeName)

	window := DateRange{From: q.From, To: q.To}
	if strings.TrimSpace(q.Range) != "" {
		parsed, err := ParseDateRange(q.Range, s.clock.Now())
		if err != nil {
			return q, DateRange{}, err
		}
		window = parsed
	}
	if !window.From.IsZero() && !window.To.IsZero() && window.From.After(window.To) {
		return q, DateRange{}, fmt.Errorf("%w: from is after to", ErrInvalidDateRange)
	}
	return q, window, nil
}

// poolHandicaps derives the current index of each player in the pool from their full round
// history, as GetScorecard does. Provisional indexes count as scratch.
func (s *HandicapService) poolHandicaps(ctx context.Context, db bun.IDB, rounds []handicapdomain.Round) (map[handicapdomain.PlayerID]float64, error) {
	out := make(map[handicapdomain.PlayerID]float64)
	seen := make(map[handicapdomain.PlayerID]bool)
	for _, r := range rounds {
		if seen[r.PlayerID] {
			continue
		}
		seen[r.PlayerID] = true

		state, err := s.playerState(ctx, db, string(r.PlayerID))
		if err != nil {
			return nil, fmt.Errorf("failed to compute handicap for %s: %w", r.PlayerID, err)
		}
		if state.IsValid {
			out[r.PlayerID] = state.HandicapIndex
		}
	}
	return out, nil
}
