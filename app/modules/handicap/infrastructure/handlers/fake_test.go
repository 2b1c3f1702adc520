package handicaphandlers

import (
	"context"
	"time"

	handicapservice "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/application"
	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapjwt "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/jwt"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/google/uuid"
)

// FakeService is a programmable handicapservice.Service.
type FakeService struct {
	RecordRoundFunc          func(ctx context.Context, req handicapservice.RecordRoundRequest) (*handicapdomain.Round, error)
	DeleteRoundFunc          func(ctx context.Context, roundID uuid.UUID) error
	GetScorecardFunc         func(ctx context.Context, roundID uuid.UUID) (*handicapdomain.Scorecard, error)
	ImportScorecardFunc      func(ctx context.Context, req handicapservice.ImportScorecardRequest) (*handicapservice.ImportResult, error)
	UpsertCourseFunc         func(ctx context.Context, req handicapservice.UpsertCourseRequest) (*handicapdb.Course, error)
	GetPlayerHandicapFunc    func(ctx context.Context, playerID string) (*handicapservice.PlayerHandicap, error)
	RecalculateHandicapFunc  func(ctx context.Context, playerID string) (*handicapservice.PlayerHandicap, error)
	GetHandicapHistoryFunc   func(ctx context.Context, playerID string, limit int) ([]handicapservice.HandicapPoint, error)
	HandicapTrendChartFunc   func(ctx context.Context, playerID string) ([]byte, error)
	GetCourseLeaderboardFunc func(ctx context.Context, query handicapservice.LeaderboardQuery) (*handicapservice.Leaderboard, error)
	ExportLeaderboardFunc    func(ctx context.Context, query handicapservice.LeaderboardQuery) ([]byte, error)
}

var _ handicapservice.Service = (*FakeService)(nil)

func (f *FakeService) RecordRound(ctx context.Context, req handicapservice.RecordRoundRequest) (*handicapdomain.Round, error) {
	if f.RecordRoundFunc != nil {
		return f.RecordRoundFunc(ctx, req)
	}
	return &handicapdomain.Round{}, nil
}

func (f *FakeService) DeleteRound(ctx context.Context, roundID uuid.UUID) error {
	if f.DeleteRoundFunc != nil {
		return f.DeleteRoundFunc(ctx, roundID)
	}
	return nil
}

func (f *FakeService) GetScorecard(ctx context.Context, roundID uuid.UUID) (*handicapdomain.Scorecard, error) {
	if f.GetScorecardFunc != nil {
		return f.GetScorecardFunc(ctx, roundID)
	}
	return &handicapdomain.Scorecard{}, nil
}

func (f *FakeService) ImportScorecard(ctx context.Context, req handicapservice.ImportScorecardRequest) (*handicapservice.ImportResult, error) {
	if f.ImportScorecardFunc != nil {
		return f.ImportScorecardFunc(ctx, req)
	}
	return &handicapservice.ImportResult{}, nil
}

func (f *FakeService) UpsertCourse(ctx context.Context, req handicapservice.UpsertCourseRequest) (*handicapdb.Course, error) {
	if f.UpsertCourseFunc != nil {
		return f.UpsertCourseFunc(ctx, req)
	}
	return &handicapdb.Course{ID: req.ID, Name: req.Name}, nil
}

func (f *FakeService) GetPlayerHandicap(ctx context.Context, playerID string) (*handicapservice.PlayerHandicap, error) {
	if f.GetPlayerHandicapFunc != nil {
		return f.GetPlayerHandicapFunc(ctx, playerID)
	}
	return &handicapservice.PlayerHandicap{PlayerID: playerID}, nil
}

func (f *FakeService) RecalculateHandicap(ctx context.Context, playerID string) (*handicapservice.PlayerHandicap, error) {
	if f.RecalculateHandicapFunc != nil {
		return f.RecalculateHandicapFunc(ctx, playerID)
	}
	return &handicapservice.PlayerHandicap{PlayerID: playerID}, nil
}

func (f *FakeService) GetHandicapHistory(ctx context.Context, playerID string, limit int) ([]handicapservice.HandicapPoint, error) {
	if f.GetHandicapHistoryFunc != nil {
		return f.GetHandicapHistoryFunc(ctx, playerID, limit)
	}
	return nil, nil
}

func (f *FakeService) HandicapTrendChart(ctx context.Context, playerID string) ([]byte, error) {
	if f.HandicapTrendChartFunc != nil {
		return f.HandicapTrendChartFunc(ctx, playerID)
	}
	return []byte{}, nil
}

func (f *FakeService) GetCourseLeaderboard(ctx context.Context, query handicapservice.LeaderboardQuery) (*handicapservice.Leaderboard, error) {
	if f.GetCourseLeaderboardFunc != nil {
		return f.GetCourseLeaderboardFunc(ctx, query)
	}
	return &handicapservice.Leaderboard{CourseID: query.CourseID}, nil
}

func (f *FakeService) ExportLeaderboard(ctx context.Context, query handicapservice.LeaderboardQuery) ([]byte, error) {
	if f.ExportLeaderboardFunc != nil {
		return f.ExportLeaderboardFunc(ctx, query)
	}
	return []byte{}, nil
}

// FakeScheduler records scheduled recalculations.
type FakeScheduler struct {
	Scheduled []string
	Err       error
}

func (f *FakeScheduler) ScheduleRecalculation(_ context.Context, playerID string) error {
	if f.Err != nil {
		return f.Err
	}
	f.Scheduled = append(f.Scheduled, playerID)
	return nil
}

// FakeProvider accepts the single token "good-token".
type FakeProvider struct{}

func (FakeProvider) GenerateToken(subject string, _ time.Duration) (string, error) {
	return "good-token", nil
}

func (FakeProvider) ValidateToken(token string) (*handicapjwt.Claims, error) {
	if token != "good-token" {
		return nil, handicapjwt.ErrInvalidToken
	}
	return &handicapjwt.Claims{Subject: "scorekeeper"}, nil
}
