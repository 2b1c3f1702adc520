package handicapintegrationtests

import (
	"errors"
	"testing"
	"time"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/google/uuid"
)

func TestRepository_RoundLifecycle(t *testing.T) {
	deps := SetupTestHandicapService(t)
	course := createCourse(t, deps)

	played := time.Date(2026, 5, 3, 14, 0, 0, 0, time.UTC)
	req := deps.Generator.GenerateRound("alice", course, played, 9)
	round := handicapdomain.Round{
		ID:          uuid.New(),
		PlayerID:    "alice",
		CourseID:    course.ID,
		Date:        played,
		HolesPlayed: handicapdomain.MaxHoles,
		HoleScores:  req.HoleScores,
	}
	round.GrossScore, round.ToParGross = round.Totals()

	if err := deps.Repo.CreateRound(deps.Ctx, nil, handicapdb.RoundFromDomain(round, handicapdb.SourceManual)); err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}

	got, err := deps.Repo.GetRound(deps.Ctx, nil, round.ID)
	if err != nil {
		t.Fatalf("GetRound failed: %v", err)
	}
	if got.ToParGross != 9 || len(got.HoleScores) != handicapdomain.MaxHoles {
		t.Fatalf("unexpected stored round: to_par=%d holes=%d", got.ToParGross, len(got.HoleScores))
	}
	if !got.PlayedOn.Equal(played) {
		t.Fatalf("played_on = %v, want %v", got.PlayedOn, played)
	}

	byPlayer, err := deps.Repo.ListRoundsByPlayer(deps.Ctx, nil, "alice")
	if err != nil || len(byPlayer) != 1 {
		t.Fatalf("ListRoundsByPlayer = %d rounds, err %v", len(byPlayer), err)
	}

	if err := deps.Repo.DeleteRound(deps.Ctx, nil, round.ID); err != nil {
		t.Fatalf("DeleteRound failed: %v", err)
	}
	if _, err := deps.Repo.GetRound(deps.Ctx, nil, round.ID); !errors.Is(err, handicapdb.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := deps.Repo.DeleteRound(deps.Ctx, nil, round.ID); !errors.Is(err, handicapdb.ErrNoRowsAffected) {
		t.Fatalf("expected ErrNoRowsAffected on second delete, got %v", err)
	}
}

func TestRepository_ListRoundsByCourseDateRange(t *testing.T) {
	deps := SetupTestHandicapService(t)
	course := createCourse(t, deps)

	days := []int{1, 10, 20}
	for _, d := range days {
		req := deps.Generator.GenerateRandomRound("bob", course, time.Date(2026, 6, d, 9, 0, 0, 0, time.UTC))
		if _, err := deps.Service.RecordRound(deps.Ctx, req); err != nil {
			t.Fatalf("RecordRound failed: %v", err)
		}
	}

	tests := []struct {
		name  string
		query handicapdb.RoundQuery
		want  int
	}{
		{"open range", handicapdb.RoundQuery{CourseID: course.ID}, 3},
		{"from only", handicapdb.RoundQuery{CourseID: course.ID, From: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)}, 2},
		{"bounded", handicapdb.RoundQuery{CourseID: course.ID, From: time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC), To: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)}, 1},
		{"other course", handicapdb.RoundQuery{CourseID: uuid.New()}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rounds, err := deps.Repo.ListRoundsByCourse(deps.Ctx, nil, tc.query)
			if err != nil {
				t.Fatalf("ListRoundsByCourse failed: %v", err)
			}
			if len(rounds) != tc.want {
				t.Fatalf("got %d rounds, want %d", len(rounds), tc.want)
			}
		})
	}
}

func TestRepository_UpsertCourseReplacesTees(t *testing.T) {
	deps := SetupTestHandicapService(t)
	req := deps.Generator.GenerateCourse()

	course := &handicapdb.Course{
		ID:    req.ID,
		Name:  req.Name,
		Holes: req.Holes,
		Tees:  []*handicapdb.CourseTee{{Name: "White"}, {Name: "Blue"}},
	}
	if err := deps.Repo.UpsertCourse(deps.Ctx, nil, course); err != nil {
		t.Fatalf("UpsertCourse failed: %v", err)
	}

	course.Name = "Renamed"
	course.Tees = []*handicapdb.CourseTee{{Name: "Red"}}
	if err := deps.Repo.UpsertCourse(deps.Ctx, nil, course); err != nil {
		t.Fatalf("second UpsertCourse failed: %v", err)
	}

	got, err := deps.Repo.GetCourse(deps.Ctx, nil, req.ID)
	if err != nil {
		t.Fatalf("GetCourse failed: %v", err)
	}
	if got.Name != "Renamed" {
		t.Fatalf("name = %q, want Renamed", got.Name)
	}
	if len(got.Tees) != 1 || got.Tees[0].Name != "Red" {
		t.Fatalf("expected tees replaced by Red, got %+v", got.Tees)
	}
	if len(got.StrokeIndexes()) != handicapdomain.MaxHoles {
		t.Fatalf("expected stroke indexes for every hole")
	}

	if _, err := deps.Repo.GetCourse(deps.Ctx, nil, uuid.New()); !errors.Is(err, handicapdb.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown course, got %v", err)
	}
}

func TestRepository_HandicapHistory(t *testing.T) {
	deps := SetupTestHandicapService(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, idx := range []float64{12.4, 11.9, 10.2} {
		snap := handicapdb.SnapshotFromState("carol", handicapdomain.HandicapState{HandicapIndex: idx, IsValid: true}, base.AddDate(0, 0, i))
		if err := deps.Repo.SaveHandicapSnapshot(deps.Ctx, nil, snap); err != nil {
			t.Fatalf("SaveHandicapSnapshot failed: %v", err)
		}
	}
	other := handicapdb.SnapshotFromState("dave", handicapdomain.HandicapState{HandicapIndex: 3.1}, base)
	if err := deps.Repo.SaveHandicapSnapshot(deps.Ctx, nil, other); err != nil {
		t.Fatalf("SaveHandicapSnapshot failed: %v", err)
	}

	latest, err := deps.Repo.GetLatestHandicap(deps.Ctx, nil, "carol")
	if err != nil {
		t.Fatalf("GetLatestHandicap failed: %v", err)
	}
	if latest.HandicapIndex != 10.2 {
		t.Fatalf("latest index = %v, want 10.2", latest.HandicapIndex)
	}

	history, err := deps.Repo.ListHandicapHistory(deps.Ctx, nil, "carol", 2)
	if err != nil {
		t.Fatalf("ListHandicapHistory failed: %v", err)
	}
	if len(history) != 2 || history[0].HandicapIndex != 10.2 || history[1].HandicapIndex != 11.9 {
		t.Fatalf("unexpected history %+v", history)
	}

	dave, err := deps.Repo.GetLatestHandicap(deps.Ctx, nil, "dave")
	if err != nil {
		t.Fatalf("GetLatestHandicap failed: %v", err)
	}
	if dave.HandicapIndex != 3.1 {
		t.Fatalf("unexpected latest handicap for dave %+v", dave)
	}

	if _, err := deps.Repo.GetLatestHandicap(deps.Ctx, nil, "nobody"); !errors.Is(err, handicapdb.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
