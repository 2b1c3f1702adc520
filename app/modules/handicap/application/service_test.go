package handicapservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	handicapmetrics "github.com/Black-And-White-Club/fairway-bot/app/observability/metrics/handicap"
	"github.com/Black-And-White-Club/fairway-bot/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

// testNow is a Thursday.
var testNow = time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

var coursePars = []int{4, 4, 3, 5, 4, 4, 3, 5, 4, 4, 4, 3, 5, 4, 4, 3, 5, 4}

func newTestService(repo *FakeHandicapRepo, pub *FakePublisher) *HandicapService {
	var publisher message.Publisher
	if pub != nil {
		publisher = pub
	}
	svc := NewHandicapService(
		repo,
		publisher,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		handicapmetrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
		config.HandicapConfig{},
	)
	return svc.WithClock(NewAnchorClock(testNow))
}

// testCourse is an 18 hole par 72 course whose stroke index equals the hole number.
func testCourse() *handicapdb.Course {
	rating, slope := 70.5, 121
	c := &handicapdb.Course{ID: uuid.New(), Name: "Pine Hollow"}
	for i, par := range coursePars {
		c.Holes = append(c.Holes, handicapdb.CourseHole{Hole: i + 1, Par: par, StrokeIndex: i + 1})
	}
	c.Tees = []*handicapdb.CourseTee{{CourseID: c.ID, Name: "White", Rating: &rating, Slope: &slope}}
	return c
}

// holesToPar plays every hole at par and spreads toPar over the holes one stroke at a time.
func holesToPar(n, toPar int) []handicapdomain.HoleScore {
	strokes := make([]int, n)
	copy(strokes, coursePars[:n])
	step := 1
	if toPar < 0 {
		step, toPar = -1, -toPar
	}
	for i := 0; i < toPar; i++ {
		strokes[i%n] += step
	}
	holes := make([]handicapdomain.HoleScore, n)
	for i := range holes {
		holes[i] = handicapdomain.HoleScore{Hole: i + 1, Par: coursePars[i], Strokes: handicapdomain.IntPtr(strokes[i])}
	}
	return holes
}

func seedRound(repo *FakeHandicapRepo, course *handicapdb.Course, player string, playedOn time.Time, holesPlayed, toPar int) *handicapdb.Round {
	r := handicapdomain.Round{
		ID:          uuid.New(),
		PlayerID:    handicapdomain.PlayerID(player),
		CourseID:    course.ID,
		Date:        playedOn,
		HolesPlayed: holesPlayed,
		HoleScores:  holesToPar(holesPlayed, toPar),
		Tee:         handicapdomain.Tee{Name: "White"},
	}
	r.GrossScore, r.ToParGross = r.Totals()
	return repo.addRound(handicapdb.RoundFromDomain(r, handicapdb.SourceManual))
}

func TestNewHandicapService_Defaults(t *testing.T) {
	svc := NewHandicapService(NewFakeHandicapRepo(), nil, nil, nil, nil, nil, nil, config.HandicapConfig{})

	assert.NotNil(t, svc.logger)
	assert.NotNil(t, svc.parsers)
	assert.Equal(t, handicapdomain.DefaultToParDisplayFloor, svc.toParFloor)
	assert.NotNil(t, svc.clock)
}

func TestWithTelemetry_RecoversPanic(t *testing.T) {
	repo := NewFakeHandicapRepo()
	repo.ListRoundsByPlayerFunc = func(ctx context.Context, db bun.IDB, playerID string) ([]*handicapdb.Round, error) {
		panic("boom")
	}
	svc := newTestService(repo, nil)

	got, err := svc.GetPlayerHandicap(context.Background(), "alice")
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "panic in GetPlayerHandicap")
}

func TestWithTelemetry_WrapsInfrastructureErrors(t *testing.T) {
	repo := NewFakeHandicapRepo()
	dbErr := errors.New("connection refused")
	repo.ListRoundsByPlayerFunc = func(ctx context.Context, db bun.IDB, playerID string) ([]*handicapdb.Round, error) {
		return nil, dbErr
	}
	svc := newTestService(repo, nil)

	_, err := svc.GetPlayerHandicap(context.Background(), "alice")
	require.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "GetPlayerHandicap: failed to list rounds")
}

func TestAnchorClock(t *testing.T) {
	c := NewAnchorClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600)))
	assert.Equal(t, time.UTC, c.Now().Location())
	assert.Equal(t, 2, c.Now().Hour())

	assert.False(t, NewAnchorClock(time.Time{}).Now().IsZero())
}
