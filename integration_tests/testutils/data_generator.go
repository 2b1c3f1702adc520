package testutils

import (
	"fmt"
	"strings"
	"time"

	handicapservice "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/application"
	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// TestDataGenerator creates courses, players and rounds for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a generator; pass a seed for reproducible data.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

// GeneratePlayers returns count distinct player IDs.
func (g *TestDataGenerator) GeneratePlayers(count int) []string {
	players := make([]string, count)
	for i := range players {
		players[i] = fmt.Sprintf("%s-%d", strings.ToLower(g.faker.Username()), i)
	}
	return players
}

// GenerateCourse returns an eighteen-hole course with stroke indexes and a White tee.
func (g *TestDataGenerator) GenerateCourse() handicapservice.UpsertCourseRequest {
	order := make([]int, handicapdomain.MaxHoles)
	for i := range order {
		order[i] = i + 1
	}
	g.faker.ShuffleInts(order)

	holes := make([]handicapdb.CourseHole, handicapdomain.MaxHoles)
	for i := range holes {
		holes[i] = handicapdb.CourseHole{
			Hole:        i + 1,
			Par:         g.faker.RandomInt([]int{3, 4, 4, 5}),
			StrokeIndex: order[i],
		}
	}

	rating, slope := 70.1, 121
	return handicapservice.UpsertCourseRequest{
		ID:       uuid.New(),
		Name:     g.faker.City() + " Links",
		Location: g.faker.State(),
		Holes:    holes,
		Tees:     []handicapdomain.Tee{{Name: "White", Rating: &rating, Slope: &slope}},
	}
}

// GenerateRound returns a full round on course where every hole is overPar/18
// strokes over par, with the remainder spread over the first holes.
func (g *TestDataGenerator) GenerateRound(playerID string, course handicapservice.UpsertCourseRequest, playedOn time.Time, overPar int) handicapservice.RecordRoundRequest {
	holes := make([]handicapdomain.HoleScore, len(course.Holes))
	for i, h := range course.Holes {
		extra := overPar / len(course.Holes)
		if i < overPar%len(course.Holes) {
			extra++
		}
		holes[i] = handicapdomain.HoleScore{
			Hole:    h.Hole,
			Par:     h.Par,
			Strokes: handicapdomain.IntPtr(h.Par + extra),
		}
	}
	return handicapservice.RecordRoundRequest{
		PlayerID:    playerID,
		CourseID:    course.ID,
		PlayedOn:    playedOn,
		HolesPlayed: handicapdomain.MaxHoles,
		TeeName:     "White",
		HoleScores:  holes,
	}
}

// GenerateRandomRound is GenerateRound with a random score between par and 30 over.
func (g *TestDataGenerator) GenerateRandomRound(playerID string, course handicapservice.UpsertCourseRequest, playedOn time.Time) handicapservice.RecordRoundRequest {
	return g.GenerateRound(playerID, course, playedOn, g.faker.IntRange(0, 30))
}
