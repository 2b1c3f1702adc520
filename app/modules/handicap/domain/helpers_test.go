package handicapdomain

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

var (
	scenarioFrontStrokes = []int{5, 4, 4, 3, 5, 4, 4, 5, 4}
	scenarioBackStrokes  = []int{4, 5, 3, 5, 4, 4, 5, 4, 4}
	scenarioFrontPars    = []int{4, 4, 3, 4, 5, 3, 4, 5, 4}
	scenarioBackPars     = []int{4, 4, 3, 5, 4, 3, 5, 4, 4}
)

// holesFrom builds hole records numbered from firstHole. A stroke value of 0 is unplayed.
func holesFrom(firstHole int, strokes, pars []int) []HoleScore {
	holes := make([]HoleScore, len(pars))
	for i := range pars {
		holes[i] = HoleScore{Hole: firstHole + i, Par: pars[i]}
		if i < len(strokes) && strokes[i] > 0 {
			holes[i].Strokes = IntPtr(strokes[i])
		}
	}
	return holes
}

func withStrokeIndexes(holes []HoleScore, indexes []int) []HoleScore {
	for i := range holes {
		holes[i].StrokeIndex = indexes[i]
	}
	return holes
}

func roundFromHoles(player PlayerID, date time.Time, holesPlayed int, holes []HoleScore) Round {
	r := Round{
		ID:          uuid.New(),
		PlayerID:    player,
		Date:        date,
		HolesPlayed: holesPlayed,
		HoleScores:  holes,
		Tee:         Tee{Name: "White"},
	}
	r.GrossScore, r.ToParGross = r.Totals()
	return r
}

func scenarioBRound() Round {
	holes := append(holesFrom(1, scenarioFrontStrokes, scenarioFrontPars), holesFrom(10, scenarioBackStrokes, scenarioBackPars)...)
	return roundFromHoles("alice", time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), 18, holes)
}

func roundsWithToPar(toPars ...int) []Round {
	rounds := make([]Round, len(toPars))
	for i, tp := range toPars {
		rounds[i] = Round{
			ID:          uuid.New(),
			PlayerID:    "alice",
			HolesPlayed: 18,
			GrossScore:  72 + tp,
			ToParGross:  tp,
			Date:        time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC),
		}
	}
	return rounds
}

// randomRound generates an 18-hole round with a random mix of played and unplayed holes.
func randomRound(f *gofakeit.Faker, player PlayerID) Round {
	holes := make([]HoleScore, MaxHoles)
	for i := range holes {
		holes[i] = HoleScore{Hole: i + 1, Par: f.IntRange(3, 5), StrokeIndex: i + 1}
		if f.Float32() < 0.9 {
			holes[i].Strokes = IntPtr(f.IntRange(1, 10))
		}
	}
	return roundFromHoles(player, f.DateRange(
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	), MaxHoles, holes)
}
