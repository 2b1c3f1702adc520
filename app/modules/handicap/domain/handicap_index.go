package handicapdomain

import "math"

const (
	// DefaultRequiredRounds is the number of eligible rounds needed before an index is valid.
	DefaultRequiredRounds = 5

	handicapMultiplier = 0.96
)

// HandicapState is a player's derived handicap. It is never updated in place;
// a fresh state is computed from the full round history every time.
type HandicapState struct {
	HandicapIndex           float64 `json:"handicap_index"`
	RoundsNeededForHandicap int     `json:"rounds_needed_for_handicap"`
	IsValid                 bool    `json:"is_valid"`
	EligibleRounds          int     `json:"eligible_rounds"`
	ScoresUsed              int     `json:"scores_used"`
}

// HandicapCalculator reduces a player's rounds to a HandicapState.
// The zero value uses DefaultRequiredRounds and excludes incomplete rounds.
type HandicapCalculator struct {
	RequiredRounds int
	Policy         DifferentialPolicy
}

// ScoresToUse returns how many of the best differentials count for n eligible rounds.
//
//	n >= 20 -> 8, 15..19 -> 6, 10..14 -> 4, 5..9 -> 3, n < 5 -> 0
func ScoresToUse(n int) int {
	switch {
	case n >= 20:
		return 8
	case n >= 15:
		return 6
	case n >= 10:
		return 4
	case n >= 5:
		return 3
	default:
		return 0
	}
}

// ComputeHandicap computes a handicap using the default calculator.
func ComputeHandicap(rounds []Round) HandicapState {
	return HandicapCalculator{}.Compute(rounds)
}

// Compute derives the handicap state from the player's rounds.
func (c HandicapCalculator) Compute(rounds []Round) HandicapState {
	required := c.RequiredRounds
	if required <= 0 {
		required = DefaultRequiredRounds
	}

	diffs := SelectDifferentials(rounds, c.Policy)
	n := len(diffs)

	state := HandicapState{
		RoundsNeededForHandicap: max(0, required-n),
		EligibleRounds:          n,
	}
	state.IsValid = state.RoundsNeededForHandicap == 0

	k := ScoresToUse(n)
	if k == 0 {
		return state
	}

	sum := 0
	for _, d := range diffs[:k] {
		sum += d
	}
	mean := float64(sum) / float64(k)

	state.ScoresUsed = k
	state.HandicapIndex = max(0, roundToTenth(mean*handicapMultiplier))
	return state
}

func roundToTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
