package handicapdomain

import "math"

// DefaultToParDisplayFloor is the lowest net to-par value shown to users.
const DefaultToParDisplayFloor = -36

// NetScore converts a gross score to a net score: max(0, gross - handicap), rounded
// to the nearest stroke with halves away from zero (72.5 -> 73). The converter is hole-count agnostic; callers halve the
// handicap for nine-hole scoring (see HandicapForHoles).
func NetScore(gross int, handicap float64) int {
	return max(0, int(math.Round(float64(gross)-handicap)))
}

// NetToPar converts a gross to-par value to net, rounding halves away from zero
// (-6.5 -> -7, 6.5 -> 7). It is not floored; use ClampToPar for display.
func NetToPar(toParGross int, handicap float64) int {
	return int(math.Round(float64(toParGross) - handicap))
}

// ClampToPar bounds a to-par value at floor for display.
func ClampToPar(toPar, floor int) int {
	return max(toPar, floor)
}

// HandicapForHoles returns the share of the handicap that applies to holeCount holes.
func HandicapForHoles(handicap float64, holeCount int) float64 {
	if holeCount == NineHoles {
		return handicap / 2
	}
	return handicap
}

// HandicapOrZero treats a missing handicap as scratch.
func HandicapOrZero(handicap *float64) float64 {
	if handicap == nil {
		return 0
	}
	return *handicap
}
