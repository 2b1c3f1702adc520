package handicapdomain

import (
	"cmp"
	"math"
	"slices"
)

// StrokeAllocation maps hole number to the handicap strokes received on that hole.
type StrokeAllocation map[int]int

// StablefordResult holds the Stableford totals for a set of holes.
// Net is nil when no stroke allocation was available.
type StablefordResult struct {
	Gross int  `json:"gross"`
	Net   *int `json:"net,omitempty"`
}

// StablefordPoints scores one hole against its net par.
//
//	<= -2: 4, -1: 3, 0: 2, +1: 1, >= +2: 0
func StablefordPoints(strokes, netPar int) int {
	switch diff := strokes - netPar; {
	case diff <= -2:
		return 4
	case diff == -1:
		return 3
	case diff == 0:
		return 2
	case diff == 1:
		return 1
	default:
		return 0
	}
}

// ScoreStableford totals Stableford points. Gross scoring uses raw par. Net scoring uses
// par plus the allocated strokes and is only produced when allocation is non-nil.
// Unplayed holes score 0.
func ScoreStableford(holes []HoleScore, allocation StrokeAllocation) StablefordResult {
	var gross, net int
	for _, h := range holes {
		if !h.Played() {
			continue
		}
		gross += StablefordPoints(*h.Strokes, h.Par)
		if allocation != nil {
			net += StablefordPoints(*h.Strokes, h.Par+allocation[h.Hole])
		}
	}

	res := StablefordResult{Gross: gross}
	if allocation != nil {
		res.Net = &net
	}
	return res
}

// PlayingHandicap converts a handicap index into whole strokes for holeCount holes.
func PlayingHandicap(handicapIndex float64, holeCount int) int {
	return int(math.Round(HandicapForHoles(handicapIndex, holeCount)))
}

// AllocateStrokes distributes playingHandicap strokes across the played holes by stroke index.
//
// Every played hole receives playingHandicap / played strokes, and the hardest
// (playingHandicap mod played) holes receive one more. A negative handicap gives
// strokes back starting from the easiest hole. Unplayed holes get nothing and need no
// stroke index. The boolean is false when there are no played holes or a played hole
// lacks a stroke index.
func AllocateStrokes(playingHandicap int, holes []HoleScore) (StrokeAllocation, bool) {
	var ranked []HoleScore
	for _, h := range holes {
		if !h.Played() {
			continue
		}
		if h.StrokeIndex <= 0 {
			return nil, false
		}
		ranked = append(ranked, h)
	}
	if len(ranked) == 0 {
		return nil, false
	}

	slices.SortStableFunc(ranked, func(a, b HoleScore) int {
		return cmp.Compare(a.StrokeIndex, b.StrokeIndex)
	})

	n := len(ranked)
	alloc := make(StrokeAllocation, n)

	if playingHandicap < 0 {
		give := -playingHandicap
		base, extra := give/n, give%n
		for i := range ranked {
			strokes := base
			// easiest holes are at the end of ranked
			if i >= n-extra {
				strokes++
			}
			alloc[ranked[i].Hole] = -strokes
		}
		return alloc, true
	}

	base, extra := playingHandicap/n, playingHandicap%n
	for i, h := range ranked {
		strokes := base
		if i < extra {
			strokes++
		}
		alloc[h.Hole] = strokes
	}
	return alloc, true
}
