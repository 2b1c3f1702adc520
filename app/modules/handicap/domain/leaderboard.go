package handicapdomain

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Metric is the score a leaderboard is ranked by.
type Metric string

const (
	MetricGross           Metric = "gross"
	MetricNet             Metric = "net"
	MetricStablefordGross Metric = "stableford-gross"
	MetricStablefordNet   Metric = "stableford-net"
)

// IsValid reports whether m is a known metric.
func (m Metric) IsValid() bool {
	switch m {
	case MetricGross, MetricNet, MetricStablefordGross, MetricStablefordNet:
		return true
	}
	return false
}

// HigherIsBetter is true for the Stableford metrics, which sort descending.
func (m Metric) HigherIsBetter() bool {
	return m == MetricStablefordGross || m == MetricStablefordNet
}

// Better reports whether score a beats score b under m.
func (m Metric) Better(a, b int) bool {
	if m.HigherIsBetter() {
		return a > b
	}
	return a < b
}

// ScoredRound is a round reduced to a single display score for one metric.
type ScoredRound struct {
	RoundID          uuid.UUID `json:"round_id"`
	PlayerID         PlayerID  `json:"player_id"`
	Date             time.Time `json:"date"`
	DisplayScore     int       `json:"display_score"`
	HolesPlayedLabel string    `json:"holes_played_label"`
	TeeName          string    `json:"tee_name"`
}

// LeaderboardEntry is a ranked ScoredRound.
type LeaderboardEntry struct {
	ScoredRound
	Rank int `json:"rank"`
}

// ScoreRound converts a round into a ScoredRound for metric under sel. handicapIndex is the
// player's full-round index; it is halved here when the scored holes represent nine holes.
// The boolean is false when the round cannot be scored for the metric (no played holes in
// range, or net Stableford without a stroke allocation).
func ScoreRound(r Round, metric Metric, sel HoleSelection, handicapIndex float64) (ScoredRound, bool) {
	agg, ok := AggregateRound(r, sel)
	if !ok {
		return ScoredRound{}, false
	}

	scored := ScoredRound{
		RoundID:          r.ID,
		PlayerID:         r.PlayerID,
		Date:             r.Date,
		HolesPlayedLabel: agg.Label,
		TeeName:          r.Tee.Name,
	}

	// precomputed whole-round values only describe the whole round
	wholeRound := agg.Source.Kind != SourceNineHoleSlice
	holeCount := agg.Source.HoleCount()

	switch metric {
	case MetricGross:
		scored.DisplayScore = agg.Strokes
	case MetricNet:
		if wholeRound && r.NetScore != nil {
			scored.DisplayScore = *r.NetScore
		} else {
			scored.DisplayScore = NetScore(agg.Strokes, HandicapForHoles(handicapIndex, holeCount))
		}
	case MetricStablefordGross:
		switch {
		case len(agg.Holes) > 0:
			scored.DisplayScore = ScoreStableford(agg.Holes, nil).Gross
		case wholeRound && r.StablefordGross != nil:
			scored.DisplayScore = *r.StablefordGross
		default:
			return ScoredRound{}, false
		}
	case MetricStablefordNet:
		if alloc, ok := AllocateStrokes(PlayingHandicap(handicapIndex, holeCount), agg.Holes); ok {
			scored.DisplayScore = *ScoreStableford(agg.Holes, alloc).Net
		} else if wholeRound && r.StablefordNet != nil {
			scored.DisplayScore = *r.StablefordNet
		} else {
			return ScoredRound{}, false
		}
	default:
		return ScoredRound{}, false
	}
	return scored, true
}

// ScorePool scores every round for the metric, dropping rounds that cannot be scored.
// Handicaps missing from the map are treated as scratch.
func ScorePool(rounds []Round, metric Metric, sel HoleSelection, handicaps map[PlayerID]float64) []ScoredRound {
	pool := make([]ScoredRound, 0, len(rounds))
	for _, r := range rounds {
		if s, ok := ScoreRound(r, metric, sel, handicaps[r.PlayerID]); ok {
			pool = append(pool, s)
		}
	}
	return pool
}

// Rank sorts the pool for metric and assigns dense 1-based ranks. Ties on the score are
// broken by the earlier round date, then by input order.
func Rank(pool []ScoredRound, metric Metric) []LeaderboardEntry {
	sorted := slices.Clone(pool)
	slices.SortStableFunc(sorted, func(a, b ScoredRound) int {
		c := cmp.Compare(a.DisplayScore, b.DisplayScore)
		if metric.HigherIsBetter() {
			c = -c
		}
		if c != 0 {
			return c
		}
		return a.Date.Compare(b.Date)
	})

	entries := make([]LeaderboardEntry, len(sorted))
	for i, s := range sorted {
		entries[i] = LeaderboardEntry{ScoredRound: s, Rank: i + 1}
	}
	return entries
}

// BestRoundForPlayer returns the player's best entry under metric. Among equal scores
// the better-ranked entry wins.
func BestRoundForPlayer(entries []LeaderboardEntry, playerID PlayerID, metric Metric) (LeaderboardEntry, bool) {
	var (
		best  LeaderboardEntry
		found bool
	)
	for _, e := range entries {
		if e.PlayerID != playerID {
			continue
		}
		if !found || metric.Better(e.DisplayScore, best.DisplayScore) ||
			(e.DisplayScore == best.DisplayScore && e.Rank < best.Rank) {
			best = e
			found = true
		}
	}
	return best, found
}
