package parsers

import (
	"errors"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
)

var (
	ErrUnsupportedFile = errors.New("unsupported scorecard file type")
	ErrNoParRow        = errors.New("no par row found")
	ErrNoPlayers       = errors.New("no player score rows found")
)

// ParsedScorecard is the content of one uploaded card: the course layout and one row per player.
// Hole numbers are positional, starting at 1.
type ParsedScorecard struct {
	Pars []int
	// StrokeIndexes is nil when the card carries no HCP/SI row.
	StrokeIndexes []int
	Players       []PlayerRow
}

// PlayerRow is one player's strokes. A zero entry is an unplayed hole.
type PlayerRow struct {
	Name    string
	Strokes []int
	Total   int
}

// HoleCount is the number of holes on the card.
func (c *ParsedScorecard) HoleCount() int {
	return len(c.Pars)
}

// HoleScores converts a player row into hole records for the engine.
func (c *ParsedScorecard) HoleScores(row PlayerRow) []handicapdomain.HoleScore {
	holes := make([]handicapdomain.HoleScore, len(c.Pars))
	for i, par := range c.Pars {
		h := handicapdomain.HoleScore{Hole: i + 1, Par: par}
		if i < len(row.Strokes) && row.Strokes[i] > 0 {
			h.Strokes = handicapdomain.IntPtr(row.Strokes[i])
		}
		if i < len(c.StrokeIndexes) {
			h.StrokeIndex = c.StrokeIndexes[i]
		}
		holes[i] = h
	}
	return holes
}
