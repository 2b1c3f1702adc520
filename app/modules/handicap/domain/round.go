package handicapdomain

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultTeeRating is used when a tee has no course rating recorded.
	DefaultTeeRating = 72.0
	// DefaultTeeSlope is used when a tee has no slope recorded.
	DefaultTeeSlope = 113

	// MaxHoles is the number of holes on a full course.
	MaxHoles = 18
	// NineHoles is the hole count of a half round.
	NineHoles = 9
)

// PlayerID identifies a player across rounds.
type PlayerID string

// HoleScore is a single hole on a scorecard.
// Strokes is nil (or zero) when the hole was not played.
type HoleScore struct {
	Hole              int   `json:"hole"`
	Par               int   `json:"par"`
	Strokes           *int  `json:"strokes,omitempty"`
	Putts             *int  `json:"putts,omitempty"`
	GreenInRegulation *bool `json:"green_in_regulation,omitempty"`
	Penalties         *int  `json:"penalties,omitempty"`
	// StrokeIndex is the hole's difficulty ranking on the course (1 = hardest), 0 when unknown.
	StrokeIndex int `json:"stroke_index,omitempty"`
}

// Played reports whether the hole has a recorded stroke count.
func (h HoleScore) Played() bool {
	return h.Strokes != nil && *h.Strokes > 0
}

// StrokeCount returns the recorded strokes, or 0 for an unplayed hole.
func (h HoleScore) StrokeCount() int {
	if !h.Played() {
		return 0
	}
	return *h.Strokes
}

// Tee describes the tee a round was played from.
type Tee struct {
	Name   string   `json:"name"`
	Rating *float64 `json:"rating,omitempty"`
	Slope  *int     `json:"slope,omitempty"`
}

// RatingOrDefault returns the course rating, falling back to DefaultTeeRating.
func (t Tee) RatingOrDefault() float64 {
	if t.Rating == nil || *t.Rating <= 0 {
		return DefaultTeeRating
	}
	return *t.Rating
}

// SlopeOrDefault returns the slope, falling back to DefaultTeeSlope.
func (t Tee) SlopeOrDefault() int {
	if t.Slope == nil || *t.Slope <= 0 {
		return DefaultTeeSlope
	}
	return *t.Slope
}

// Round is one completed scoring session.
type Round struct {
	ID          uuid.UUID `json:"id"`
	PlayerID    PlayerID  `json:"player_id"`
	CourseID    uuid.UUID `json:"course_id"`
	Date        time.Time `json:"date"`
	HolesPlayed int       `json:"holes_played"`
	GrossScore  int       `json:"gross_score"`
	ToParGross  int       `json:"to_par_gross"`

	NetScore        *int `json:"net_score,omitempty"`
	ToParNet        *int `json:"to_par_net,omitempty"`
	StablefordGross *int `json:"stableford_gross,omitempty"`
	StablefordNet   *int `json:"stableford_net,omitempty"`

	HoleScores []HoleScore `json:"hole_scores"`
	Tee        Tee         `json:"tee"`
}

// IsComplete reports whether the round carries a usable gross score.
func (r Round) IsComplete() bool {
	return r.GrossScore > 0
}

// IsNineHole reports whether the round itself was played as nine holes.
func (r Round) IsNineHole() bool {
	return r.HolesPlayed == NineHoles
}

// PlayedPar sums par over the holes that have strokes recorded.
func PlayedPar(holes []HoleScore) int {
	total := 0
	for _, h := range holes {
		if h.Played() {
			total += h.Par
		}
	}
	return total
}

// PlayedStrokes sums strokes over the holes that have strokes recorded.
func PlayedStrokes(holes []HoleScore) int {
	total := 0
	for _, h := range holes {
		total += h.StrokeCount()
	}
	return total
}

// Totals derives GrossScore and ToParGross from the hole scores so that
// ToParGross == GrossScore - par over played holes.
func (r Round) Totals() (gross, toPar int) {
	gross = PlayedStrokes(r.HoleScores)
	return gross, gross - PlayedPar(r.HoleScores)
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
