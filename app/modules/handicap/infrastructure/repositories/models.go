package handicapdb

import (
	"time"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Round sources.
const (
	SourceManual = "manual"
	SourceImport = "import"
)

// Round is a stored scorecard.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID              uuid.UUID                  `bun:"id,pk,type:uuid"`
	PlayerID        string                     `bun:"player_id,notnull"`
	CourseID        uuid.UUID                  `bun:"course_id,type:uuid,notnull"`
	PlayedOn        time.Time                  `bun:"played_on,notnull"`
	HolesPlayed     int                        `bun:"holes_played,notnull"`
	GrossScore      int                        `bun:"gross_score,notnull"`
	ToParGross      int                        `bun:"to_par_gross,notnull"`
	NetScore        *int                       `bun:"net_score"`
	ToParNet        *int                       `bun:"to_par_net"`
	StablefordGross *int                       `bun:"stableford_gross"`
	StablefordNet   *int                       `bun:"stableford_net"`
	HoleScores      []handicapdomain.HoleScore `bun:"hole_scores,type:jsonb"`
	TeeName         string                     `bun:"tee_name,nullzero"`
	TeeRating       *float64                   `bun:"tee_rating"`
	TeeSlope        *int                       `bun:"tee_slope"`
	Source          string                     `bun:"source,notnull,default:'manual'"`
	CreatedAt       time.Time                  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the stored row to the engine's Round.
func (r *Round) ToDomain() handicapdomain.Round {
	holes := r.HoleScores
	if holes == nil {
		holes = []handicapdomain.HoleScore{}
	}
	return handicapdomain.Round{
		ID:              r.ID,
		PlayerID:        handicapdomain.PlayerID(r.PlayerID),
		CourseID:        r.CourseID,
		Date:            r.PlayedOn,
		HolesPlayed:     r.HolesPlayed,
		GrossScore:      r.GrossScore,
		ToParGross:      r.ToParGross,
		NetScore:        r.NetScore,
		ToParNet:        r.ToParNet,
		StablefordGross: r.StablefordGross,
		StablefordNet:   r.StablefordNet,
		HoleScores:      holes,
		Tee: handicapdomain.Tee{
			Name:   r.TeeName,
			Rating: r.TeeRating,
			Slope:  r.TeeSlope,
		},
	}
}

// RoundFromDomain builds a row from an engine Round.
func RoundFromDomain(r handicapdomain.Round, source string) *Round {
	return &Round{
		ID:              r.ID,
		PlayerID:        string(r.PlayerID),
		CourseID:        r.CourseID,
		PlayedOn:        r.Date,
		HolesPlayed:     r.HolesPlayed,
		GrossScore:      r.GrossScore,
		ToParGross:      r.ToParGross,
		NetScore:        r.NetScore,
		ToParNet:        r.ToParNet,
		StablefordGross: r.StablefordGross,
		StablefordNet:   r.StablefordNet,
		HoleScores:      r.HoleScores,
		TeeName:         r.Tee.Name,
		TeeRating:       r.Tee.Rating,
		TeeSlope:        r.Tee.Slope,
		Source:          source,
	}
}

// CourseHole is the static par and stroke index of one hole.
type CourseHole struct {
	Hole        int `json:"hole"`
	Par         int `json:"par"`
	StrokeIndex int `json:"stroke_index,omitempty"`
}

// Course is a golf course with its hole layout.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID        uuid.UUID    `bun:"id,pk,type:uuid"`
	Name      string       `bun:"name,notnull"`
	Location  string       `bun:"location,nullzero"`
	Holes     []CourseHole `bun:"holes,type:jsonb"`
	CreatedAt time.Time    `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time    `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Tees []*CourseTee `bun:"rel:has-many,join:id=course_id"`
}

// CourseTee is a named tee with optional rating and slope.
type CourseTee struct {
	bun.BaseModel `bun:"table:course_tees,alias:ct"`

	ID       int64     `bun:"id,pk,autoincrement"`
	CourseID uuid.UUID `bun:"course_id,type:uuid,notnull"`
	Name     string    `bun:"name,notnull"`
	Rating   *float64  `bun:"rating"`
	Slope    *int      `bun:"slope"`
}

// Tee returns the tee by case-insensitive name.
func (c *Course) Tee(name string) (*CourseTee, bool) {
	for _, t := range c.Tees {
		if equalFold(t.Name, name) {
			return t, true
		}
	}
	return nil, false
}

// StrokeIndexes maps hole number to stroke index for holes that define one.
func (c *Course) StrokeIndexes() map[int]int {
	out := make(map[int]int, len(c.Holes))
	for _, h := range c.Holes {
		if h.StrokeIndex > 0 {
			out[h.Hole] = h.StrokeIndex
		}
	}
	return out
}

// HandicapSnapshot is one entry in a player's handicap history.
// Snapshots are append-only; the latest one is the current state.
type HandicapSnapshot struct {
	bun.BaseModel `bun:"table:handicap_history,alias:hh"`

	ID                      int64     `bun:"id,pk,autoincrement"`
	PlayerID                string    `bun:"player_id,notnull"`
	HandicapIndex           float64   `bun:"handicap_index,notnull"`
	RoundsNeededForHandicap int       `bun:"rounds_needed,notnull"`
	IsValid                 bool      `bun:"is_valid,notnull"`
	EligibleRounds          int       `bun:"eligible_rounds,notnull"`
	ScoresUsed              int       `bun:"scores_used,notnull"`
	ComputedAt              time.Time `bun:"computed_at,nullzero,notnull,default:current_timestamp"`
}

// State converts the snapshot to the engine's HandicapState.
func (s *HandicapSnapshot) State() handicapdomain.HandicapState {
	return handicapdomain.HandicapState{
		HandicapIndex:           s.HandicapIndex,
		RoundsNeededForHandicap: s.RoundsNeededForHandicap,
		IsValid:                 s.IsValid,
		EligibleRounds:          s.EligibleRounds,
		ScoresUsed:              s.ScoresUsed,
	}
}

// SnapshotFromState builds a history row for player.
func SnapshotFromState(player handicapdomain.PlayerID, state handicapdomain.HandicapState, at time.Time) *HandicapSnapshot {
	return &HandicapSnapshot{
		PlayerID:                string(player),
		HandicapIndex:           state.HandicapIndex,
		RoundsNeededForHandicap: state.RoundsNeededForHandicap,
		IsValid:                 state.IsValid,
		EligibleRounds:          state.EligibleRounds,
		ScoresUsed:              state.ScoresUsed,
		ComputedAt:              at,
	}
}
