package handicapservice

import (
	"time"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/google/uuid"
)

// RecordRoundRequest is a manually entered scorecard. Gross and to-par totals are always
// derived from the hole scores; the optional net and Stableford values are stored as given.
type RecordRoundRequest struct {
	PlayerID    string                     `json:"player_id"`
	CourseID    uuid.UUID                  `json:"course_id"`
	PlayedOn    time.Time                  `json:"played_on"`
	HolesPlayed int                        `json:"holes_played"`
	TeeName     string                     `json:"tee_name"`
	TeeRating   *float64                   `json:"tee_rating,omitempty"`
	TeeSlope    *int                       `json:"tee_slope,omitempty"`
	HoleScores  []handicapdomain.HoleScore `json:"hole_scores"`

	NetScore        *int `json:"net_score,omitempty"`
	ToParNet        *int `json:"to_par_net,omitempty"`
	StablefordGross *int `json:"stableford_gross,omitempty"`
	StablefordNet   *int `json:"stableford_net,omitempty"`
}

// UpsertCourseRequest creates or replaces a course layout and its tees.
type UpsertCourseRequest struct {
	ID       uuid.UUID               `json:"id"`
	Name     string                  `json:"name"`
	Location string                  `json:"location"`
	Holes    []handicapdb.CourseHole `json:"holes"`
	Tees     []handicapdomain.Tee    `json:"tees"`
}

// PlayerHandicap is a player's handicap as of ComputedAt.
type PlayerHandicap struct {
	PlayerID string `json:"player_id"`
	handicapdomain.HandicapState
	ComputedAt time.Time `json:"computed_at"`
	// LastRecalculatedAt is when the latest history snapshot was stored, nil when there is none.
	LastRecalculatedAt *time.Time `json:"last_recalculated_at,omitempty"`
}

// HandicapPoint is one stored snapshot in a player's handicap history.
type HandicapPoint struct {
	ComputedAt    time.Time `json:"computed_at"`
	HandicapIndex float64   `json:"handicap_index"`
	IsValid       bool      `json:"is_valid"`
}

// LeaderboardQuery selects and scores a course's round pool.
// Range is a natural-language start ("last 30 days", "2 weeks ago") and takes
// precedence over From/To when set.
type LeaderboardQuery struct {
	CourseID  uuid.UUID
	Metric    handicapdomain.Metric
	Holes     handicapdomain.HoleSelection
	From      time.Time
	To        time.Time
	Range     string
	TeeName   string
	RoundType handicapdomain.RoundType
	PlayerID  string
}

// Leaderboard is a ranked course pool.
type Leaderboard struct {
	CourseID   uuid.UUID                         `json:"course_id"`
	Metric     handicapdomain.Metric             `json:"metric"`
	Holes      handicapdomain.HoleSelection      `json:"holes"`
	From       *time.Time                        `json:"from,omitempty"`
	To         *time.Time                        `json:"to,omitempty"`
	Entries    []handicapdomain.LeaderboardEntry `json:"entries"`
	PlayerBest *handicapdomain.LeaderboardEntry  `json:"player_best,omitempty"`
}

// ImportScorecardRequest is an uploaded scorecard file for one course.
type ImportScorecardRequest struct {
	CourseID uuid.UUID
	FileName string
	Data     []byte
	PlayedOn time.Time
	TeeName  string
	// PlayerMap maps card names (case-insensitive) to player IDs. When nil,
	// every name on the card is used as its own player ID.
	PlayerMap map[string]string
}

// ImportResult lists the rounds created from a card and the names that were not imported.
type ImportResult struct {
	Rounds    []handicapdomain.Round `json:"rounds"`
	Unmatched []string               `json:"unmatched"`
	Skipped   []string               `json:"skipped"`
}
