// Package handicapevents defines the topics and payloads the handicap module
// publishes on the event bus.
package handicapevents

import (
	"time"

	"github.com/google/uuid"
)

const (
	// RoundRecordedV1 is published after a round has been stored.
	RoundRecordedV1 = "round.recorded.v1"
	// RoundDeletedV1 is published after a round has been removed.
	RoundDeletedV1 = "round.deleted.v1"
	// HandicapUpdatedV1 is published after a player's handicap has been recomputed.
	HandicapUpdatedV1 = "handicap.updated.v1"
)

// RoundRecordedPayloadV1 is the payload of RoundRecordedV1.
type RoundRecordedPayloadV1 struct {
	RoundID     uuid.UUID `json:"round_id"`
	PlayerID    string    `json:"player_id"`
	CourseID    uuid.UUID `json:"course_id"`
	PlayedOn    time.Time `json:"played_on"`
	HolesPlayed int       `json:"holes_played"`
	GrossScore  int       `json:"gross_score"`
	ToParGross  int       `json:"to_par_gross"`
	Source      string    `json:"source"`
}

// RoundDeletedPayloadV1 is the payload of RoundDeletedV1.
type RoundDeletedPayloadV1 struct {
	RoundID  uuid.UUID `json:"round_id"`
	PlayerID string    `json:"player_id"`
}

// HandicapUpdatedPayloadV1 is the payload of HandicapUpdatedV1.
type HandicapUpdatedPayloadV1 struct {
	PlayerID                string    `json:"player_id"`
	HandicapIndex           float64   `json:"handicap_index"`
	IsValid                 bool      `json:"is_valid"`
	RoundsNeededForHandicap int       `json:"rounds_needed_for_handicap"`
	EligibleRounds          int       `json:"eligible_rounds"`
	ComputedAt              time.Time `json:"computed_at"`
}
