package handicapqueue

// RecalculateHandicapJob recomputes one player's handicap from their full history.
// Jobs are unique by args, so a burst of rounds for a player collapses into one job.
type RecalculateHandicapJob struct {
	PlayerID string `json:"player_id"`
}

// Kind returns the job type identifier for River
func (RecalculateHandicapJob) Kind() string { return "handicap_recalculate" }

// JobInfo represents information about a queued job (for debugging/monitoring)
type JobInfo struct {
	ID          int64  `json:"id"`
	Kind        string `json:"kind"`
	PlayerID    string `json:"player_id"`
	State       string `json:"state"`
	ScheduledAt string `json:"scheduled_at"`
	CreatedAt   string `json:"created_at"`
	Attempt     int    `json:"attempt"`
	MaxAttempts int    `json:"max_attempts"`
}
