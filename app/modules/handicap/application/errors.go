package handicapservice

import "errors"

var (
	ErrInvalidRound      = errors.New("invalid round")
	ErrRoundNotFound     = errors.New("round not found")
	ErrPlayerRequired    = errors.New("player ID is required")
	ErrUnsupportedMetric = errors.New("unsupported leaderboard metric")
	ErrEmptyScorecard    = errors.New("scorecard is empty")
	ErrInvalidScorecard  = errors.New("scorecard could not be parsed")
	ErrCourseNotFound    = errors.New("course not found")
	ErrInvalidCourse     = errors.New("invalid course")
	ErrInvalidQuery      = errors.New("invalid leaderboard query")
	ErrInvalidDateRange  = errors.New("invalid date range")
)
