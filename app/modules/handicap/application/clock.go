package handicapservice

import "time"

// Clock supplies the current time for relative date ranges and default round dates.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// AnchorClock always returns the anchor time.
type AnchorClock struct {
	anchor time.Time
}

// NewAnchorClock creates a new AnchorClock. The zero time anchors to the current UTC time.
func NewAnchorClock(t time.Time) AnchorClock {
	if t.IsZero() {
		return AnchorClock{anchor: time.Now().UTC()}
	}
	return AnchorClock{anchor: t.UTC()}
}

func (c AnchorClock) Now() time.Time { return c.anchor }

// WithClock replaces the service clock.
func (s *HandicapService) WithClock(c Clock) *HandicapService {
	if c != nil {
		s.clock = c
	}
	return s
}
