package handicapdomain

import (
	"strings"
	"time"
)

// RoundType restricts a pool to rounds played as nine or eighteen holes.
type RoundType string

const (
	RoundTypeAll      RoundType = "all"
	RoundTypeNine     RoundType = "9"
	RoundTypeEighteen RoundType = "18"
)

// RoundFilter narrows a round pool. Zero values do not filter.
type RoundFilter struct {
	From      time.Time
	To        time.Time
	TeeName   string
	RoundType RoundType
}

// Matches reports whether r passes the filter. Both date bounds are inclusive.
func (f RoundFilter) Matches(r Round) bool {
	if !f.From.IsZero() && r.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && r.Date.After(f.To) {
		return false
	}
	if f.TeeName != "" && !strings.EqualFold(f.TeeName, r.Tee.Name) {
		return false
	}
	switch f.RoundType {
	case RoundTypeNine:
		return r.HolesPlayed == NineHoles
	case RoundTypeEighteen:
		return r.HolesPlayed == MaxHoles
	}
	return true
}

// FilterRounds returns the rounds matching f, preserving order.
func FilterRounds(rounds []Round, f RoundFilter) []Round {
	out := make([]Round, 0, len(rounds))
	for _, r := range rounds {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
