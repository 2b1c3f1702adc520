package handicapdomain

import "slices"

// DifferentialPolicy controls which rounds are eligible for handicap computation.
type DifferentialPolicy struct {
	// IncludeIncomplete keeps rounds with a gross score <= 0 in the eligible set.
	IncludeIncomplete bool
}

// EligibleRounds returns the rounds usable for handicap computation under the policy.
func EligibleRounds(rounds []Round, policy DifferentialPolicy) []Round {
	eligible := make([]Round, 0, len(rounds))
	for _, r := range rounds {
		if !policy.IncludeIncomplete && !r.IsComplete() {
			continue
		}
		eligible = append(eligible, r)
	}
	return eligible
}

// SelectDifferentials returns the eligible rounds' differentials sorted ascending (best first).
//
// A differential here is the round's gross to-par value, a simplified stand-in for a
// course/slope-normalized score differential.
func SelectDifferentials(rounds []Round, policy DifferentialPolicy) []int {
	eligible := EligibleRounds(rounds, policy)
	diffs := make([]int, len(eligible))
	for i, r := range eligible {
		diffs[i] = r.ToParGross
	}
	slices.Sort(diffs)
	return diffs
}
