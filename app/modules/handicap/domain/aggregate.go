package handicapdomain

import "fmt"

// HoleSelection picks a subset of a round's holes.
type HoleSelection string

const (
	SelectAll    HoleSelection = "all"
	SelectFront9 HoleSelection = "front9"
	SelectBack9  HoleSelection = "back9"
)

// IsValid reports whether s is a known selection.
func (s HoleSelection) IsValid() bool {
	switch s {
	case SelectAll, SelectFront9, SelectBack9:
		return true
	}
	return false
}

// Contains reports whether hole number falls inside the selection.
// Selection is by hole number, never by position in the scorecard.
func (s HoleSelection) Contains(hole int) bool {
	switch s {
	case SelectFront9:
		return hole >= 1 && hole <= 9
	case SelectBack9:
		return hole >= 10 && hole <= MaxHoles
	default:
		return hole >= 1 && hole <= MaxHoles
	}
}

// SourceKind tags how a scored set of holes relates to the round it came from.
type SourceKind int

const (
	// SourceFull18 is an 18-hole round scored in full.
	SourceFull18 SourceKind = iota + 1
	// SourceNineHoleRound is a round played as nine holes.
	SourceNineHoleRound
	// SourceNineHoleSlice is the front or back nine cut out of an 18-hole round.
	SourceNineHoleSlice
)

// RoundSource is resolved once per (round, selection) so call sites never
// re-derive the nine-hole branching from HolesPlayed.
type RoundSource struct {
	Kind      SourceKind
	Selection HoleSelection
}

// ResolveSource decides what a selection means for a given round.
func ResolveSource(r Round, sel HoleSelection) RoundSource {
	if !sel.IsValid() {
		sel = SelectAll
	}
	switch {
	case r.IsNineHole():
		return RoundSource{Kind: SourceNineHoleRound, Selection: sel}
	case sel == SelectAll:
		return RoundSource{Kind: SourceFull18, Selection: sel}
	default:
		return RoundSource{Kind: SourceNineHoleSlice, Selection: sel}
	}
}

// HoleCount is the number of holes the source represents, which drives
// the handicap-halving policy.
func (s RoundSource) HoleCount() int {
	if s.Kind == SourceFull18 {
		return MaxHoles
	}
	return NineHoles
}

// Label is the display label used on leaderboards and scorecards.
func (s RoundSource) Label() string {
	half := "Front"
	if s.Selection == SelectBack9 {
		half = "Back"
	}
	switch s.Kind {
	case SourceFull18:
		return "18 Holes"
	case SourceNineHoleSlice:
		return fmt.Sprintf("%s 9 (from 18)", half)
	case SourceNineHoleRound:
		if s.Selection == SelectAll {
			return "9 Holes"
		}
		return fmt.Sprintf("%s 9 Only", half)
	}
	return ""
}

// Aggregate summarizes a subset of holes. Par covers played holes only.
type Aggregate struct {
	Strokes   int `json:"strokes"`
	Par       int `json:"par"`
	ToPar     int `json:"to_par"`
	HoleCount int `json:"hole_count"`
}

// AggregateHoles sums the played holes within sel. The boolean is false when no hole
// in range was played; such a subset must be left out rather than counted as zero.
func AggregateHoles(holes []HoleScore, sel HoleSelection) (Aggregate, bool) {
	var agg Aggregate
	for _, h := range holes {
		if !h.Played() || !sel.Contains(h.Hole) {
			continue
		}
		agg.Strokes += *h.Strokes
		agg.Par += h.Par
		agg.HoleCount++
	}
	if agg.HoleCount == 0 {
		return Aggregate{}, false
	}
	agg.ToPar = agg.Strokes - agg.Par
	return agg, true
}

// SelectHoles returns the holes inside sel, in scorecard order.
func SelectHoles(holes []HoleScore, sel HoleSelection) []HoleScore {
	out := make([]HoleScore, 0, len(holes))
	for _, h := range holes {
		if sel.Contains(h.Hole) {
			out = append(out, h)
		}
	}
	return out
}

// RoundAggregate is a round's totals under a selection.
type RoundAggregate struct {
	Aggregate
	Source RoundSource `json:"-"`
	Label  string      `json:"label"`
	// Holes are the hole records that produced the totals.
	Holes []HoleScore `json:"-"`
}

// AggregateRound applies sel to a round.
//
// A nine-hole round returns its full totals for any selection. An 18-hole round is
// sliced by hole number for front9/back9. When the round has no hole-level data,
// the whole-round totals are used for "all" and the round is omitted for slices.
func AggregateRound(r Round, sel HoleSelection) (RoundAggregate, bool) {
	src := ResolveSource(r, sel)
	out := RoundAggregate{Source: src, Label: src.Label()}

	switch src.Kind {
	case SourceNineHoleRound, SourceFull18:
		if agg, ok := AggregateHoles(r.HoleScores, SelectAll); ok {
			out.Aggregate = agg
			out.Holes = r.HoleScores
			return out, true
		}
		if !r.IsComplete() {
			return RoundAggregate{}, false
		}
		out.Aggregate = Aggregate{
			Strokes:   r.GrossScore,
			Par:       r.GrossScore - r.ToParGross,
			ToPar:     r.ToParGross,
			HoleCount: src.HoleCount(),
		}
		return out, true
	default:
		agg, ok := AggregateHoles(r.HoleScores, src.Selection)
		if !ok {
			return RoundAggregate{}, false
		}
		out.Aggregate = agg
		out.Holes = SelectHoles(r.HoleScores, src.Selection)
		return out, true
	}
}

// RoundSplit is the front/back/total breakdown shown on a scorecard.
// A half with no played holes is nil.
type RoundSplit struct {
	Front *Aggregate `json:"front,omitempty"`
	Back  *Aggregate `json:"back,omitempty"`
	Total *Aggregate `json:"total,omitempty"`
}

// SplitNines computes the front, back and total summaries of a scorecard.
func SplitNines(holes []HoleScore) RoundSplit {
	var split RoundSplit
	if agg, ok := AggregateHoles(holes, SelectFront9); ok {
		split.Front = &agg
	}
	if agg, ok := AggregateHoles(holes, SelectBack9); ok {
		split.Back = &agg
	}
	if agg, ok := AggregateHoles(holes, SelectAll); ok {
		split.Total = &agg
	}
	return split
}
