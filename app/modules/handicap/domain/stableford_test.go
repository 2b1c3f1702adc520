package handicapdomain

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
)

func TestStablefordPoints(t *testing.T) {
	tests := []struct {
		strokes, par, want int
	}{
		{1, 4, 4},
		{2, 4, 4},
		{3, 4, 3},
		{4, 4, 2},
		{5, 4, 1},
		{6, 4, 0},
		{11, 4, 0},
	}
	for _, tt := range tests {
		if got := StablefordPoints(tt.strokes, tt.par); got != tt.want {
			t.Errorf("StablefordPoints(%d, %d) = %d, want %d", tt.strokes, tt.par, got, tt.want)
		}
	}
}

func TestScoreStableford_GrossOnlyWithoutAllocation(t *testing.T) {
	holes := holesFrom(1, []int{4, 3, 0, 6}, []int{4, 4, 3, 4})
	got := ScoreStableford(holes, nil)
	if got.Gross != 2+3+0+0 {
		t.Fatalf("Gross = %d, want 5", got.Gross)
	}
	if got.Net != nil {
		t.Fatalf("expected net Stableford to be absent, got %d", *got.Net)
	}
}

func TestScoreStableford_NetUsesAllocation(t *testing.T) {
	holes := holesFrom(1, []int{5, 5}, []int{4, 4})
	got := ScoreStableford(holes, StrokeAllocation{1: 1, 2: 0})
	if got.Gross != 2 {
		t.Fatalf("Gross = %d, want 2", got.Gross)
	}
	if got.Net == nil || *got.Net != 3 {
		t.Fatalf("Net = %v, want 3", got.Net)
	}
}

func TestScoreStableford_WithinBounds(t *testing.T) {
	f := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		r := randomRound(f, "alice")
		played := 0
		for _, h := range r.HoleScores {
			if h.Played() {
				played++
			}
		}
		alloc, ok := AllocateStrokes(f.IntRange(-5, 36), r.HoleScores)
		if !ok {
			t.Fatalf("expected allocation for holes with stroke indexes")
		}
		got := ScoreStableford(r.HoleScores, alloc)
		for _, total := range []int{got.Gross, *got.Net} {
			if total < 0 || total > 4*played {
				t.Fatalf("total %d outside [0, %d]", total, 4*played)
			}
		}
	}
}

func TestAllocateStrokes(t *testing.T) {
	// stroke index 1 is hole 3, index 2 is hole 1, index 3 is hole 2
	holes := withStrokeIndexes(holesFrom(1, []int{5, 4, 6}, []int{4, 4, 4}), []int{2, 3, 1})

	tests := []struct {
		name     string
		handicap int
		want     StrokeAllocation
	}{
		{name: "scratch", handicap: 0, want: StrokeAllocation{1: 0, 2: 0, 3: 0}},
		{name: "one stroke on hardest", handicap: 1, want: StrokeAllocation{1: 0, 2: 0, 3: 1}},
		{name: "wraps around", handicap: 5, want: StrokeAllocation{1: 2, 2: 1, 3: 2}},
		{name: "plus handicap gives back on easiest", handicap: -1, want: StrokeAllocation{1: 0, 2: -1, 3: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AllocateStrokes(tt.handicap, holes)
			if !ok {
				t.Fatalf("expected allocation")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAllocateStrokes_MissingStrokeIndex(t *testing.T) {
	holes := withStrokeIndexes(holesFrom(1, []int{4, 5}, []int{4, 4}), []int{1, 0})
	if alloc, ok := AllocateStrokes(10, holes); ok || alloc != nil {
		t.Fatalf("expected no allocation when a stroke index is missing, got %v", alloc)
	}
	if _, ok := AllocateStrokes(10, nil); ok {
		t.Fatalf("expected no allocation for an empty card")
	}
}

func TestPlayingHandicap(t *testing.T) {
	if got := PlayingHandicap(10.4, MaxHoles); got != 10 {
		t.Fatalf("PlayingHandicap 18 = %d, want 10", got)
	}
	if got := PlayingHandicap(10.4, NineHoles); got != 5 {
		t.Fatalf("PlayingHandicap 9 = %d, want 5", got)
	}
}

func TestAllocateStrokes_IgnoresUnplayedHoles(t *testing.T) {
	// nine played holes with stroke indexes, hole 10 unplayed and unindexed
	front := withStrokeIndexes(holesFrom(1, []int{3, 3, 3, 3, 3, 3, 3, 3, 3}, []int{3, 3, 3, 3, 3, 3, 3, 3, 3}), []int{1, 3, 5, 7, 9, 11, 13, 15, 17})
	holes := append(front, HoleScore{Hole: 10, Par: 3})

	got := ScoreStableford(holes, nil)
	if got.Gross != 18 {
		t.Fatalf("Gross = %d, want 18", got.Gross)
	}
	alloc, ok := AllocateStrokes(9, holes)
	if !ok {
		t.Fatalf("unplayed hole without a stroke index must not block allocation")
	}
	if _, has := alloc[10]; has {
		t.Fatalf("unplayed hole received an allocation: %v", alloc)
	}
	net := ScoreStableford(holes, alloc)
	if net.Net == nil || *net.Net != 27 {
		t.Fatalf("Net = %v, want 27", net.Net)
	}
}

func TestAllocateStrokes_StrokesLandOnPlayedHoles(t *testing.T) {
	// eighteen-hole card with only the back nine played
	pars := make([]int, MaxHoles)
	strokes := make([]int, MaxHoles)
	indexes := make([]int, MaxHoles)
	for i := range pars {
		pars[i] = 4
		indexes[i] = i + 1
		if i >= NineHoles {
			strokes[i] = 5
		}
	}
	holes := withStrokeIndexes(holesFrom(1, strokes, pars), indexes)

	alloc, ok := AllocateStrokes(9, holes)
	if !ok {
		t.Fatalf("expected allocation")
	}
	total := 0
	for hole, n := range alloc {
		if hole <= NineHoles {
			t.Fatalf("unplayed hole %d received %d strokes", hole, n)
		}
		total += n
	}
	if total != 9 {
		t.Fatalf("strokes on played holes = %d, want 9", total)
	}
}
