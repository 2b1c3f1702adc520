package handicapdomain

import (
	"slices"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

var day = func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

func scored(player PlayerID, score int, date time.Time) ScoredRound {
	return ScoredRound{RoundID: uuid.New(), PlayerID: player, DisplayScore: score, Date: date, HolesPlayedLabel: "18 Holes"}
}

func TestRank_EmptyPool(t *testing.T) {
	got := Rank(nil, MetricGross)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil leaderboard, got %#v", got)
	}
}

func TestRank_SortDirectionPerMetric(t *testing.T) {
	pool := []ScoredRound{
		scored("alice", 80, day(1)),
		scored("bob", 72, day(2)),
		scored("carol", 90, day(3)),
	}

	tests := []struct {
		metric Metric
		want   []PlayerID
	}{
		{MetricGross, []PlayerID{"bob", "alice", "carol"}},
		{MetricNet, []PlayerID{"bob", "alice", "carol"}},
		{MetricStablefordGross, []PlayerID{"carol", "alice", "bob"}},
		{MetricStablefordNet, []PlayerID{"carol", "alice", "bob"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			entries := Rank(pool, tt.metric)
			var got []PlayerID
			for i, e := range entries {
				got = append(got, e.PlayerID)
				if e.Rank != i+1 {
					t.Fatalf("entry %d has rank %d", i, e.Rank)
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRank_TiesBreakOnEarliestDateThenInputOrder(t *testing.T) {
	pool := []ScoredRound{
		scored("late", 75, day(20)),
		scored("early", 75, day(2)),
		scored("sameA", 75, day(10)),
		scored("sameB", 75, day(10)),
	}
	entries := Rank(pool, MetricGross)
	var got []PlayerID
	for _, e := range entries {
		got = append(got, e.PlayerID)
	}
	want := []PlayerID{"early", "sameA", "sameB", "late"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("tie order mismatch (-want +got):\n%s", diff)
	}
}

func TestRank_RanksArePermutation(t *testing.T) {
	f := gofakeit.New(11)
	for n := 0; n < 40; n++ {
		pool := make([]ScoredRound, n)
		for i := range pool {
			pool[i] = scored(PlayerID(f.FirstName()), f.IntRange(60, 110), f.Date())
		}
		entries := Rank(pool, MetricGross)
		if len(entries) != n {
			t.Fatalf("len = %d, want %d", len(entries), n)
		}
		ranks := make([]int, len(entries))
		for i, e := range entries {
			ranks[i] = e.Rank
		}
		slices.Sort(ranks)
		for i, r := range ranks {
			if r != i+1 {
				t.Fatalf("ranks are not 1..%d: %v", n, ranks)
			}
		}
		if diff := cmp.Diff(entries, Rank(pool, MetricGross)); diff != "" {
			t.Fatalf("ranking not deterministic:\n%s", diff)
		}
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	pool := []ScoredRound{scored("a", 90, day(1)), scored("b", 70, day(1))}
	before := slices.Clone(pool)
	Rank(pool, MetricGross)
	if diff := cmp.Diff(before, pool); diff != "" {
		t.Fatalf("input mutated:\n%s", diff)
	}
}

func TestBestRoundForPlayer(t *testing.T) {
	pool := []ScoredRound{
		scored("alice", 82, day(1)),
		scored("bob", 70, day(2)),
		scored("alice", 76, day(3)),
		scored("alice", 79, day(4)),
	}

	entries := Rank(pool, MetricGross)
	best, ok := BestRoundForPlayer(entries, "alice", MetricGross)
	if !ok || best.DisplayScore != 76 || best.Rank != 2 {
		t.Fatalf("unexpected best gross entry %+v", best)
	}

	stableford := Rank(pool, MetricStablefordGross)
	best, ok = BestRoundForPlayer(stableford, "alice", MetricStablefordGross)
	if !ok || best.DisplayScore != 82 || best.Rank != 1 {
		t.Fatalf("unexpected best Stableford entry %+v", best)
	}

	if _, ok := BestRoundForPlayer(entries, "nobody", MetricGross); ok {
		t.Fatalf("expected no entry for unknown player")
	}
}

func TestScoreRound_NetHalvesHandicapForNineHoles(t *testing.T) {
	nine := roundFromHoles("dave", day(5), 9, holesFrom(1, []int{6, 5, 5, 5, 6, 5, 5, 6, 5}, scenarioFrontPars))
	if nine.GrossScore != 48 {
		t.Fatalf("fixture gross = %d, want 48", nine.GrossScore)
	}
	got, ok := ScoreRound(nine, MetricNet, SelectAll, 10.0)
	if !ok || got.DisplayScore != 43 {
		t.Fatalf("net = %d, want 43", got.DisplayScore)
	}

	full := scenarioBRound()
	slice, ok := ScoreRound(full, MetricNet, SelectFront9, 10.0)
	if !ok || slice.DisplayScore != 33 || slice.HolesPlayedLabel != "Front 9 (from 18)" {
		t.Fatalf("unexpected front nine net %+v", slice)
	}
	whole, ok := ScoreRound(full, MetricNet, SelectAll, 10.0)
	if !ok || whole.DisplayScore != 66 {
		t.Fatalf("unexpected full round net %+v", whole)
	}
}

func TestScoreRound_PrecomputedValuesOnlyForWholeRound(t *testing.T) {
	r := scenarioBRound()
	r.NetScore = IntPtr(70)
	whole, _ := ScoreRound(r, MetricNet, SelectAll, 10)
	if whole.DisplayScore != 70 {
		t.Fatalf("expected stored net score, got %d", whole.DisplayScore)
	}
	slice, _ := ScoreRound(r, MetricNet, SelectBack9, 10)
	if slice.DisplayScore != 33 {
		t.Fatalf("expected slice net derived from holes, got %d", slice.DisplayScore)
	}
}

func TestScoreRound_StablefordNetRequiresAllocation(t *testing.T) {
	r := scenarioBRound()
	if _, ok := ScoreRound(r, MetricStablefordNet, SelectAll, 12); ok {
		t.Fatalf("expected round without stroke indexes to be excluded")
	}

	r.StablefordNet = IntPtr(37)
	got, ok := ScoreRound(r, MetricStablefordNet, SelectAll, 12)
	if !ok || got.DisplayScore != 37 {
		t.Fatalf("expected stored net Stableford, got %+v", got)
	}
	if _, ok := ScoreRound(r, MetricStablefordNet, SelectFront9, 12); ok {
		t.Fatalf("stored whole-round value must not be used for a slice")
	}

	indexes := make([]int, MaxHoles)
	for i := range indexes {
		indexes[i] = i + 1
	}
	r.StablefordNet = nil
	r.HoleScores = withStrokeIndexes(r.HoleScores, indexes)
	got, ok = ScoreRound(r, MetricStablefordNet, SelectAll, 18)
	if !ok {
		t.Fatalf("expected net Stableford with stroke indexes")
	}
	// one stroke on every hole; every scenario hole is within one of par so each earns one more point
	gross, _ := ScoreRound(r, MetricStablefordGross, SelectAll, 18)
	if got.DisplayScore != gross.DisplayScore+18 {
		t.Fatalf("net %d, gross %d", got.DisplayScore, gross.DisplayScore)
	}
}

func TestScorePool_DropsUnscorableRounds(t *testing.T) {
	front := holesFrom(1, scenarioFrontStrokes, scenarioFrontPars)
	frontOnly := roundFromHoles("erin", day(8), 18, append(front, holesFrom(10, nil, scenarioBackPars)...))
	pool := ScorePool([]Round{scenarioBRound(), frontOnly}, MetricGross, SelectBack9, nil)
	if len(pool) != 1 || pool[0].PlayerID != "alice" {
		t.Fatalf("expected only alice's round, got %+v", pool)
	}
}

func TestFilterRounds(t *testing.T) {
	a := scenarioBRound()
	a.Date = day(1)
	b := roundFromHoles("bob", day(10), 9, holesFrom(1, scenarioFrontStrokes, scenarioFrontPars))
	b.Tee.Name = "Blue"

	if got := FilterRounds([]Round{a, b}, RoundFilter{RoundType: RoundTypeNine}); len(got) != 1 || got[0].PlayerID != "bob" {
		t.Fatalf("round type filter failed: %+v", got)
	}
	if got := FilterRounds([]Round{a, b}, RoundFilter{TeeName: "white"}); len(got) != 1 || got[0].PlayerID != "alice" {
		t.Fatalf("tee filter failed: %+v", got)
	}
	if got := FilterRounds([]Round{a, b}, RoundFilter{From: day(5), To: day(10)}); len(got) != 1 || got[0].PlayerID != "bob" {
		t.Fatalf("date filter failed: %+v", got)
	}
	if got := FilterRounds([]Round{a, b}, RoundFilter{}); len(got) != 2 {
		t.Fatalf("empty filter should keep everything")
	}
}
