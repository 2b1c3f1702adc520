package handicapdomain

import "testing"

func TestNetScore(t *testing.T) {
	tests := []struct {
		name     string
		gross    int
		handicap float64
		want     int
	}{
		{name: "scratch", gross: 80, handicap: 0, want: 80},
		{name: "whole handicap", gross: 90, handicap: 18, want: 72},
		{name: "rounds to nearest", gross: 90, handicap: 12.4, want: 78},
		{name: "never negative", gross: 10, handicap: 30, want: 0},
		{name: "nine hole share", gross: 48, handicap: HandicapForHoles(10.0, NineHoles), want: 43},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NetScore(tt.gross, tt.handicap); got != tt.want {
				t.Fatalf("NetScore(%d, %v) = %d, want %d", tt.gross, tt.handicap, got, tt.want)
			}
		})
	}
}

func TestNetScore_MonotonicInHandicap(t *testing.T) {
	for gross := 0; gross <= 120; gross += 7 {
		prev := NetScore(gross, 0)
		for h := 0.0; h <= 54; h += 0.3 {
			got := NetScore(gross, h)
			if got > prev {
				t.Fatalf("NetScore(%d, %v) = %d increased from %d", gross, h, got, prev)
			}
			if got < 0 {
				t.Fatalf("NetScore(%d, %v) = %d is negative", gross, h, got)
			}
			prev = got
		}
	}
}

func TestNetToPar(t *testing.T) {
	if got := NetToPar(5, 12.0); got != -7 {
		t.Fatalf("NetToPar(5, 12) = %d, want -7", got)
	}
	if got := NetToPar(-10, 40); got != -50 {
		t.Fatalf("NetToPar should not floor, got %d", got)
	}
	if got := ClampToPar(-50, DefaultToParDisplayFloor); got != DefaultToParDisplayFloor {
		t.Fatalf("ClampToPar = %d, want %d", got, DefaultToParDisplayFloor)
	}
	if got := ClampToPar(3, DefaultToParDisplayFloor); got != 3 {
		t.Fatalf("ClampToPar should leave in-range values alone, got %d", got)
	}
}

func TestNetRounding_HalvesAwayFromZero(t *testing.T) {
	tests := []struct {
		toPar    int
		handicap float64
		want     int
	}{
		{toPar: 3, handicap: 9.5, want: -7},
		{toPar: 10, handicap: 3.5, want: 7},
		{toPar: 0, handicap: 0.5, want: -1},
		{toPar: 2, handicap: 1.5, want: 1},
	}
	for _, tt := range tests {
		if got := NetToPar(tt.toPar, tt.handicap); got != tt.want {
			t.Errorf("NetToPar(%d, %v) = %d, want %d", tt.toPar, tt.handicap, got, tt.want)
		}
	}
	if got := NetScore(82, 9.5); got != 73 {
		t.Errorf("NetScore(82, 9.5) = %d, want 73", got)
	}
}

func TestHandicapOrZero(t *testing.T) {
	if got := HandicapOrZero(nil); got != 0 {
		t.Fatalf("missing handicap should be 0, got %v", got)
	}
	h := 7.5
	if got := HandicapOrZero(&h); got != 7.5 {
		t.Fatalf("HandicapOrZero = %v, want 7.5", got)
	}
	if got := NetScore(85, HandicapOrZero(nil)); got != 85 {
		t.Fatalf("net should equal gross without handicap, got %d", got)
	}
}
