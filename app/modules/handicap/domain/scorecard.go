package handicapdomain

// Scorecard is a round with its derived net and Stableford values filled in.
type Scorecard struct {
	Round
	HandicapApplied float64    `json:"handicap_applied"`
	ToParNetDisplay int        `json:"to_par_net_display"`
	Split           RoundSplit `json:"split"`
}

// BuildScorecard fills in absent net and Stableford values for display. Values already
// stored on the round are kept. Net Stableford is only derived when every played hole carries a
// stroke index; otherwise it stays absent. toParFloor bounds the displayed net to-par.
func BuildScorecard(r Round, handicapIndex float64, toParFloor int) Scorecard {
	holeCount := MaxHoles
	if r.IsNineHole() {
		holeCount = NineHoles
	}
	handicap := HandicapForHoles(handicapIndex, holeCount)

	card := Scorecard{
		Round:           r,
		HandicapApplied: handicap,
		Split:           SplitNines(r.HoleScores),
	}
	card.HoleScores = append([]HoleScore(nil), r.HoleScores...)

	if card.NetScore == nil && r.IsComplete() {
		card.NetScore = IntPtr(NetScore(r.GrossScore, handicap))
	}
	if card.ToParNet == nil && r.IsComplete() {
		card.ToParNet = IntPtr(NetToPar(r.ToParGross, handicap))
	}
	if card.ToParNet != nil {
		card.ToParNetDisplay = ClampToPar(*card.ToParNet, toParFloor)
	}

	if len(r.HoleScores) > 0 {
		alloc, ok := AllocateStrokes(PlayingHandicap(handicapIndex, holeCount), r.HoleScores)
		if !ok {
			alloc = nil
		}
		stableford := ScoreStableford(r.HoleScores, alloc)
		if card.StablefordGross == nil {
			card.StablefordGross = IntPtr(stableford.Gross)
		}
		if card.StablefordNet == nil && stableford.Net != nil {
			card.StablefordNet = stableford.Net
		}
	}
	return card
}
