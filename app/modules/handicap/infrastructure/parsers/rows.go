package parsers

import (
	"fmt"
	"strconv"
	"strings"
)

// parseRows is shared by the CSV and XLSX parsers once a sheet has been read into rows.
// The first column holds the row label (Par, HCP/SI or the player name); hole values follow.
func parseRows(rows [][]string) (*ParsedScorecard, error) {
	parIdx, pars, err := findParRow(rows)
	if err != nil {
		return nil, err
	}
	if parIdx < 0 {
		return nil, ErrNoParRow
	}

	card := &ParsedScorecard{Pars: pars}

	siIdx := -1
	for i, row := range rows {
		if len(row) == 0 || !isStrokeIndexRow(row[0]) {
			continue
		}
		indexes, err := parseHoleValues(row[1:], len(pars))
		if err != nil {
			return nil, fmt.Errorf("invalid stroke index row at line %d: %w", i+1, err)
		}
		card.StrokeIndexes = indexes
		siIdx = i
		break
	}

	// player rows follow the par row
	for i := parIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if i == siIdx || len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		strokes, err := parseHoleValues(row[1:], len(pars))
		if err != nil {
			return nil, fmt.Errorf("invalid scores for player %q at line %d: %w", name, i+1, err)
		}
		total := 0
		for _, s := range strokes {
			total += s
		}
		card.Players = append(card.Players, PlayerRow{Name: name, Strokes: strokes, Total: total})
	}

	if len(card.Players) == 0 {
		return nil, ErrNoPlayers
	}
	return card, nil
}

// findParRow identifies the par row and extracts par values
func findParRow(rows [][]string) (int, []int, error) {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}

		if isParRow(row[0]) {
			pars, err := parseParValues(row[1:])
			if err != nil {
				return -1, nil, fmt.Errorf("invalid par row at line %d: %w", i+1, err)
			}
			return i, pars, nil
		}

		// an unlabeled, fully numeric row of at least nine values
		if !isLikelyPlayerName(row[0]) {
			if pars, err := parseParValues(row); err == nil && len(pars) >= 9 {
				return i, pars, nil
			}
		}
	}
	return -1, nil, nil
}

// parseParValues reads a dense par row, dropping a trailing total column.
func parseParValues(cells []string) ([]int, error) {
	var pars []int
	for _, val := range cells {
		val = strings.TrimSpace(val)
		if val == "" || val == "-" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("non-numeric par value: %q", val)
		}
		if n < 0 {
			return nil, fmt.Errorf("negative par value: %d", n)
		}
		pars = append(pars, n)
	}
	if len(pars) == 10 || len(pars) == 19 {
		sum := 0
		for _, p := range pars[:len(pars)-1] {
			sum += p
		}
		if sum == pars[len(pars)-1] {
			pars = pars[:len(pars)-1]
		}
	}
	return pars, nil
}

// parseHoleValues reads n positional hole values. Blank and "-" cells are unplayed holes (0).
// Cells past the last hole (totals, +/-) are ignored.
func parseHoleValues(cells []string, n int) ([]int, error) {
	values := make([]int, n)
	for i := 0; i < n && i < len(cells); i++ {
		val := strings.TrimSpace(cells[i])
		if val == "" || val == "-" {
			continue
		}
		v, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("non-numeric value for hole %d: %q", i+1, val)
		}
		if v < 0 {
			return nil, fmt.Errorf("negative value for hole %d: %d", i+1, v)
		}
		values[i] = v
	}
	return values, nil
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(s)
}

func isParRow(cell string) bool {
	switch normalizeLabel(cell) {
	case "par", "pars", "p":
		return true
	}
	return false
}

func isStrokeIndexRow(cell string) bool {
	switch normalizeLabel(cell) {
	case "hcp", "si", "strokeindex", "index", "handicap", "hdcp":
		return true
	}
	return false
}

// isLikelyPlayerName checks if a string looks like a player name
func isLikelyPlayerName(s string) bool {
	_, err := strconv.Atoi(strings.TrimSpace(s))
	return err != nil
}
