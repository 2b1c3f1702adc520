package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	"github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/parsers"
	"github.com/urfave/cli/v2"
)

var errPlayerNotOnCard = errors.New("player not found on any scorecard")

// offlineResult is what the handicap command prints.
type offlineResult struct {
	Player string                       `json:"player"`
	Rounds int                          `json:"rounds"`
	State  handicapdomain.HandicapState `json:"handicap"`
	Cards  []handicapdomain.RoundSplit  `json:"cards"`
}

func newHandicapCommand() *cli.Command {
	return &cli.Command{
		Name:      "handicap",
		Usage:     "compute a player's handicap from scorecard files without a database",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "file", Aliases: []string{"f"}, Usage: "scorecard file (.csv, .tsv, .xlsx); repeat for each round", Required: true},
			&cli.StringFlag{Name: "player", Aliases: []string{"p"}, Usage: "player name as it appears on the cards", Required: true},
			&cli.IntFlag{Name: "required-rounds", Value: handicapdomain.DefaultRequiredRounds, Usage: "rounds needed before the index is valid"},
			&cli.BoolFlag{Name: "include-incomplete", Usage: "count rounds without a gross score"},
		},
		Action: func(c *cli.Context) error {
			calc := handicapdomain.HandicapCalculator{
				RequiredRounds: c.Int("required-rounds"),
				Policy:         handicapdomain.DifferentialPolicy{IncludeIncomplete: c.Bool("include-incomplete")},
			}
			res, err := offlineHandicap(parsers.NewFactory(), c.StringSlice("file"), c.String("player"), calc)
			if err != nil {
				return err
			}
			return printResult(c.App.Writer, res)
		},
	}
}

// offlineHandicap reads one round per file for the named player and computes the index.
func offlineHandicap(factory parsers.ParserFactory, files []string, player string, calc handicapdomain.HandicapCalculator) (*offlineResult, error) {
	res := &offlineResult{Player: player, Cards: []handicapdomain.RoundSplit{}}
	var rounds []handicapdomain.Round

	for _, file := range files {
		round, ok, err := roundFromFile(factory, file, player)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		rounds = append(rounds, round)
		res.Cards = append(res.Cards, handicapdomain.SplitNines(round.HoleScores))
	}
	if len(rounds) == 0 {
		return nil, fmt.Errorf("%w: %q", errPlayerNotOnCard, player)
	}

	res.Rounds = len(rounds)
	res.State = calc.Compute(rounds)
	return res, nil
}

func roundFromFile(factory parsers.ParserFactory, file, player string) (handicapdomain.Round, bool, error) {
	parser, err := factory.GetParser(file)
	if err != nil {
		return handicapdomain.Round{}, false, err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return handicapdomain.Round{}, false, fmt.Errorf("failed to read %s: %w", filepath.Base(file), err)
	}
	card, err := parser.Parse(data)
	if err != nil {
		return handicapdomain.Round{}, false, fmt.Errorf("failed to parse %s: %w", filepath.Base(file), err)
	}

	for _, row := range card.Players {
		if !strings.EqualFold(strings.TrimSpace(row.Name), strings.TrimSpace(player)) {
			continue
		}
		holesPlayed := handicapdomain.MaxHoles
		if card.HoleCount() <= handicapdomain.NineHoles {
			holesPlayed = handicapdomain.NineHoles
		}
		r := handicapdomain.Round{
			PlayerID:    handicapdomain.PlayerID(row.Name),
			HolesPlayed: holesPlayed,
			HoleScores:  card.HoleScores(row),
		}
		r.GrossScore, r.ToParGross = r.Totals()
		return r, true, nil
	}
	return handicapdomain.Round{}, false, nil
}

func printResult(w io.Writer, res *offlineResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
