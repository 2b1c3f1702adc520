package handicapservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	handicapdomain "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain"
	handicapevents "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/domain/events"
	handicapdb "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/infrastructure/repositories"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/uptrace/bun"
)

// ImportScorecard parses an uploaded CSV/XLSX card and records one round per mapped player.
// The card is validated as a whole before anything is written.
func (s *HandicapService) ImportScorecard(ctx context.Context, req ImportScorecardRequest) (*ImportResult, error) {
	importTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*ImportResult, error], error) {
		return s.importScorecardLogic(ctx, db, req)
	}

	result, err := withTelemetry(s, ctx, "ImportScorecard", req.FileName, func(ctx context.Context) (results.OperationResult[*ImportResult, error], error) {
		res, err := runInTx(s, ctx, importTx)
		if err == nil && res.IsSuccess() {
			imported := *res.Success
			for _, r := range imported.Rounds {
				s.publishBestEffort(ctx, handicapevents.RoundRecordedV1, roundRecordedPayload(r, handicapdb.SourceImport))
			}
			if s.metrics != nil {
				s.metrics.RecordImportedRounds(ctx, len(imported.Rounds))
			}
		}
		return res, err
	})
	return unwrap(result, err)
}

func (s *HandicapService) importScorecardLogic(ctx context.Context, db bun.IDB, req ImportScorecardRequest) (results.OperationResult[*ImportResult, error], error) {
	if len(bytes.TrimSpace(req.Data)) == 0 {
		return results.FailureResult[*ImportResult, error](ErrEmptyScorecard), nil
	}

	parser, err := s.parsers.GetParser(req.FileName)
	if err != nil {
		return results.FailureResult[*ImportResult, error](fmt.Errorf("%w: %v", ErrInvalidScorecard, err)), nil
	}
	card, err := parser.Parse(req.Data)
	if err != nil {
		return results.FailureResult[*ImportResult, error](fmt.Errorf("%w: %v", ErrInvalidScorecard, err)), nil
	}

	holesPlayed := card.HoleCount()
	if holesPlayed != handicapdomain.NineHoles && holesPlayed != handicapdomain.MaxHoles {
		return results.FailureResult[*ImportResult, error](fmt.Errorf("%w: scorecard has %d holes", ErrInvalidRound, holesPlayed)), nil
	}

	course, err := s.repo.GetCourse(ctx, db, req.CourseID)
	if err != nil {
		if errors.Is(err, handicapdb.ErrNotFound) {
			return results.FailureResult[*ImportResult, error](ErrCourseNotFound), nil
		}
		return results.OperationResult[*ImportResult, error]{}, fmt.Errorf("failed to get course: %w", err)
	}

	players := normalizePlayerMap(req.PlayerMap)
	out := &ImportResult{
		Rounds:    []handicapdomain.Round{},
		Unmatched: []string{},
		Skipped:   []string{},
	}

	var pending []RecordRoundRequest
	for _, row := range card.Players {
		playerID, ok := resolvePlayer(players, row.Name)
		if !ok {
			out.Unmatched = append(out.Unmatched, row.Name)
			continue
		}

		holes := card.HoleScores(row)
		if handicapdomain.PlayedStrokes(holes) == 0 {
			out.Skipped = append(out.Skipped, row.Name)
			continue
		}

		rr := RecordRoundRequest{
			PlayerID:    playerID,
			CourseID:    req.CourseID,
			PlayedOn:    req.PlayedOn,
			HolesPlayed: holesPlayed,
			TeeName:     req.TeeName,
			HoleScores:  holes,
		}
		if err := validateRound(rr); err != nil {
			return results.FailureResult[*ImportResult, error](fmt.Errorf("player %q: %w", row.Name, err)), nil
		}
		pending = append(pending, rr)
	}

	for _, rr := range pending {
		round := s.buildRound(rr, course)
		if err := s.repo.CreateRound(ctx, db, handicapdb.RoundFromDomain(round, handicapdb.SourceImport)); err != nil {
			return results.OperationResult[*ImportResult, error]{}, fmt.Errorf("failed to create round for %s: %w", rr.PlayerID, err)
		}
		out.Rounds = append(out.Rounds, round)
	}

	return results.SuccessResult[*ImportResult, error](out), nil
}

func normalizePlayerMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for name, id := range m {
		if id = strings.TrimSpace(id); id != "" {
			out[strings.ToLower(strings.TrimSpace(name))] = id
		}
	}
	return out
}

// resolvePlayer maps a card name to a player ID. A nil map accepts every name as-is.
func resolvePlayer(players map[string]string, name string) (string, bool) {
	name = strings.TrimSpace(name)
	if players == nil {
		return name, name != ""
	}
	id, ok := players[strings.ToLower(name)]
	return id, ok
}
