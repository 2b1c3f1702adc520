package handicapservice

import (
	"context"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"
)

const leaderboardSheet = "Leaderboard"

// ExportLeaderboard renders the leaderboard for query as an XLSX workbook.
func (s *HandicapService) ExportLeaderboard(ctx context.Context, query LeaderboardQuery) ([]byte, error) {
	exportTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*Leaderboard, error], error) {
		return s.courseLeaderboardLogic(ctx, db, query)
	}

	result, err := withTelemetry(s, ctx, "ExportLeaderboard", query.CourseID.String(), func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		res, err := runInTx(s, ctx, exportTx)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		if res.IsFailure() {
			return results.FailureResult[[]byte, error](*res.Failure), nil
		}
		data, err := renderLeaderboardXLSX(*res.Success)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to render workbook: %w", err)
		}
		return results.SuccessResult[[]byte, error](data), nil
	})
	return unwrap(result, err)
}

func renderLeaderboardXLSX(lb *Leaderboard) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), leaderboardSheet); err != nil {
		return nil, err
	}

	header := []interface{}{"Rank", "Player", "Score", "Holes", "Tee", "Date"}
	if err := f.SetSheetRow(leaderboardSheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(leaderboardSheet, "A1", "F1", bold); err != nil {
		return nil, err
	}

	for i, e := range lb.Entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{e.Rank, string(e.PlayerID), e.DisplayScore, e.HolesPlayedLabel, e.TeeName, e.Date.Format(time.DateOnly)}
		if err := f.SetSheetRow(leaderboardSheet, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(leaderboardSheet, "B", "B", 24); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(leaderboardSheet, "D", "D", 18); err != nil {
		return nil, err
	}

	// query parameters on a second sheet
	if _, err := f.NewSheet("Query"); err != nil {
		return nil, err
	}
	info := [][]interface{}{
		{"Course", lb.CourseID.String()},
		{"Metric", string(lb.Metric)},
		{"Holes", string(lb.Holes)},
		{"From", formatBound(lb.From)},
		{"To", formatBound(lb.To)},
	}
	for i, row := range info {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow("Query", cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.DateOnly)
}
