package handicapservice

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/uptrace/bun"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colors used for rendered charts.
type ChartPalette struct {
	Background  drawing.Color
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	TextColor   drawing.Color
}

// DefaultChartPalette is a dark fairway theme.
var DefaultChartPalette = ChartPalette{
	Background:  drawing.ColorFromHex("10231a"),
	PrimaryLine: drawing.ColorFromHex("4caf50"),
	AccentLine:  drawing.ColorFromHex("d4af37"),
	TextColor:   drawing.ColorFromHex("e8efe9"),
}

// HandicapTrendChart renders the player's valid handicap history as a PNG line chart.
func (s *HandicapService) HandicapTrendChart(ctx context.Context, playerID string) ([]byte, error) {
	historyTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[[]HandicapPoint, error], error) {
		return s.handicapHistoryLogic(ctx, db, playerID, defaultHistoryLimit)
	}

	result, err := withTelemetry(s, ctx, "HandicapTrendChart", playerID, func(ctx context.Context) (results.OperationResult[[]byte, error], error) {
		res, err := runInTx(s, ctx, historyTx)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		if res.IsFailure() {
			return results.FailureResult[[]byte, error](*res.Failure), nil
		}
		png, err := GenerateHandicapTrendChart(*res.Success, DefaultChartPalette)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to render chart: %w", err)
		}
		return results.SuccessResult[[]byte, error](png), nil
	})
	return unwrap(result, err)
}

// GenerateHandicapTrendChart produces a PNG line chart of the valid points in history.
// Fewer than two distinct points render a placeholder image.
func GenerateHandicapTrendChart(history []HandicapPoint, palette ChartPalette) ([]byte, error) {
	var (
		xValues []time.Time
		yValues []float64
	)
	for _, p := range history {
		if p.IsValid {
			xValues = append(xValues, p.ComputedAt)
			yValues = append(yValues, p.HandicapIndex)
		}
	}
	if len(xValues) < 2 || xValues[0].Equal(xValues[len(xValues)-1]) {
		return renderNoDataPlaceholder(palette, "Not enough handicap history yet")
	}

	lo, hi := yValues[0], yValues[0]
	for _, y := range yValues {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}

	mainSeries := chart.TimeSeries{
		Name:    "Handicap Index",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.PrimaryLine,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.AccentLine,
		},
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat(time.DateOnly),
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
		},
		YAxis: chart.YAxis{
			Name: "Handicap Index",
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			Range: &chart.ContinuousRange{
				Min: math.Max(0, math.Floor(lo)-1),
				Max: math.Ceil(hi) + 1,
			},
		},
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws msg centered on a blank canvas.
func renderNoDataPlaceholder(palette ChartPalette, msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	r, err := chart.PNG(width, height)
	if err != nil {
		return nil, err
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(width, 0)
	r.LineTo(width, height)
	r.LineTo(0, height)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.TextColor)
	r.SetFontSize(12.0)
	tb := r.MeasureText(msg)
	r.Text(msg, (width-tb.Width())/2, (height+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	if err := r.Save(buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
