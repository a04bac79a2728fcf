package standings

import (
	"errors"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoResults is returned by RenderChart when no competitor has a win to
// plot.
var ErrNoResults = errors.New("no results recorded")

const (
	chartBarWidth   = 60
	chartBarSpacing = 40
	chartMinWidth   = 512
	chartHeight     = 480
)

var (
	chartBarColor  = drawing.ColorFromHex("4472C4")
	chartTextColor = drawing.ColorFromHex("333333")
)

// RenderChart writes a PNG bar chart of wins per competitor, in table order.
func RenderChart(w io.Writer, rows []Row) error {
	most := 0
	bars := make([]chart.Value, len(rows))
	for i, r := range rows {
		most = max(most, r.Wins)
		bars[i] = chart.Value{
			Label: r.Competitor.Name,
			Value: float64(r.Wins),
			Style: chart.Style{FillColor: chartBarColor, StrokeColor: chartBarColor},
		}
	}
	if most == 0 {
		return ErrNoResults
	}

	graph := chart.BarChart{
		Title:      "Wins",
		Width:      max(chartMinWidth, len(bars)*(chartBarWidth+chartBarSpacing)+4*chartBarSpacing),
		Height:     chartHeight,
		BarWidth:   chartBarWidth,
		BarSpacing: chartBarSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		XAxis:      chart.Style{FontColor: chartTextColor},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: chartTextColor},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(most + 1)},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}
