package render

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/Kellerman81/go_movie_dashboard/aggregate"
	"github.com/Kellerman81/go_movie_dashboard/apperrors"
	"github.com/Kellerman81/go_movie_dashboard/views"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 960
	chartHeight = 480
	labelLength = 16

	histogramLabelEvery = 10
)

// Chart names used in urls.
const (
	ChartHistogramPrefix = "histogram-"
	ChartScatter         = "scatter"
	ChartGenreCounts     = "genre-counts"
	ChartGenreBudgets    = "genre-budgets"
	ChartActorCounts     = "actor-counts"
)

var chartPadding = chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}}

// HistogramChartName returns the chart name of one year's histogram.
func HistogramChartName(year int) string {
	return ChartHistogramPrefix + strconv.Itoa(year)
}

// Charts lists the chart names a computed view offers, in display order.
func Charts(r views.Result) []string {
	switch {
	case r.Overview != nil:
		names := make([]string, 0, len(r.Overview.Histograms))
		for _, h := range r.Overview.Histograms {
			names = append(names, HistogramChartName(h.Year))
		}
		return names
	case r.ThreeD != nil:
		return []string{ChartScatter}
	case r.Genre != nil:
		return []string{ChartGenreCounts, ChartGenreBudgets}
	case r.Actor != nil:
		return []string{ChartActorCounts}
	}
	return nil
}

// ChartPNG writes the named chart of r as png. Names not offered by Charts
// are VALIDATION errors.
func ChartPNG(w io.Writer, r views.Result, name string) error {
	if !slices.Contains(Charts(r), name) {
		return apperrors.Validation("render_chart", "unknown chart", name).WithContext("view", r.Slug)
	}
	switch name {
	case ChartScatter:
		return ScatterPNG(w, r.ThreeD.Points)
	case ChartGenreCounts:
		return CountBarsPNG(w, "Top genres by number of movies", r.Genre.Counts)
	case ChartGenreBudgets:
		return MeanBarsPNG(w, "Top genres by average budget", r.Genre.Budgets)
	case ChartActorCounts:
		return CountBarsPNG(w, "Top billed actors by number of movies", r.Actor.Counts)
	}
	year, _ := strconv.Atoi(strings.TrimPrefix(name, ChartHistogramPrefix))
	for _, h := range r.Overview.Histograms {
		if h.Year == year {
			return HistogramPNG(w, h)
		}
	}
	return apperrors.Validation("render_chart", "unknown chart", name)
}

// HistogramPNG draws one year's budget distribution. Every tenth bucket is
// labelled with its lower edge.
func HistogramPNG(w io.Writer, h aggregate.YearHistogram) error {
	bars := make([]chart.Value, len(h.Counts))
	maxCount := 0
	for i, c := range h.Counts {
		label := ""
		if i%histogramLabelEvery == 0 {
			label = FormatCompactUSD(h.Edges[i])
		}
		bars[i] = chart.Value{Value: float64(c), Label: label}
		maxCount = max(maxCount, c)
	}
	graph := chart.BarChart{
		Title:      "Budget distribution " + strconv.Itoa(h.Year),
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chartPadding,
		BarWidth:   14,
		BarSpacing: 3,
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: axisMax(float64(maxCount))},
			ValueFormatter: countFormatter,
		},
		Bars: bars,
	}
	return renderPNG(w, graph.Render, "histogram")
}

// CountBarsPNG draws a top-n count list as vertical bars.
func CountBarsPNG(w io.Writer, title string, counts []aggregate.Count) error {
	bars := make([]chart.Value, len(counts))
	maxCount := 0
	for i, c := range counts {
		bars[i] = chart.Value{Value: float64(c.Count), Label: truncateString(c.Value, labelLength)}
		maxCount = max(maxCount, c.Count)
	}
	return barChart(w, title, bars, float64(maxCount), countFormatter)
}

// MeanBarsPNG draws mean budgets per genre as vertical bars.
func MeanBarsPNG(w io.Writer, title string, means []aggregate.Mean) error {
	bars := make([]chart.Value, len(means))
	var maxMean float64
	for i, m := range means {
		bars[i] = chart.Value{Value: m.Mean, Label: truncateString(m.Genre, labelLength)}
		maxMean = max(maxMean, m.Mean)
	}
	return barChart(w, title, bars, maxMean, moneyFormatter)
}

func barChart(w io.Writer, title string, bars []chart.Value, maxValue float64, format chart.ValueFormatter) error {
	graph := chart.BarChart{
		Title:      title,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chartPadding,
		BarWidth:   60,
		BarSpacing: 24,
		XAxis:      chart.Style{TextRotationDegrees: 30},
		YAxis: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: axisMax(maxValue)},
			ValueFormatter: format,
		},
		Bars: bars,
	}
	return renderPNG(w, graph.Render, "bar")
}

// ScatterPNG draws budget against vote count with dots coloured by user score.
func ScatterPNG(w io.Writer, points []aggregate.Point) error {
	if len(points) == 0 {
		return apperrors.WrapWithMessage(apperrors.ErrClassRender, "render_chart", "no points to draw", nil)
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	scores := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Budget
		ys[i] = float64(p.Votes)
		scores[i] = p.Score
	}

	graph := chart.Chart{
		Title:      "Budget, votes and user score",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chartPadding,
		XAxis: chart.XAxis{
			Name:           "Budget (USD)",
			Range:          spanRange(xs),
			ValueFormatter: moneyFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Votes",
			Range:          spanRange(ys),
			ValueFormatter: countFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name: "Movies",
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    4,
					DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
						return chart.Viridis(scores[index], 0, 10)
					},
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
	return renderPNG(w, graph.Render, "scatter")
}

func renderPNG(w io.Writer, fn func(chart.RendererProvider, io.Writer) error, kind string) error {
	if err := fn(chart.PNG, w); err != nil {
		return apperrors.WrapWithMessage(apperrors.ErrClassRender, "render_chart", "chart render failed", err).
			WithContext("chart", kind)
	}
	return nil
}

// spanRange returns a range covering values that is never empty.
func spanRange(values []float64) *chart.ContinuousRange {
	lo, hi := slices.Min(values), slices.Max(values)
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func axisMax(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v * 1.1
}

func countFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return FormatCount(int64(f))
	}
	return ""
}

func moneyFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return FormatCompactUSD(f)
	}
	return ""
}
