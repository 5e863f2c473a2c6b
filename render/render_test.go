package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Kellerman81/go_movie_dashboard/aggregate"
	"github.com/Kellerman81/go_movie_dashboard/apperrors"
	"github.com/Kellerman81/go_movie_dashboard/views"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func assertPNG(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	require.Greater(t, buf.Len(), len(pngSignature))
	assert.Equal(t, pngSignature, buf.Bytes()[:len(pngSignature)])
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$1,234,567", FormatUSD(1234567.4))
	assert.Equal(t, "$0", FormatUSD(0))
	assert.Equal(t, "$200", FormatUSD(199.6))
	assert.Equal(t, "-$1,000", FormatUSD(-1000))
}

func TestFormatCountAndScore(t *testing.T) {
	assert.Equal(t, "12,345", FormatCount(12345))
	assert.Equal(t, "7", FormatCount(int64(7)))
	assert.Equal(t, "7.67", FormatScore(23.0/3))
}

func TestFormatCompactUSD(t *testing.T) {
	assert.Equal(t, "$150M", FormatCompactUSD(150_000_000))
	assert.Equal(t, "$2.5K", FormatCompactUSD(2500))
	assert.Equal(t, "$1.2B", FormatCompactUSD(1_200_000_000))
	assert.Equal(t, "$999", FormatCompactUSD(999))
	assert.Equal(t, "-$3M", FormatCompactUSD(-3_000_000))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", truncateString("short", 16))
	assert.Equal(t, "Science Ficti...", truncateString("Science Fiction & Fantasy", 16))
	assert.Equal(t, "Ab", truncateString("Abcdef", 2))
}

func TestHistogramPNG(t *testing.T) {
	h := aggregate.YearHistogram{
		Year:   2020,
		Edges:  []float64{0, 50, 100},
		Counts: []int{3, 1},
		Total:  4,
	}
	var buf bytes.Buffer
	require.NoError(t, HistogramPNG(&buf, h))
	assertPNG(t, &buf)
}

func TestHistogramPNG_AllZeroCounts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HistogramPNG(&buf, aggregate.YearHistogram{Year: 2001, Edges: []float64{0, 1}, Counts: []int{0}}))
	assertPNG(t, &buf)
}

func TestBarsPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CountBarsPNG(&buf, "Genres", []aggregate.Count{{Value: "Action", Count: 4}, {Value: "Drama", Count: 2}}))
	assertPNG(t, &buf)

	buf.Reset()
	require.NoError(t, MeanBarsPNG(&buf, "Budgets", []aggregate.Mean{{Genre: "Action", Mean: 2e8, Rows: 2}}))
	assertPNG(t, &buf)
}

func TestBarsPNG_NoBars(t *testing.T) {
	var buf bytes.Buffer
	err := CountBarsPNG(&buf, "Empty", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrClassRender, apperrors.GetClass(err))
}

func TestScatterPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ScatterPNG(&buf, []aggregate.Point{
		{Title: "A", Budget: 1e6, Votes: 100, Score: 3},
		{Title: "B", Budget: 5e7, Votes: 2500, Score: 9.1},
	}))
	assertPNG(t, &buf)

	buf.Reset()
	require.NoError(t, ScatterPNG(&buf, []aggregate.Point{{Title: "Only", Budget: 10, Votes: 1, Score: 5}}))
	assertPNG(t, &buf)

	assert.Error(t, ScatterPNG(&buf, nil))
}

func TestCharts(t *testing.T) {
	r := views.Result{Overview: &views.OverviewData{Histograms: []aggregate.YearHistogram{{Year: 1999}, {Year: 2004}}}}
	assert.Equal(t, []string{"histogram-1999", "histogram-2004"}, Charts(r))
	assert.Equal(t, []string{ChartScatter}, Charts(views.Result{ThreeD: &views.ThreeDData{}}))
	assert.Equal(t, []string{ChartGenreCounts, ChartGenreBudgets}, Charts(views.Result{Genre: &views.GenreData{}}))
	assert.Equal(t, []string{ChartActorCounts}, Charts(views.Result{Actor: &views.ActorData{}}))
	assert.Empty(t, Charts(views.Result{Recommendations: &views.RecommendationData{}}))
	assert.Empty(t, Charts(views.Result{EmptyState: "nothing"}))
}

func TestChartPNG_Dispatch(t *testing.T) {
	r := views.Result{
		Slug: "overview",
		Overview: &views.OverviewData{Histograms: []aggregate.YearHistogram{
			{Year: 2010, Edges: []float64{0, 1}, Counts: []int{2}, Total: 2},
		}},
	}
	var buf bytes.Buffer
	require.NoError(t, ChartPNG(&buf, r, "histogram-2010"))
	assertPNG(t, &buf)

	err := ChartPNG(&buf, r, "histogram-1990")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	err = ChartPNG(&buf, r, ChartScatter)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	actors := views.Result{Actor: &views.ActorData{Counts: []aggregate.Count{{Value: "X", Count: 1}}}}
	buf.Reset()
	require.NoError(t, ChartPNG(&buf, actors, ChartActorCounts))
	assertPNG(t, &buf)
}
