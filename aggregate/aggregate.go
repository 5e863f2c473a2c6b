package aggregate

import (
	"cmp"
	"slices"

	"github.com/Kellerman81/go_movie_dashboard/apperrors"
	"github.com/Kellerman81/go_movie_dashboard/database"
)

// DefaultHistogramBins is the number of budget buckets per release year.
const DefaultHistogramBins = 50

// Summary contains the headline metrics of a table.
type Summary struct {
	Count              int     `json:"count"`
	AvgBudget          float64 `json:"avg_budget"`
	AvgScore           float64 `json:"avg_score"`
	DistinctGenreCount int     `json:"distinct_genre_count"`
	ExcludedBudget     int     `json:"excluded_budget"`
	ExcludedScore      int     `json:"excluded_score"`
}

// YearHistogram contains the budget distribution of one release year.
// Edges has one more entry than Counts.
type YearHistogram struct {
	Year   int       `json:"year"`
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
	Total  int       `json:"total"`
}

// Count contains the number of rows sharing a value.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Mean contains the mean budget of a genre.
type Mean struct {
	Genre string  `json:"genre"`
	Mean  float64 `json:"mean"`
	Rows  int     `json:"rows"`
}

// Point contains the coordinates of one movie in the 3D view.
type Point struct {
	Title  string  `json:"title"`
	Budget float64 `json:"budget_usd"`
	Votes  int64   `json:"vote_count"`
	Score  float64 `json:"user_score"`
}

// SummaryMetrics returns the row count, mean budget, mean score and number of
// distinct genres. Means skip rows without a value. An empty table, or a mean
// with no rows to average, is an EMPTY_AGGREGATION error.
func SummaryMetrics(t *database.MovieTable) (Summary, error) {
	var s Summary
	s.Count = t.Len()
	if s.Count == 0 {
		return s, apperrors.EmptyAggregation("summary_metrics")
	}

	var budgetSum, scoreSum float64
	var budgets, scores int
	genres := make(map[string]struct{})
	for i := range s.Count {
		rec := t.At(i)
		if v, err := rec.Budget(); err == nil {
			budgetSum += v
			budgets++
		} else {
			s.ExcludedBudget++
		}
		if v, err := rec.Score(); err == nil {
			scoreSum += v
			scores++
		} else {
			s.ExcludedScore++
		}
		if rec.Genres != "" {
			genres[rec.Genres] = struct{}{}
		}
	}
	s.DistinctGenreCount = len(genres)

	if budgets == 0 {
		return s, apperrors.EmptyAggregation("summary_metrics").WithContext("field", string(database.FieldBudgetUSD))
	}
	if scores == 0 {
		return s, apperrors.EmptyAggregation("summary_metrics").WithContext("field", string(database.FieldUserScore))
	}
	s.AvgBudget = budgetSum / float64(budgets)
	s.AvgScore = scoreSum / float64(scores)
	return s, nil
}

// BudgetHistogramByYear partitions rows by release year and bins their budgets
// into equal-width buckets spanning that year's own min and max. The last
// bucket includes its upper edge. Years are returned in ascending order with
// the number of rows excluded for a missing budget or release date.
func BudgetHistogramByYear(t *database.MovieTable, bins int) ([]YearHistogram, int, error) {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	byYear := make(map[int][]float64)
	excluded := 0
	for i := range t.Len() {
		rec := t.At(i)
		budget, err := rec.Budget()
		if err != nil {
			excluded++
			continue
		}
		year, err := rec.Year()
		if err != nil {
			excluded++
			continue
		}
		byYear[year] = append(byYear[year], budget)
	}
	if len(byYear) == 0 {
		return nil, excluded, apperrors.EmptyAggregation("budget_histogram_by_year")
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	slices.Sort(years)

	out := make([]YearHistogram, 0, len(years))
	for _, y := range years {
		out = append(out, histogram(y, byYear[y], bins))
	}
	return out, excluded, nil
}

func histogram(year int, values []float64, bins int) YearHistogram {
	lo, hi := slices.Min(values), slices.Max(values)
	span := hi - lo
	if span == 0 {
		span = 1
	}
	width := span / float64(bins)

	h := YearHistogram{
		Year:   year,
		Edges:  make([]float64, bins+1),
		Counts: make([]int, bins),
		Total:  len(values),
	}
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = lo + span
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	}
	return h
}

// TopNByCount groups rows by a text field and returns the n most frequent
// values. Ties keep the order in which the values first appear. Rows with an
// empty value are excluded and counted.
func TopNByCount(t *database.MovieTable, field database.Field, n int) ([]Count, int, error) {
	if !database.IsTextField(field) {
		return nil, 0, apperrors.Validation("top_n_by_count", "field cannot be grouped", string(field))
	}
	var counts []Count
	index := make(map[string]int)
	excluded := 0
	for i := range t.Len() {
		rec := t.At(i)
		v, err := rec.Field(field)
		if err != nil {
			excluded++
			continue
		}
		pos, ok := index[v]
		if !ok {
			pos = len(counts)
			index[v] = pos
			counts = append(counts, Count{Value: v})
		}
		counts[pos].Count++
	}
	slices.SortStableFunc(counts, func(a, b Count) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return head(counts, n), excluded, nil
}

// TopNByMeanBudget returns the n genres with the highest mean budget. Equal
// means are ordered by genre label.
func TopNByMeanBudget(t *database.MovieTable, n int) ([]Mean, int) {
	type acc struct {
		sum  float64
		rows int
	}
	groups := make(map[string]*acc)
	excluded := 0
	for i := range t.Len() {
		rec := t.At(i)
		budget, err := rec.Budget()
		if err != nil || rec.Genres == "" {
			excluded++
			continue
		}
		g, ok := groups[rec.Genres]
		if !ok {
			g = &acc{}
			groups[rec.Genres] = g
		}
		g.sum += budget
		g.rows++
	}

	means := make([]Mean, 0, len(groups))
	for genre, g := range groups {
		means = append(means, Mean{Genre: genre, Mean: g.sum / float64(g.rows), Rows: g.rows})
	}
	slices.SortFunc(means, func(a, b Mean) int {
		if c := cmp.Compare(b.Mean, a.Mean); c != 0 {
			return c
		}
		return cmp.Compare(a.Genre, b.Genre)
	})
	return head(means, n), excluded
}

// FilterByGenre returns the rows whose genre equals genre exactly. An unknown
// genre yields an empty table.
func FilterByGenre(t *database.MovieTable, genre string) *database.MovieTable {
	var rows []database.MovieRecord
	for i := range t.Len() {
		if rec := t.At(i); rec.Genres == genre {
			rows = append(rows, rec)
		}
	}
	return database.NewMovieTable(t.Source(), rows)
}

// TopNByScore returns the n best scored rows. Rows with equal scores keep their
// input order; rows without a score are excluded and counted.
func TopNByScore(rows []database.MovieRecord, n int) ([]database.MovieRecord, int) {
	scored := make([]database.MovieRecord, 0, len(rows))
	for i := range rows {
		if rows[i].UserScore.Valid {
			scored = append(scored, rows[i])
		}
	}
	slices.SortStableFunc(scored, func(a, b database.MovieRecord) int {
		return cmp.Compare(b.UserScore.Float64, a.UserScore.Float64)
	})
	return head(scored, n), len(rows) - len(scored)
}

// DistinctValues returns the non-empty values of a text field in the order
// they first appear.
func DistinctValues(t *database.MovieTable, field database.Field) ([]string, error) {
	if !database.IsTextField(field) {
		return nil, apperrors.Validation("distinct_values", "not a text column", string(field))
	}
	seen := make(map[string]struct{})
	var out []string
	for i := range t.Len() {
		rec := t.At(i)
		v, err := rec.Field(field)
		if err != nil {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out, nil
}

// Points returns budget, vote count and score of every row that has all three.
func Points(t *database.MovieTable) ([]Point, int) {
	points := make([]Point, 0, t.Len())
	for i := range t.Len() {
		rec := t.At(i)
		if !rec.BudgetUSD.Valid || !rec.VoteCount.Valid || !rec.UserScore.Valid {
			continue
		}
		points = append(points, Point{
			Title:  rec.Title,
			Budget: rec.BudgetUSD.Float64,
			Votes:  rec.VoteCount.Int64,
			Score:  rec.UserScore.Float64,
		})
	}
	return points, t.Len() - len(points)
}

func head[T any](s []T, n int) []T {
	if n <= 0 {
		return []T{}
	}
	if len(s) > n {
		s = s[:n]
	}
	if s == nil {
		return []T{}
	}
	return s
}
