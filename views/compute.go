package views

import (
	"errors"
	"strings"

	"github.com/Kellerman81/go_movie_dashboard/aggregate"
	"github.com/Kellerman81/go_movie_dashboard/apperrors"
	"github.com/Kellerman81/go_movie_dashboard/config"
	"github.com/Kellerman81/go_movie_dashboard/database"
	"github.com/Kellerman81/go_movie_dashboard/logger"
)

// Options holds the sizes of the computed aggregates.
type Options struct {
	HistogramBins   int
	TopGenres       int
	TopActors       int
	Recommendations int
	PosterBaseURL   string
}

func DefaultOptions() Options {
	return Options{
		HistogramBins:   aggregate.DefaultHistogramBins,
		TopGenres:       10,
		TopActors:       10,
		Recommendations: 5,
	}
}

// OptionsFromConfig builds Options from the dashboard and dataset sections.
func OptionsFromConfig(dash config.DashboardConfig, dataset config.DatasetConfig) Options {
	return Options{
		HistogramBins:   dash.HistogramBins,
		TopGenres:       dash.TopGenres,
		TopActors:       dash.TopActors,
		Recommendations: dash.Recommendations,
		PosterBaseURL:   dataset.PosterBaseURL,
	}
}

type OverviewData struct {
	Summary    aggregate.Summary         `json:"summary"`
	Histograms []aggregate.YearHistogram `json:"histograms"`
	Excluded   int                       `json:"excluded"`
}

type ThreeDData struct {
	Points   []aggregate.Point `json:"points"`
	Excluded int               `json:"excluded"`
}

// GenreData holds both genre rankings. Each list has its own excluded count:
// counts skip rows without a genre, budgets also skip rows without a budget.
type GenreData struct {
	Counts         []aggregate.Count `json:"counts"`
	Budgets        []aggregate.Mean  `json:"budgets"`
	CountExcluded  int               `json:"count_excluded"`
	BudgetExcluded int               `json:"budget_excluded"`
}

type ActorData struct {
	Counts   []aggregate.Count `json:"counts"`
	Excluded int               `json:"excluded"`
}

// Card is one recommended movie.
type Card struct {
	Title       string  `json:"title"`
	Score       float64 `json:"user_score"`
	PosterURL   string  `json:"poster_url"`
	ReleaseDate string  `json:"release_date"`
	Director    string  `json:"director"`
	TopBilled   string  `json:"top_billed"`
}

type RecommendationData struct {
	Genre    string   `json:"genre"`
	Genres   []string `json:"genres"`
	Cards    []Card   `json:"cards"`
	Excluded int      `json:"excluded"`
}

// Result is the computed content of one view. Exactly one data field is set
// unless the view degraded, in which case EmptyState says why.
type Result struct {
	View            View                `json:"-"`
	Label           string              `json:"view"`
	Slug            string              `json:"slug"`
	Overview        *OverviewData       `json:"overview,omitempty"`
	ThreeD          *ThreeDData         `json:"three_d,omitempty"`
	Genre           *GenreData          `json:"genre,omitempty"`
	Actor           *ActorData          `json:"actor,omitempty"`
	Recommendations *RecommendationData `json:"recommendations,omitempty"`
	EmptyState      string              `json:"empty_state,omitempty"`
	Error           string              `json:"error,omitempty"`
	Err             error               `json:"-"`
}

const (
	msgEmpty   = "No movies have the values this view needs."
	msgFailed  = "This view could not be computed."
	msgNoMatch = "No rated movies found for this genre."
)

type computeFunc func(t *database.MovieTable, s State, opts Options, r *Result) error

var computeFuncs = map[View]computeFunc{
	Overview:        computeOverview,
	ThreeDAnalysis:  computeThreeD,
	GenreAnalysis:   computeGenre,
	ActorAnalysis:   computeActor,
	Recommendations: computeRecommendations,
}

// Compute runs the aggregations of s.View. Failures do not escape: the
// result carries an empty state message and the error instead.
func Compute(t *database.MovieTable, s State, opts Options) Result {
	r := Result{View: s.View, Label: s.View.Label(), Slug: s.View.Slug()}
	fn, ok := computeFuncs[s.View]
	if !ok {
		r.degrade(apperrors.Validation("compute_view", "unknown view", s.View.Label()))
		return r
	}
	if err := fn(t, s, opts, &r); err != nil {
		r.degrade(err)
	}
	return r
}

func (r *Result) degrade(err error) {
	r.Overview, r.ThreeD, r.Genre, r.Actor, r.Recommendations = nil, nil, nil, nil, nil
	r.Err = err
	r.Error = err.Error()
	level := logger.StrError
	r.EmptyState = msgFailed
	if errors.Is(err, apperrors.ErrEmptyAggregation) {
		level = logger.StrWarning
		r.EmptyState = msgEmpty
	}
	apperrors.LogClassifiedError(logger.Logtype(level, 0), err).
		Str("view", r.Label).
		Msg("View degraded to empty state")
}

func computeOverview(t *database.MovieTable, _ State, opts Options, r *Result) error {
	summary, err := aggregate.SummaryMetrics(t)
	if err != nil {
		return err
	}
	hists, excluded, err := aggregate.BudgetHistogramByYear(t, opts.HistogramBins)
	if err != nil {
		return err
	}
	r.Overview = &OverviewData{Summary: summary, Histograms: hists, Excluded: excluded}
	return nil
}

func computeThreeD(t *database.MovieTable, _ State, _ Options, r *Result) error {
	points, excluded := aggregate.Points(t)
	if len(points) == 0 {
		return apperrors.EmptyAggregation(string(AggPoints))
	}
	r.ThreeD = &ThreeDData{Points: points, Excluded: excluded}
	return nil
}

func computeGenre(t *database.MovieTable, _ State, opts Options, r *Result) error {
	counts, excluded, err := aggregate.TopNByCount(t, database.FieldGenres, opts.TopGenres)
	if err != nil {
		return err
	}
	budgets, budgetExcluded := aggregate.TopNByMeanBudget(t, opts.TopGenres)
	if len(counts) == 0 && len(budgets) == 0 {
		return apperrors.EmptyAggregation(string(AggGenreCounts))
	}
	r.Genre = &GenreData{
		Counts:         counts,
		Budgets:        budgets,
		CountExcluded:  excluded,
		BudgetExcluded: budgetExcluded,
	}
	return nil
}

func computeActor(t *database.MovieTable, _ State, opts Options, r *Result) error {
	counts, excluded, err := aggregate.TopNByCount(t, database.FieldTopBilled, opts.TopActors)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		return apperrors.EmptyAggregation(string(AggActorCounts))
	}
	r.Actor = &ActorData{Counts: counts, Excluded: excluded}
	return nil
}

func computeRecommendations(t *database.MovieTable, s State, opts Options, r *Result) error {
	genres, err := aggregate.DistinctValues(t, database.FieldGenres)
	if err != nil {
		return err
	}
	if len(genres) == 0 {
		return apperrors.EmptyAggregation(string(AggGenreValues))
	}
	genre := s.Genre
	if genre == "" {
		genre = genres[0]
	}

	top, excluded := aggregate.TopNByScore(aggregate.FilterByGenre(t, genre).Rows(), opts.Recommendations)
	data := &RecommendationData{
		Genre:    genre,
		Genres:   genres,
		Cards:    make([]Card, 0, len(top)),
		Excluded: excluded,
	}
	for i := range top {
		data.Cards = append(data.Cards, Card{
			Title:       top[i].Title,
			Score:       top[i].UserScore.Float64,
			PosterURL:   PosterURL(opts.PosterBaseURL, top[i].PosterPath),
			ReleaseDate: top[i].ReleaseDate,
			Director:    top[i].Director,
			TopBilled:   top[i].TopBilled,
		})
	}
	r.Recommendations = data
	if len(data.Cards) == 0 {
		r.EmptyState = msgNoMatch
	}
	return nil
}

// PosterURL prefixes root relative poster paths with base. Absolute urls and
// paths without a leading slash are returned unchanged.
func PosterURL(base, path string) string {
	if base == "" || !strings.HasPrefix(path, "/") {
		return path
	}
	return strings.TrimSuffix(base, "/") + path
}
