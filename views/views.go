package views

import (
	"strings"

	"github.com/Kellerman81/go_movie_dashboard/apperrors"
	"github.com/Kellerman81/go_movie_dashboard/logger"
)

// View is one of the dashboard screens.
type View int

const (
	Overview View = iota
	ThreeDAnalysis
	GenreAnalysis
	ActorAnalysis
	Recommendations
)

// All lists the views in navigation order.
var All = []View{Overview, ThreeDAnalysis, GenreAnalysis, ActorAnalysis, Recommendations}

var labels = map[View]string{
	Overview:        "Overview",
	ThreeDAnalysis:  "3D Analysis",
	GenreAnalysis:   "Genre Analysis",
	ActorAnalysis:   "Actor Analysis",
	Recommendations: "Recommendations",
}

// Label returns the navigation label.
func (v View) Label() string {
	if l, ok := labels[v]; ok {
		return l
	}
	return "Unknown"
}

// Slug returns the url form of the label ("3D Analysis" -> "3d-analysis").
func (v View) Slug() string {
	return logger.StringToSlug(v.Label())
}

func (v View) String() string {
	return v.Label()
}

// Valid reports whether v is one of All.
func (v View) Valid() bool {
	_, ok := labels[v]
	return ok
}

// ParseView accepts a label or slug, ignoring case and surrounding space.
func ParseView(s string) (View, error) {
	slug := logger.StringToSlug(s)
	for _, v := range All {
		if strings.EqualFold(strings.TrimSpace(s), v.Label()) || slug == v.Slug() {
			return v, nil
		}
	}
	return Overview, apperrors.Validation("parse_view", "unknown view", s)
}

// Aggregation names a computation a view depends on.
type Aggregation string

const (
	AggSummary         Aggregation = "summary_metrics"
	AggHistogram       Aggregation = "budget_histogram_by_year"
	AggPoints          Aggregation = "points"
	AggGenreCounts     Aggregation = "top_genres_by_count"
	AggGenreBudgets    Aggregation = "top_genres_by_mean_budget"
	AggActorCounts     Aggregation = "top_actors_by_count"
	AggGenreValues     Aggregation = "distinct_genres"
	AggRecommendations Aggregation = "top_movies_by_score"
)

// Recompute lists the aggregations to run after a transition. Empty means the
// current output is still valid.
type Recompute []Aggregation

var required = map[View]Recompute{
	Overview:        {AggSummary, AggHistogram},
	ThreeDAnalysis:  {AggPoints},
	GenreAnalysis:   {AggGenreCounts, AggGenreBudgets},
	ActorAnalysis:   {AggActorCounts},
	Recommendations: {AggGenreValues, AggRecommendations},
}

// Required returns the aggregations view v renders.
func Required(v View) Recompute {
	r := required[v]
	out := make(Recompute, len(r))
	copy(out, r)
	return out
}

// State is the current selection. The zero value is the initial state.
type State struct {
	View View
	// Genre is the Recommendations selection; empty means the first genre of the table.
	Genre string
}

// InitialState returns the state the dashboard starts in.
func InitialState() State {
	return State{View: Overview}
}

type EventKind int

const (
	EventSelectView EventKind = iota
	EventSelectGenre
)

// Event is a user selection.
type Event struct {
	Kind  EventKind
	View  View
	Genre string
}

func SelectView(v View) Event {
	return Event{Kind: EventSelectView, View: v}
}

func SelectGenre(genre string) Event {
	return Event{Kind: EventSelectGenre, Genre: genre}
}

// Transition applies e to s. Selecting a view replaces the current one; there
// is no history. Selecting a genre only needs new recommendations while the
// Recommendations view is active. Invalid events leave s unchanged.
func Transition(s State, e Event) (State, Recompute) {
	switch e.Kind {
	case EventSelectView:
		if !e.View.Valid() || e.View == s.View {
			return s, nil
		}
		s.View = e.View
		return s, Required(s.View)
	case EventSelectGenre:
		if e.Genre == s.Genre {
			return s, nil
		}
		s.Genre = e.Genre
		if s.View != Recommendations {
			return s, nil
		}
		return s, Recompute{AggRecommendations}
	}
	return s, nil
}
