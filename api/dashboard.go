package api

import (
	"bytes"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Kellerman81/go_movie_dashboard/apperrors"
	"github.com/Kellerman81/go_movie_dashboard/cache"
	"github.com/Kellerman81/go_movie_dashboard/database"
	"github.com/Kellerman81/go_movie_dashboard/logger"
	"github.com/Kellerman81/go_movie_dashboard/render"
	"github.com/Kellerman81/go_movie_dashboard/views"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

type Jsonerror struct {
	Error string `json:"error"`
}

// ViewLink describes one navigation entry.
type ViewLink struct {
	Label string `json:"label"`
	Slug  string `json:"slug"`
	URL   string `json:"url"`
	API   string `json:"api"`
}

// Dashboard serves the views of one loaded table. The table is shared by all
// requests and never written, so computed views and charts are cached by state.
type Dashboard struct {
	table   *database.MovieTable
	opts    views.Options
	results *cache.Globalcache[views.Result]
	charts  *cache.Globalcache[[]byte]
}

// NewDashboard serves table. Cached entries expire after ttl, 0 keeps them.
func NewDashboard(table *database.MovieTable, opts views.Options, ttl time.Duration) *Dashboard {
	return &Dashboard{
		table:   table,
		opts:    opts,
		results: cache.New[views.Result](ttl),
		charts:  cache.New[[]byte](ttl),
	}
}

func stateKey(state views.State) string {
	if state.View != views.Recommendations {
		return state.View.Slug()
	}
	return state.View.Slug() + "\x00" + state.Genre
}

// Result computes the view selected by state. Degraded results and
// recommendations for genres the table does not have are not cached, so the
// cache holds at most one entry per view and genre of the table.
func (d *Dashboard) Result(state views.State) views.Result {
	key := stateKey(state)
	if r, ok := d.results.Get(key); ok {
		return r
	}
	r := views.Compute(d.table, state, d.opts)
	if cacheable(state, r) {
		d.results.Set(key, r)
	}
	return r
}

func cacheable(state views.State, r views.Result) bool {
	if r.Err != nil {
		return false
	}
	if state.View != views.Recommendations || state.Genre == "" {
		return true
	}
	return r.Recommendations != nil && slices.Contains(r.Recommendations.Genres, state.Genre)
}

// chart renders the named chart of the view selected by state.
func (d *Dashboard) chart(state views.State, name string) ([]byte, error) {
	return d.charts.GetOrSet(stateKey(state)+"/"+name, func() ([]byte, error) {
		var buf bytes.Buffer
		if err := render.ChartPNG(&buf, d.Result(state), name); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

// stateFromRequest replays the selections carried by the url on the initial
// state: the :view parameter (default Overview) and the genre query.
func stateFromRequest(ctx *gin.Context) (views.State, error) {
	state := views.InitialState()
	var recompute views.Recompute
	if slug := ctx.Param("view"); slug != "" {
		v, err := views.ParseView(slug)
		if err != nil {
			return state, err
		}
		state, recompute = views.Transition(state, views.SelectView(v))
	}
	if genre := strings.TrimSpace(ctx.Query("genre")); genre != "" {
		var more views.Recompute
		state, more = views.Transition(state, views.SelectGenre(genre))
		recompute = append(recompute, more...)
	}
	if len(recompute) > 0 {
		agg := make([]string, len(recompute))
		for i := range recompute {
			agg[i] = string(recompute[i])
		}
		logger.LogDynamicany("debug", "View selected",
			"view", state.View.Label(),
			"genre", state.Genre,
			"recompute", agg,
		)
	}
	return state, nil
}

// @Summary      Dashboard Page
// @Description  Renders the dashboard with the sidebar and the selected view
// @Tags         web
// @Param        view   path   string  false  "view label or slug"
// @Param        genre  query  string  false  "Recommendations genre"
// @Param        year   query  int     false  "Overview histogram year"
// @Produce      html
// @Success      200 {string} string "Dashboard HTML"
// @Failure      404 {string} string "Unknown view"
// @Router       /dashboard/{view} [get].
func (d *Dashboard) webDashboardPage(ctx *gin.Context) {
	state, err := stateFromRequest(ctx)
	if err != nil {
		renderNotFound(ctx, "Unknown view "+ctx.Param("view"))
		return
	}
	result := d.Result(state)
	renderPage(ctx, http.StatusOK, page(state.View, renderView(result, yearQuery(ctx))))
}

// @Summary      Dashboard View Partial
// @Description  Renders only the content of a view and the sidebar for htmx swaps
// @Tags         web
// @Param        view   path   string  true   "view label or slug"
// @Param        genre  query  string  false  "Recommendations genre"
// @Param        year   query  int     false  "Overview histogram year"
// @Produce      html
// @Success      200 {string} string "View HTML fragment"
// @Failure      404 {string} string "Unknown view"
// @Router       /partials/{view} [get].
func (d *Dashboard) webDashboardPartial(ctx *gin.Context) {
	state, err := stateFromRequest(ctx)
	if err != nil {
		renderFragment(ctx, http.StatusNotFound, emptyState("Unknown view "+ctx.Param("view")))
		return
	}
	result := d.Result(state)
	renderFragment(ctx, http.StatusOK, partial(state.View, renderView(result, yearQuery(ctx))))
}

// @Summary      Chart Image
// @Description  Renders one chart of a view as png
// @Tags         web
// @Param        view   path   string  true   "view label or slug"
// @Param        chart  path   string  true   "chart name, optionally with .png"
// @Produce      png
// @Success      200 {file} file "PNG image"
// @Failure      404 {object} Jsonerror
// @Failure      500 {object} Jsonerror
// @Router       /charts/{view}/{chart} [get].
func (d *Dashboard) webChart(ctx *gin.Context) {
	state, err := stateFromRequest(ctx)
	if err != nil {
		renderJSON(ctx, http.StatusNotFound, Jsonerror{Error: err.Error()})
		return
	}
	name := strings.TrimSuffix(ctx.Param("chart"), ".png")

	png, err := d.chart(state, name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apperrors.ErrValidation) {
			status = http.StatusNotFound
		} else {
			apperrors.LogClassifiedError(logger.Logtype(logger.StrError, 0), err).
				Str("view", state.View.Label()).
				Str("chart", name).
				Msg("Chart render failed")
		}
		renderJSON(ctx, status, Jsonerror{Error: err.Error()})
		return
	}
	ctx.Header("Cache-Control", "no-cache")
	ctx.Data(http.StatusOK, "image/png", png)
}

// @Summary      List Views
// @Description  Lists the dashboard views in navigation order
// @Tags         api
// @Produce      json
// @Success      200 {array} ViewLink
// @Router       /api/views [get].
func (d *Dashboard) apiViews(ctx *gin.Context) {
	links := make([]ViewLink, 0, len(views.All))
	for _, v := range views.All {
		links = append(links, ViewLink{
			Label: v.Label(),
			Slug:  v.Slug(),
			URL:   "/dashboard/" + v.Slug(),
			API:   "/api/views/" + v.Slug(),
		})
	}
	renderJSON(ctx, http.StatusOK, links)
}

// @Summary      Computed View
// @Description  Returns the aggregates of a view. Degraded views carry empty_state and error.
// @Tags         api
// @Param        view   path   string  true   "view label or slug"
// @Param        genre  query  string  false  "Recommendations genre"
// @Produce      json
// @Success      200 {object} views.Result
// @Failure      404 {object} Jsonerror
// @Router       /api/views/{view} [get].
func (d *Dashboard) apiView(ctx *gin.Context) {
	state, err := stateFromRequest(ctx)
	if err != nil {
		renderJSON(ctx, http.StatusNotFound, Jsonerror{Error: err.Error()})
		return
	}
	renderJSON(ctx, http.StatusOK, d.Result(state))
}

func yearQuery(ctx *gin.Context) int {
	year, err := strconv.Atoi(ctx.Query("year"))
	if err != nil {
		return 0
	}
	return year
}

// renderJSON encodes v with go-json.
func renderJSON(ctx *gin.Context, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		logger.LogDynamicany("error", "json encode failed", err)
		ctx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	ctx.Data(status, "application/json; charset=utf-8", b)
}
