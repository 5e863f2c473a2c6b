package api

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Kellerman81/go_movie_dashboard/config"
	"github.com/Kellerman81/go_movie_dashboard/database"
	"github.com/Kellerman81/go_movie_dashboard/views"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = "title,budget_usd,user_score,vote_count,genres,release_date,top_billed,director,poster_path\n" +
	"A,100,8,10,Action,2020-01-05,Actor One,Dir One,/a.jpg\n" +
	"B,300,6,20,Action,2021-03-01,Actor Two,Dir Two,/b.jpg\n" +
	"C,200,9,30,Drama,2020-07-11,Actor One,Dir Three,/c.jpg\n"

func newTestRouter(t *testing.T, csv string, general config.GeneralConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	table, err := database.ParseCSV(strings.NewReader(csv), "api-test")
	require.NoError(t, err)
	opts := views.DefaultOptions()
	opts.PosterBaseURL = "https://img.example/w500"
	return NewRouter(NewDashboard(table, opts, 0), general)
}

func get(router http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRootRedirects(t *testing.T) {
	router := newTestRouter(t, testCSV, config.GeneralConfig{})
	rec := get(router, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestDashboardPage_Overview(t *testing.T) {
	router := newTestRouter(t, testCSV, config.GeneralConfig{})
	rec := get(router, "/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, body, "<title>Movie Dashboard - Overview</title>")
	for _, label := range []string{"Overview", "3D Analysis", "Genre Analysis", "Actor Analysis", "Recommendations"} {
		assert.Contains(t, body, ">"+label+"</a>")
	}
	assert.Less(t, strings.Index(body, ">Overview</a>"), strings.Index(body, ">3D Analysis</a>"))
	assert.Less(t, strings.Index(body, ">Actor Analysis</a>"), strings.Index(body, ">Recommendations</a>"))

	assert.Contains(t, body, "$200")
	assert.Contains(t, body, "7.67")
	assert.Contains(t, body, `/charts/overview/histogram-2021.png`)
	assert.Contains(t, body, `hx-get="/partials/overview"`)
}

func TestDashboardPage_OverviewYear(t *testing.T) {
	router := newTestRouter(t, testCSV, config.GeneralConfig{})
	rec := get(router, "/dashboard/overview?year=2020")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `/charts/overview/histogram-2020.png`)
}

func TestDashboardPage_Views(t *testing.T) {
	router := newTestRouter(t, testCSV, config.GeneralConfig{})
	tests := []struct {
		path string
		want []string
	}{
		{path: "/dashboard/3d-analysis", want: []string{"/charts/3d-analysis/scatter.png", "/api/views/3d-analysis"}},
		{path: "/dashboard/Genre%20Analysis", want: []string{"/charts/genre-analysis/genre-counts.png", "/charts/genre-analysis/genre-budgets.png"}},
		{path: "/dashboard/actor-analysis", want: []string{"/charts/actor-analysis/actor-counts.png", "Actor One"}},
		{path: "/dashboard/recommendations", want: []string{"https://img.example/w500/a.jpg", "Dir One", "Starring Actor One", "<option value=\"Drama\">"}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(router, tt.path)
			require.Equal(t, http.StatusOK, rec.Code)
			for _, w := range tt.want {
				assert.Contains(t, rec.Body.String(), w)
			}
		})
	}
}

func TestDashboardPage_RecommendationsGenre(t *testing.T) {
	router := newTestRouter(t, testCSV, config.GeneralConfig{})
	rec := get(router, "/dashboard/recommendations?genre=Drama")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "https://img.example/w500/c.jpg")
	assert.NotContains(t, body, "https://img.example/w500/a.jpg")

	rec = get(router, "/dashboard/recommendations?genre=Western")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No rated movies found for this genre.")
}

func TestDashboardPage_UnknownView(t *testing.T) {
	router := newTestRouter(t, testCSV, config.GeneralConfig{})
	rec := get(router, "/dashboard/settings")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown view settings")
}

func TestPartial(t *testing.T) {
	router := newTestRouter(t, testCSV, config.GeneralConfig{})
	rec := get(router, "/partials/genre-analysis", "HX-Request", "true")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<html")
	assert.Contains(t, body, "Genre Analysis")
	assert.Contains(t, body, `hx-swap-oob="true"`)
	assert.Contains(t, body, `class="nav-link active" href="/dashboard/genre-analysis"`)

	rec = get(router, "/partials/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmptyTableDegradesEveryView(t *testing.T) {
	header := strings.SplitAfter(testCSV, "\n")[0]
	router := newTestRouter(t, header, config.GeneralConfig{})
	for _, v := range views.All {
		t.Run(v.Slug(), func(t *testing.T) {
			rec := get(router, "/dashboard/"+v.Slug())
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "No movies have the values this view needs.")
			assert.Contains(t, rec.Body.String(), ">Recommendations</a>")
		})
	}
}

func TestCharts(t *testing.T) {
	router := newTestRouter(t, testCSV, config.GeneralConfig{})
	for _, path := range []string{
		"/charts/overview/histogram-2020.png",
		"/charts/3d-analysis/scatter.png",
		"/charts/genre-analysis/genre-counts.png",
		"/charts/genre-analysis/genre-budgets",
		"/charts/actor-analysis/actor-counts.png",
	} {
		t.Run(path, func(t *testing.T) {
			rec := get(router, path)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
		})
	}

	assert.Equal(t, http.StatusNotFound, get(router, "/charts/overview/histogram-1900.png").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/charts/recommendations/scatter.png").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/charts/bogus/scatter.png").Code)
}

func TestAPIViews(t *testing.T) {
	router := newTestRouter(t, testCSV, config.GeneralConfig{})
	rec := get(router, "/api/views")
	require.Equal(t, http.StatusOK, rec.Code)
	var links []ViewLink
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &links))
	require.Len(t, links, 5)
	assert.Equal(t, "3D Analysis", links[1].Label)
	assert.Equal(t, "/dashboard/3d-analysis", links[1].URL)
}

func TestAPIView(t *testing.T) {
	router := newTestRouter(t, testCSV, config.GeneralConfig{})

	rec := get(router, "/api/views/overview")
	require.Equal(t, http.StatusOK, rec.Code)
	var overview struct {
		View     string `json:"view"`
		Overview struct {
			Summary struct {
				Count     int     `json:"count"`
				AvgBudget float64 `json:"avg_budget"`
			} `json:"summary"`
		} `json:"overview"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, "Overview", overview.View)
	assert.Equal(t, 3, overview.Overview.Summary.Count)
	assert.InDelta(t, 200.0, overview.Overview.Summary.AvgBudget, 1e-9)

	rec = get(router, "/api/views/recommendations?genre=Action")
	require.Equal(t, http.StatusOK, rec.Code)
	var recs struct {
		Recommendations struct {
			Genre string `json:"genre"`
			Cards []struct {
				Title string `json:"title"`
			} `json:"cards"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	assert.Equal(t, "Action", recs.Recommendations.Genre)
	require.Len(t, recs.Recommendations.Cards, 2)
	assert.Equal(t, "A", recs.Recommendations.Cards[0].Title)

	rec = get(router, "/api/views/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)

	rec = get(router, "/api/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestAPIView_Degraded(t *testing.T) {
	header := strings.SplitAfter(testCSV, "\n")[0]
	router := newTestRouter(t, header, config.GeneralConfig{})
	rec := get(router, "/api/views/overview")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"empty_state"`)
	assert.Contains(t, rec.Body.String(), "EMPTY_AGGREGATION")
}

func TestCorsAndStatic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.css"), []byte("body{}"), 0o644))
	router := newTestRouter(t, testCSV, config.GeneralConfig{EnableCors: true, StaticDir: dir})

	rec := get(router, "/api/views", "Origin", "http://example.org")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = get(router, "/static/site.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{}", rec.Body.String())

	plain := newTestRouter(t, testCSV, config.GeneralConfig{})
	rec = get(plain, "/api/views", "Origin", "http://example.org")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t, testCSV, config.GeneralConfig{})
	rec := get(router, "/api/views")
	assert.Len(t, rec.Header().Get("X-Request-ID"), 36)
}

func TestDashboardCachesByState(t *testing.T) {
	table, err := database.ParseCSV(strings.NewReader(testCSV), "api-test")
	require.NoError(t, err)
	d := NewDashboard(table, views.DefaultOptions(), time.Minute)

	drama, _ := views.Transition(views.InitialState(), views.SelectView(views.Recommendations))
	drama, _ = views.Transition(drama, views.SelectGenre("Drama"))
	action, _ := views.Transition(drama, views.SelectGenre("Action"))

	assert.Equal(t, "Drama", d.Result(drama).Recommendations.Genre)
	assert.Equal(t, "Action", d.Result(action).Recommendations.Genre)
	d.Result(drama)
	assert.Equal(t, 2, d.results.Len())

	genre, _ := views.Transition(views.InitialState(), views.SelectView(views.GenreAnalysis))
	first, err := d.chart(genre, "genre-counts")
	require.NoError(t, err)
	second, err := d.chart(genre, "genre-counts")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, d.charts.Len())

	_, err = d.chart(genre, "scatter")
	require.Error(t, err)
	assert.Equal(t, 1, d.charts.Len())
}

func TestDashboardSkipsCachingUnknownGenres(t *testing.T) {
	table, err := database.ParseCSV(strings.NewReader(testCSV), "api-test")
	require.NoError(t, err)
	d := NewDashboard(table, views.DefaultOptions(), 0)
	router := NewRouter(d, config.GeneralConfig{})

	require.Equal(t, http.StatusOK, get(router, "/api/views/recommendations").Code)
	require.Equal(t, http.StatusOK, get(router, "/api/views/recommendations?genre=Drama").Code)
	before := d.results.Len()
	assert.Equal(t, 2, before)

	for i := range 25 {
		rec := get(router, fmt.Sprintf("/api/views/recommendations?genre=junk%d", i))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No rated movies found for this genre.")
	}
	assert.Equal(t, before, d.results.Len())
}

func TestDashboardSkipsCachingDegradedViews(t *testing.T) {
	header := strings.SplitAfter(testCSV, "\n")[0]
	table, err := database.ParseCSV(strings.NewReader(header), "api-test")
	require.NoError(t, err)
	d := NewDashboard(table, views.DefaultOptions(), 0)

	for _, v := range views.All {
		state, _ := views.Transition(views.InitialState(), views.SelectView(v))
		r := d.Result(state)
		require.Error(t, r.Err)
	}
	assert.Equal(t, 0, d.results.Len())
}
