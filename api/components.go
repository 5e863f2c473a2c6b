package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/Kellerman81/go_movie_dashboard/aggregate"
	"github.com/Kellerman81/go_movie_dashboard/render"
	"github.com/Kellerman81/go_movie_dashboard/views"
	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"
)

// renderView renders the content area of a computed view. year selects the
// overview histogram; 0 means the latest year.
func renderView(r views.Result, year int) gomponents.Node {
	body := []gomponents.Node{
		html.H1(html.Class("h3 mb-4"), gomponents.Text(r.Label)),
	}
	if r.EmptyState != "" && r.Recommendations == nil {
		return html.Div(append(body, emptyState(r.EmptyState))...)
	}
	switch {
	case r.Overview != nil:
		body = append(body, renderOverview(r.Slug, r.Overview, year))
	case r.ThreeD != nil:
		body = append(body, renderThreeD(r.Slug, r.ThreeD))
	case r.Genre != nil:
		body = append(body, renderGenre(r.Slug, r.Genre))
	case r.Actor != nil:
		body = append(body, renderActor(r.Slug, r.Actor))
	case r.Recommendations != nil:
		body = append(body, renderRecommendations(r.Slug, r.Recommendations, r.EmptyState))
	}
	return html.Div(body...)
}

// renderMetricCard renders one headline number.
func renderMetricCard(label, value string) gomponents.Node {
	return html.Div(
		html.Class("col-md-3 mb-3"),
		html.Div(
			html.Class("card text-center"),
			html.Div(
				html.Class("card-body"),
				html.Div(html.Class("metric-value"), gomponents.Text(value)),
				html.P(html.Class("text-muted mb-0"), gomponents.Text(label)),
			),
		),
	)
}

func chartImage(slug, name, alt string) gomponents.Node {
	return html.Img(
		html.Class("chart border rounded"),
		html.Src("/charts/"+slug+"/"+name+".png"),
		html.Alt(alt),
		gomponents.Attr("loading", "lazy"),
	)
}

func excludedNote(n int) gomponents.Node {
	return gomponents.If(n > 0, html.P(
		html.Class("text-muted small"),
		gomponents.Textf("%s rows without the required values were left out.", render.FormatCount(n)),
	))
}

func renderOverview(slug string, data *views.OverviewData, year int) gomponents.Node {
	s := data.Summary
	selected := data.Histograms[len(data.Histograms)-1]
	for _, h := range data.Histograms {
		if h.Year == year {
			selected = h
		}
	}

	options := make([]gomponents.Node, 0, len(data.Histograms))
	for _, h := range data.Histograms {
		options = append(options, html.Option(
			html.Value(strconv.Itoa(h.Year)),
			gomponents.If(h.Year == selected.Year, html.Selected()),
			gomponents.Text(strconv.Itoa(h.Year)),
		))
	}

	return html.Div(
		html.Div(
			html.Class("row mb-4"),
			renderMetricCard("Movies", render.FormatCount(s.Count)),
			renderMetricCard("Average budget", render.FormatUSD(s.AvgBudget)),
			renderMetricCard("Average user score", render.FormatScore(s.AvgScore)),
			renderMetricCard("Genres", render.FormatCount(s.DistinctGenreCount)),
		),
		html.Div(
			html.Class("card"),
			html.Div(
				html.Class("card-body"),
				html.Div(
					html.Class("d-flex align-items-center mb-3"),
					html.H5(html.Class("me-3 mb-0"), gomponents.Text("Budget distribution by release year")),
					html.Select(
						html.Name("year"),
						html.Class("form-select w-auto"),
						hx.Get("/partials/"+slug),
						hx.Target("#"+contentID),
						hx.Trigger("change"),
						gomponents.Group(options),
					),
				),
				chartImage(slug, render.HistogramChartName(selected.Year),
					fmt.Sprintf("Budget distribution %d", selected.Year)),
				html.P(html.Class("text-muted small mt-2"),
					gomponents.Textf("%s movies released in %d, %s to %s.",
						render.FormatCount(selected.Total),
						selected.Year,
						render.FormatUSD(selected.Edges[0]),
						render.FormatUSD(selected.Edges[len(selected.Edges)-1]),
					),
				),
				excludedNote(data.Excluded),
			),
		),
	)
}

func renderThreeD(slug string, data *views.ThreeDData) gomponents.Node {
	return html.Div(
		html.P(html.Class("text-muted"),
			gomponents.Text("Budget against vote count. Dot colour encodes the user score from 0 (purple) to 10 (yellow)."),
		),
		chartImage(slug, render.ChartScatter, "Budget, votes and user score"),
		html.P(html.Class("mt-2"),
			gomponents.Textf("%s movies plotted. ", render.FormatCount(len(data.Points))),
			html.A(html.Href("/api/views/"+slug), gomponents.Text("Download points as JSON")),
		),
		excludedNote(data.Excluded),
	)
}

func countTable(header string, counts []aggregate.Count) gomponents.Node {
	rows := make([]gomponents.Node, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, html.Tr(
			html.Td(gomponents.Text(c.Value)),
			html.Td(html.Class("text-end"), gomponents.Text(render.FormatCount(c.Count))),
		))
	}
	return html.Table(
		html.Class("table table-sm"),
		html.THead(html.Tr(html.Th(gomponents.Text(header)), html.Th(html.Class("text-end"), gomponents.Text("Movies")))),
		html.TBody(gomponents.Group(rows)),
	)
}

func renderGenre(slug string, data *views.GenreData) gomponents.Node {
	budgetRows := make([]gomponents.Node, 0, len(data.Budgets))
	for _, m := range data.Budgets {
		budgetRows = append(budgetRows, html.Tr(
			html.Td(gomponents.Text(m.Genre)),
			html.Td(html.Class("text-end"), gomponents.Text(render.FormatUSD(m.Mean))),
		))
	}
	return html.Div(
		html.Class("row"),
		html.Div(
			html.Class("col-lg-6 mb-4"),
			gomponents.If(len(data.Counts) > 0, chartImage(slug, render.ChartGenreCounts, "Top genres by number of movies")),
			countTable("Genre", data.Counts),
			excludedNote(data.CountExcluded),
		),
		html.Div(
			html.Class("col-lg-6 mb-4"),
			gomponents.If(len(data.Budgets) > 0, chartImage(slug, render.ChartGenreBudgets, "Top genres by average budget")),
			html.Table(
				html.Class("table table-sm"),
				html.THead(html.Tr(html.Th(gomponents.Text("Genre")), html.Th(html.Class("text-end"), gomponents.Text("Average budget")))),
				html.TBody(gomponents.Group(budgetRows)),
			),
			excludedNote(data.BudgetExcluded),
		),
	)
}

func renderActor(slug string, data *views.ActorData) gomponents.Node {
	return html.Div(
		chartImage(slug, render.ChartActorCounts, "Top billed actors by number of movies"),
		countTable("Actor", data.Counts),
		excludedNote(data.Excluded),
	)
}

// renderRecommendationCard renders one movie with poster and credits.
func renderRecommendationCard(c views.Card) gomponents.Node {
	return html.Div(
		html.Class("col-md-4 col-lg-2 mb-4"),
		html.Div(
			html.Class("card h-100"),
			gomponents.If(c.PosterURL != "", html.Img(
				html.Class("card-img-top poster"),
				html.Src(c.PosterURL),
				html.Alt(c.Title),
				gomponents.Attr("loading", "lazy"),
			)),
			html.Div(
				html.Class("card-body"),
				html.H6(html.Class("card-title"), gomponents.Text(c.Title)),
				html.P(html.Class("mb-1"), gomponents.Textf("Score %s", render.FormatScore(c.Score))),
				html.P(html.Class("text-muted small mb-0"),
					gomponents.Textf("Released %s", c.ReleaseDate), html.Br(),
					gomponents.Textf("Director %s", c.Director), html.Br(),
					gomponents.Textf("Starring %s", c.TopBilled),
				),
			),
		),
	)
}

func renderRecommendations(slug string, data *views.RecommendationData, empty string) gomponents.Node {
	options := make([]gomponents.Node, 0, len(data.Genres))
	for _, g := range data.Genres {
		options = append(options, html.Option(
			html.Value(g),
			gomponents.If(g == data.Genre, html.Selected()),
			gomponents.Text(g),
		))
	}
	cards := make([]gomponents.Node, 0, len(data.Cards))
	for _, c := range data.Cards {
		cards = append(cards, renderRecommendationCard(c))
	}

	return html.Div(
		html.Div(
			html.Class("d-flex align-items-center mb-4"),
			html.Label(html.For("genre"), html.Class("me-3"), gomponents.Text("Genre")),
			html.Select(
				html.ID("genre"),
				html.Name("genre"),
				html.Class("form-select w-auto"),
				hx.Get("/partials/"+slug),
				hx.Target("#"+contentID),
				hx.Trigger("change"),
				gomponents.Group(options),
			),
			html.A(
				html.Class("ms-3 small"),
				html.Href("/dashboard/"+slug+"?genre="+url.QueryEscape(data.Genre)),
				gomponents.Text("Link to this selection"),
			),
		),
		gomponents.If(empty != "", emptyState(empty)),
		html.Div(html.Class("row"), gomponents.Group(cards)),
	)
}
