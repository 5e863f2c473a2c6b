// Package report prints computed views as terminal tables.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Kellerman81/go_movie_dashboard/aggregate"
	"github.com/Kellerman81/go_movie_dashboard/render"
	"github.com/Kellerman81/go_movie_dashboard/views"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

var (
	heading = color.New(color.FgYellow, color.Bold)
	muted   = color.New(color.FgHiBlack)
	warn    = color.New(color.FgRed)
)

// Print writes r to w. Degraded views print their empty state message.
func Print(w io.Writer, r views.Result) {
	heading.Fprintf(w, "\n%s\n", r.Label)
	if r.EmptyState != "" && r.Recommendations == nil {
		warn.Fprintln(w, r.EmptyState)
		return
	}
	switch {
	case r.Overview != nil:
		printOverview(w, r.Overview)
	case r.ThreeD != nil:
		printThreeD(w, r.ThreeD)
	case r.Genre != nil:
		printGenre(w, r.Genre)
	case r.Actor != nil:
		printCounts(w, "Actor", r.Actor.Counts)
		printExcluded(w, r.Actor.Excluded)
	case r.Recommendations != nil:
		printRecommendations(w, r.Recommendations, r.EmptyState)
	}
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	return table
}

func printOverview(w io.Writer, data *views.OverviewData) {
	s := data.Summary
	table := newTable(w, "Metric", "Value")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.Append([]string{"Movies", render.FormatCount(s.Count)})
	table.Append([]string{"Average budget", render.FormatUSD(s.AvgBudget)})
	table.Append([]string{"Average user score", render.FormatScore(s.AvgScore)})
	table.Append([]string{"Genres", render.FormatCount(s.DistinctGenreCount)})
	table.Render()

	heading.Fprintln(w, "Budget distribution by release year")
	years := newTable(w, "Year", "Movies", "Min budget", "Max budget", "Fullest bin")
	for _, h := range data.Histograms {
		years.Append([]string{
			strconv.Itoa(h.Year),
			render.FormatCount(h.Total),
			render.FormatUSD(h.Edges[0]),
			render.FormatUSD(h.Edges[len(h.Edges)-1]),
			fullestBin(h),
		})
	}
	years.Render()
	printExcluded(w, data.Excluded)
}

// fullestBin describes the bin holding the most movies.
func fullestBin(h aggregate.YearHistogram) string {
	best := 0
	for i, c := range h.Counts {
		if c > h.Counts[best] {
			best = i
		}
	}
	return fmt.Sprintf("%s - %s (%d)",
		render.FormatCompactUSD(h.Edges[best]),
		render.FormatCompactUSD(h.Edges[best+1]),
		h.Counts[best],
	)
}

func printThreeD(w io.Writer, data *views.ThreeDData) {
	table := newTable(w, "Title", "Budget", "Votes", "Score")
	for _, p := range data.Points {
		table.Append([]string{
			p.Title,
			render.FormatUSD(p.Budget),
			render.FormatCount(p.Votes),
			render.FormatScore(p.Score),
		})
	}
	table.Render()
	printExcluded(w, data.Excluded)
}

func printGenre(w io.Writer, data *views.GenreData) {
	printCounts(w, "Genre", data.Counts)
	printExcluded(w, data.CountExcluded)

	table := newTable(w, "Genre", "Average budget", "Movies")
	for _, m := range data.Budgets {
		table.Append([]string{m.Genre, render.FormatUSD(m.Mean), render.FormatCount(m.Rows)})
	}
	table.Render()
	printExcluded(w, data.BudgetExcluded)
}

func printCounts(w io.Writer, label string, counts []aggregate.Count) {
	table := newTable(w, "#", label, "Movies")
	for i, c := range counts {
		table.Append([]string{strconv.Itoa(i + 1), c.Value, render.FormatCount(c.Count)})
	}
	table.Render()
}

func printRecommendations(w io.Writer, data *views.RecommendationData, empty string) {
	muted.Fprintf(w, "Genre: %s\n", data.Genre)
	if empty != "" {
		warn.Fprintln(w, empty)
		return
	}
	table := newTable(w, "Title", "Score", "Released", "Director", "Starring", "Poster")
	for _, c := range data.Cards {
		table.Append([]string{c.Title, render.FormatScore(c.Score), c.ReleaseDate, c.Director, c.TopBilled, c.PosterURL})
	}
	table.Render()
	printExcluded(w, data.Excluded)
}

func printExcluded(w io.Writer, n int) {
	if n > 0 {
		muted.Fprintf(w, "%s rows without the required values were left out.\n", render.FormatCount(n))
	}
}
