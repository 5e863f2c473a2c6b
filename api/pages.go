package api

import (
	"net/http"
	"strings"

	"github.com/Kellerman81/go_movie_dashboard/views"
	"github.com/gin-gonic/gin"
	"maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/html"
)

const contentID = "view-content"

// page is the full document: head, sidebar and the content of the active view.
func page(active views.View, content gomponents.Node) gomponents.Node {
	return html.Doctype(
		html.HTML(
			html.Lang("en"),
			html.Head(
				html.Meta(html.Charset("utf-8")),
				html.Meta(html.Name("viewport"), html.Content("width=device-width, initial-scale=1")),
				html.TitleEl(gomponents.Text("Movie Dashboard - "+active.Label())),
				html.Link(
					html.Rel("stylesheet"),
					html.Href("https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"),
				),
				html.Script(html.Src("https://unpkg.com/htmx.org")),
				addCSS(),
			),
			html.Body(
				html.Div(html.Class("d-flex"),
					sidebar(active, false),
					html.Main(html.Class("flex-grow-1 p-4"),
						html.Div(html.ID(contentID), content),
					),
				),
			),
		),
	)
}

// partial is the htmx response: the view content plus an out of band sidebar
// so the active entry follows the selection.
func partial(active views.View, content gomponents.Node) gomponents.Node {
	return gomponents.Group([]gomponents.Node{
		content,
		sidebar(active, true),
	})
}

func sidebar(active views.View, oob bool) gomponents.Node {
	items := make([]gomponents.Node, 0, len(views.All))
	for _, v := range views.All {
		class := "nav-link"
		if v == active {
			class += " active"
		}
		items = append(items, html.Li(html.Class("nav-item"),
			html.A(
				html.Class(class),
				html.Href("/dashboard/"+v.Slug()),
				hx.Get("/partials/"+v.Slug()),
				hx.Target("#"+contentID),
				hx.Swap("innerHTML"),
				hx.PushURL("/dashboard/"+v.Slug()),
				gomponents.Text(v.Label()),
			),
		))
	}
	return html.Nav(
		html.ID("sidebar"),
		html.Class("sidebar bg-light border-end p-3"),
		gomponents.If(oob, gomponents.Attr("hx-swap-oob", "true")),
		html.H5(html.Class("mb-3"), gomponents.Text("Movie Dashboard")),
		html.Ul(html.Class("nav nav-pills flex-column"), gomponents.Group(items)),
	)
}

func addCSS() gomponents.Node {
	return html.StyleEl(gomponents.Raw(`
		.sidebar { min-width: 220px; min-height: 100vh; }
		.metric-value { font-size: 2rem; font-weight: 600; }
		.chart { max-width: 100%; height: auto; }
		.poster { width: 100%; aspect-ratio: 2 / 3; object-fit: cover; }
	`))
}

func emptyState(message string) gomponents.Node {
	return html.Div(
		html.Class("alert alert-secondary"),
		gomponents.Attr("role", "status"),
		gomponents.Text(message),
	)
}

// renderPage writes a full html document.
func renderPage(ctx *gin.Context, status int, node gomponents.Node) {
	var buf strings.Builder
	node.Render(&buf)

	ctx.Header("Content-Type", "text/html; charset=utf-8")
	ctx.String(status, buf.String())
}

// renderFragment writes an html fragment for htmx.
func renderFragment(ctx *gin.Context, status int, node gomponents.Node) {
	renderPage(ctx, status, node)
}

func renderNotFound(ctx *gin.Context, message string) {
	renderPage(ctx, http.StatusNotFound, page(views.Overview, emptyState(message)))
}
