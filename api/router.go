package api

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/DeanThompson/ginpprof"
	"github.com/Kellerman81/go_movie_dashboard/config"
	"github.com/Kellerman81/go_movie_dashboard/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the engine serving the dashboard pages, chart images and
// the json api for d.
func NewRouter(d *Dashboard, general config.GeneralConfig) *gin.Engine {
	if !strings.EqualFold(general.LogLevel, logger.StrDebug) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logger.RequestID(), logger.GinLogger(), logger.ErrorLogger(), gin.Recovery())

	if general.EnableCors {
		router.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{http.MethodGet, http.MethodHead, http.MethodOptions},
			AllowHeaders:    []string{"Origin", "Content-Type", logger.RequestIDHeader},
			ExposeHeaders:   []string{logger.RequestIDHeader},
			MaxAge:          12 * time.Hour,
		}))
	}

	if general.StaticDir != "" {
		if info, err := os.Stat(general.StaticDir); err == nil && info.IsDir() {
			router.Static("/static", general.StaticDir)
		}
	}

	router.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, "/dashboard")
	})
	AddWebRoutes(router.Group("/"), d)
	AddChartRoutes(router.Group("/charts"), d)
	AddViewRoutes(router.Group("/api"), d)
	router.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			renderJSON(ctx, http.StatusNotFound, Jsonerror{Error: "not found"})
			return
		}
		renderNotFound(ctx, "Page not found")
	})

	if strings.EqualFold(general.LogLevel, logger.StrDebug) {
		ginpprof.Wrap(router)
	}
	return router
}

// AddWebRoutes registers the html pages and htmx partials.
func AddWebRoutes(rg *gin.RouterGroup, d *Dashboard) {
	rg.GET("/dashboard", d.webDashboardPage)
	rg.GET("/dashboard/:view", d.webDashboardPage)
	rg.GET("/partials/:view", d.webDashboardPartial)
}

// AddChartRoutes registers the png chart images.
func AddChartRoutes(rg *gin.RouterGroup, d *Dashboard) {
	rg.GET("/:view/:chart", d.webChart)
}

// AddViewRoutes registers the json api.
func AddViewRoutes(rg *gin.RouterGroup, d *Dashboard) {
	rg.GET("/views", d.apiViews)
	rg.GET("/views/:view", d.apiView)
}
