package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kellerman81/go_movie_dashboard/api"
	"github.com/Kellerman81/go_movie_dashboard/config"
	"github.com/Kellerman81/go_movie_dashboard/database"
	"github.com/Kellerman81/go_movie_dashboard/logger"
	"github.com/Kellerman81/go_movie_dashboard/report"
	"github.com/Kellerman81/go_movie_dashboard/views"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var (
	version    = "dev"
	githash    = ""
	buildstamp = ""
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "moviedash",
		Usage:   "Interactive analytics dashboard over a movie dataset",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path of config.toml",
				Value:   config.Configfile,
				EnvVars: []string{"MOVIEDASH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "dataset",
				Usage:   "overrides dataset.source from the config",
				EnvVars: []string{"MOVIEDASH_DATASET"},
			},
		},
		Before: setup,
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the web dashboard",
				Action: serve,
			},
			{
				Name:  "report",
				Usage: "Print one view as tables",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "view",
						Usage: "view label or slug",
						Value: views.Overview.Slug(),
					},
					&cli.StringFlag{
						Name:  "genre",
						Usage: "genre for the recommendations view",
					},
				},
				Action: printReport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config and initializes the logger for every command.
func setup(c *cli.Context) error {
	config.Configfile = c.String("config")
	if err := config.LoadCfg(); err != nil {
		return err
	}
	general := config.GetSettingsGeneral()
	logger.InitLogger(logger.Config{
		LogLevel:      general.LogLevel,
		LogFileSize:   general.LogFileSize,
		LogFileCount:  general.LogFileCount,
		LogCompress:   general.LogCompress,
		LogToFileOnly: general.LogToFileOnly,
		LogColorize:   general.LogColorize,
		TimeFormat:    general.TimeFormat,
		TimeZone:      general.TimeZone,
		LogZeroValues: general.LogZeroValues,
	})
	return nil
}

// loadTable reads the configured dataset. A load failure is fatal.
func loadTable(c *cli.Context) (*database.MovieTable, config.DatasetConfig, error) {
	dataset := config.GetSettingsDataset()
	if src := c.String("dataset"); src != "" {
		dataset.Source = src
	}
	src, err := database.NewSource(dataset)
	if err != nil {
		return nil, dataset, err
	}
	var store database.Store
	table, err := store.Load(src)
	if err != nil {
		return nil, dataset, cli.Exit(err.Error(), 1)
	}
	logger.LogDynamicany("info", "Using dataset", "source", store.SourceName(), "rows", table.Len())
	return table, dataset, nil
}

func serve(c *cli.Context) error {
	logger.LogDynamicany("info", "Starting moviedash",
		"version", version,
		"git", githash,
		"build", buildstamp,
	)
	table, dataset, err := loadTable(c)
	if err != nil {
		return err
	}

	general := config.GetSettingsGeneral()
	dash := config.GetSettingsDashboard()
	opts := views.OptionsFromConfig(dash, dataset)
	ttl := time.Duration(dash.CacheMinutes) * time.Minute
	router := api.NewRouter(api.NewDashboard(table, opts, ttl), general)

	server := http.Server{
		Addr:              ":" + general.WebPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogDynamicany("fatal", "server failed", err)
		}
	}()
	logger.LogDynamicany("info", "Server listening", "port", general.WebPort)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.LogDynamicany("info", "Server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.LogDynamicany("error", "server shutdown", err)
	}

	logger.LogDynamicany("info", "Server exiting")
	return nil
}

func printReport(c *cli.Context) error {
	logger.SetOutput(os.Stderr)
	v, err := views.ParseView(c.String("view"))
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	table, dataset, err := loadTable(c)
	if err != nil {
		return err
	}

	state, _ := views.Transition(views.InitialState(), views.SelectView(v))
	if genre := c.String("genre"); genre != "" {
		state, _ = views.Transition(state, views.SelectGenre(genre))
	}
	report.Print(os.Stdout, views.Compute(table, state, views.OptionsFromConfig(config.GetSettingsDashboard(), dataset)))
	return nil
}
