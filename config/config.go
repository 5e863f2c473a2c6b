package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

var Configfile = "./config/config.toml"

// MainConfig is the root of config.toml.
type MainConfig struct {
	General   GeneralConfig   `toml:"general"   comment:"Logging and web server settings"`
	Dataset   DatasetConfig   `toml:"dataset"   comment:"Where the movie table is read from"`
	Dashboard DashboardConfig `toml:"dashboard" comment:"Sizes of the computed aggregates"`
}

type GeneralConfig struct {
	// LogLevel is one of debug, info, warning, error. Debug also enables pprof routes.
	LogLevel      string `toml:"log_level"`
	LogFileSize   int    `toml:"log_file_size"`
	LogFileCount  uint8  `toml:"log_file_count"`
	LogCompress   bool   `toml:"log_compress"`
	LogToFileOnly bool   `toml:"log_to_file_only"`
	LogColorize   bool   `toml:"log_colorize"`
	LogZeroValues bool   `toml:"log_zero_values"`
	TimeFormat    string `toml:"time_format"`
	TimeZone      string `toml:"time_zone"`
	WebPort       string `toml:"web_port"`
	// EnableCors allows cross origin reads of the JSON api.
	EnableCors bool `toml:"enable_cors"`
	// StaticDir is served under /static when it exists.
	StaticDir string `toml:"static_dir"`
}

type DatasetConfig struct {
	// Source is the csv file or sqlite database path.
	Source string `toml:"source"`
	// Type is "csv" or "sqlite".
	Type string `toml:"type"`
	// Table is the sqlite table holding the movie rows.
	Table string `toml:"table"`
	// PosterBaseURL is prefixed to poster paths starting with "/".
	PosterBaseURL string `toml:"poster_base_url"`
}

type DashboardConfig struct {
	HistogramBins   int `toml:"histogram_bins"`
	TopGenres       int `toml:"top_genres"`
	TopActors       int `toml:"top_actors"`
	Recommendations int `toml:"recommendations"`
	// CacheMinutes keeps computed views and chart images for that long. 0 keeps
	// them until restart, the table never changes after load.
	CacheMinutes int `toml:"cache_minutes"`
}

const (
	DatasetTypeCSV    = "csv"
	DatasetTypeSqlite = "sqlite"
)

// DefaultConfig returns the settings written on first start.
func DefaultConfig() MainConfig {
	return MainConfig{
		General: GeneralConfig{
			LogLevel:     "Info",
			LogFileSize:  5,
			LogFileCount: 5,
			TimeFormat:   "rfc3339",
			TimeZone:     "local",
			WebPort:      "8501",
			StaticDir:    "./static",
		},
		Dataset: DatasetConfig{
			Source:        "./watch_movies.csv",
			Type:          DatasetTypeCSV,
			Table:         "movies",
			PosterBaseURL: "https://image.tmdb.org/t/p/w500",
		},
		Dashboard: DashboardConfig{
			HistogramBins:   50,
			TopGenres:       10,
			TopActors:       10,
			Recommendations: 5,
		},
	}
}

// LoadCfg loads Configfile into the active snapshot. A missing file is created
// from DefaultConfig first.
func LoadCfg() error {
	if _, err := os.Stat(Configfile); errors.Is(err, os.ErrNotExist) {
		fmt.Println("Config file not found. Creating new config file.")
		defaults := DefaultConfig()
		if err := WriteCfg(&defaults); err != nil {
			return err
		}
	}

	cfg, err := Readconfigtoml()
	if err != nil {
		return err
	}
	return Store(cfg)
}

// Readconfigtoml reads and decodes Configfile. Keys missing from the file keep
// their default values.
func Readconfigtoml() (*MainConfig, error) {
	content, err := os.Open(Configfile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file '%s': %w", Configfile, err)
	}
	defer content.Close()

	config := DefaultConfig()
	if err := toml.NewDecoder(content).Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode TOML config: %w", err)
	}

	return &config, nil
}

// WriteCfg writes cfg to Configfile, creating its directory.
func WriteCfg(cfg *MainConfig) error {
	cnt, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode TOML config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(Configfile), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(Configfile, cnt, 0o644); err != nil {
		return fmt.Errorf("failed to write config file '%s': %w", Configfile, err)
	}
	return nil
}
