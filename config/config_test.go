package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withConfigfile(t *testing.T, path string) {
	t.Helper()
	old := Configfile
	Configfile = path
	t.Cleanup(func() { Configfile = old })
}

func TestLoadCfg_WritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "config.toml")
	withConfigfile(t, path)

	require.NoError(t, LoadCfg())

	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Dashboard, GetSettingsDashboard())
	assert.Equal(t, "csv", GetSettingsDataset().Type)
	assert.Equal(t, "8501", GetSettingsGeneral().WebPort)
}

func TestLoadCfg_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	withConfigfile(t, path)
	content := `
[general]
log_level = "Debug"
web_port = "9000"

[dataset]
source = "./data/movies.db"
type = "SQLite"
table = "watch_movies"

[dashboard]
top_genres = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	require.NoError(t, LoadCfg())

	general := GetSettingsGeneral()
	assert.Equal(t, "Debug", general.LogLevel)
	assert.Equal(t, "9000", general.WebPort)

	dataset := GetSettingsDataset()
	assert.Equal(t, DatasetTypeSqlite, dataset.Type)
	assert.Equal(t, "watch_movies", dataset.Table)

	dash := GetSettingsDashboard()
	assert.Equal(t, 5, dash.TopGenres)
	assert.Equal(t, 50, dash.HistogramBins)
	assert.Equal(t, 5, dash.Recommendations)
}

func TestLoadCfg_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown type", content: "[dataset]\ntype = \"parquet\"\n"},
		{name: "empty source", content: "[dataset]\nsource = \"\"\n"},
		{name: "zero bins", content: "[dashboard]\nhistogram_bins = 0\n"},
		{name: "negative cache", content: "[dashboard]\ncache_minutes = -1\n"},
		{name: "sqlite without table", content: "[dataset]\ntype = \"sqlite\"\ntable = \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			withConfigfile(t, path)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			err := LoadCfg()
			require.Error(t, err)
			var cfgErr *ConfigurationError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestReadconfigtoml_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	withConfigfile(t, path)
	require.NoError(t, os.WriteFile(path, []byte("[general\nlog_level="), 0o644))

	_, err := Readconfigtoml()
	assert.ErrorContains(t, err, "failed to decode TOML config")
}
