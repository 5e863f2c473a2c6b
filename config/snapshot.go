package config

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// ConfigurationError represents configuration-related errors.
type ConfigurationError struct {
	Type    string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Type, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// ConfigSnapshot is an immutable, validated configuration.
type ConfigSnapshot struct {
	General     GeneralConfig
	Dataset     DatasetConfig
	Dashboard   DashboardConfig
	ValidatedAt time.Time
}

var configSnapshot atomic.Pointer[ConfigSnapshot]

// Store validates cfg and makes it the active snapshot.
func Store(cfg *MainConfig) error {
	if err := validateConfiguration(cfg); err != nil {
		return err
	}
	configSnapshot.Store(&ConfigSnapshot{
		General:     cfg.General,
		Dataset:     cfg.Dataset,
		Dashboard:   cfg.Dashboard,
		ValidatedAt: time.Now(),
	})
	return nil
}

// getCurrentConfig returns the active snapshot, falling back to defaults.
func getCurrentConfig() *ConfigSnapshot {
	if snapshot := configSnapshot.Load(); snapshot != nil {
		return snapshot
	}
	def := DefaultConfig()
	return &ConfigSnapshot{General: def.General, Dataset: def.Dataset, Dashboard: def.Dashboard}
}

func GetSettingsGeneral() GeneralConfig {
	return getCurrentConfig().General
}

func GetSettingsDataset() DatasetConfig {
	return getCurrentConfig().Dataset
}

func GetSettingsDashboard() DashboardConfig {
	return getCurrentConfig().Dashboard
}

func validateConfiguration(config *MainConfig) error {
	if config == nil {
		return &ConfigurationError{Type: "validation", Message: "configuration is nil"}
	}
	if config.Dataset.Source == "" {
		return &ConfigurationError{Type: "validation", Message: "dataset.source is required"}
	}
	switch strings.ToLower(config.Dataset.Type) {
	case DatasetTypeCSV:
	case DatasetTypeSqlite:
		if config.Dataset.Table == "" {
			return &ConfigurationError{Type: "validation", Message: "dataset.table is required for sqlite"}
		}
	default:
		return &ConfigurationError{
			Type:    "validation",
			Message: fmt.Sprintf("dataset.type %q is not one of csv, sqlite", config.Dataset.Type),
		}
	}
	config.Dataset.Type = strings.ToLower(config.Dataset.Type)

	d := &config.Dashboard
	for name, v := range map[string]int{
		"histogram_bins":  d.HistogramBins,
		"top_genres":      d.TopGenres,
		"top_actors":      d.TopActors,
		"recommendations": d.Recommendations,
	} {
		if v <= 0 {
			return &ConfigurationError{
				Type:    "validation",
				Message: fmt.Sprintf("dashboard.%s must be positive, got %d", name, v),
			}
		}
	}
	if d.CacheMinutes < 0 {
		return &ConfigurationError{
			Type:    "validation",
			Message: fmt.Sprintf("dashboard.cache_minutes must not be negative, got %d", d.CacheMinutes),
		}
	}
	if config.General.WebPort == "" {
		config.General.WebPort = DefaultConfig().General.WebPort
	}
	return nil
}
