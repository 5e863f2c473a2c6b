package database

import (
	"sync"
	"time"

	"github.com/Kellerman81/go_movie_dashboard/apperrors"
	"github.com/Kellerman81/go_movie_dashboard/config"
	"github.com/Kellerman81/go_movie_dashboard/logger"
)

// Source produces a movie table.
type Source interface {
	Name() string
	Load() (*MovieTable, error)
}

// NewSource returns the source described by the dataset config section.
func NewSource(cfg config.DatasetConfig) (Source, error) {
	switch cfg.Type {
	case config.DatasetTypeCSV, "":
		return CSVFile{Path: cfg.Source}, nil
	case config.DatasetTypeSqlite:
		return SqliteTable{Path: cfg.Source, Table: cfg.Table}, nil
	}
	return nil, apperrors.Validation("new_source", "unknown dataset type", cfg.Type)
}

// Store holds the table loaded by the first Load call. The first result,
// table or error, is returned by every later call; there is no invalidation.
type Store struct {
	once  sync.Once
	table *MovieTable
	err   error
	name  string
}

// Load reads src on the first call only. Later calls ignore src.
func (s *Store) Load(src Source) (*MovieTable, error) {
	s.once.Do(func() {
		s.name = src.Name()
		start := time.Now()
		s.table, s.err = src.Load()
		if s.err != nil {
			apperrors.LogClassifiedError(logger.Logtype(logger.StrError, 0), s.err).
				Str("source", s.name).
				Msg("Dataset load failed")
			return
		}
		logger.LogDynamicany("info", "Dataset loaded",
			"source", s.name,
			"rows", s.table.Len(),
			"duration", time.Since(start),
		)
	})
	return s.table, s.err
}

// SourceName returns the name of the source passed to the first Load.
func (s *Store) SourceName() string {
	return s.name
}
