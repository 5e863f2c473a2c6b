package database

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/Kellerman81/go_movie_dashboard/apperrors"
)

// CSVFile reads the movie table from a csv file with a header row.
type CSVFile struct {
	Path string
}

func (c CSVFile) Name() string {
	return c.Path
}

func (c CSVFile) Load() (*MovieTable, error) {
	if !checkFile(c.Path) {
		return nil, apperrors.LoadError(c.Path, "file not found", os.ErrNotExist)
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, apperrors.LoadError(c.Path, "open failed", err)
	}
	defer f.Close()
	return ParseCSV(f, c.Path)
}

// ParseCSV reads a header row followed by data rows. Every column in
// RequiredColumns must be present in the header; extra columns are ignored.
func ParseCSV(r io.Reader, source string) (*MovieTable, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.LoadError(source, "empty file", err)
	}
	if err != nil {
		return nil, apperrors.LoadError(source, "malformed header", err)
	}

	index := make(map[Field]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		index[columnField(name)] = i
	}
	if err := checkColumns(source, func(f Field) bool {
		_, ok := index[f]
		return ok
	}); err != nil {
		return nil, err
	}

	var rows []MovieRecord
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.LoadError(source, "malformed row", err)
		}
		rows = append(rows, newRecord(len(rows)+1, func(f Field) string {
			return record[index[f]]
		}))
	}
	return &MovieTable{source: source, rows: rows}, nil
}

// checkColumns returns a LOAD error listing every required column has() rejects.
func checkColumns(source string, has func(Field) bool) error {
	var missing []string
	for _, f := range RequiredColumns {
		if !has(f) {
			missing = append(missing, string(f))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperrors.LoadError(source, "missing required columns", nil).
		WithContext("columns", strings.Join(missing, ","))
}

// columnField maps a header or column name to a Field, ignoring case and
// surrounding space.
func columnField(name string) Field {
	return Field(strings.ToLower(strings.TrimSpace(name)))
}

func checkFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
