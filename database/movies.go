package database

import (
	"database/sql"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Kellerman81/go_movie_dashboard/apperrors"
	"github.com/goccy/go-json"
)

// Field names a column of the movie table.
type Field string

const (
	FieldTitle       Field = "title"
	FieldBudgetUSD   Field = "budget_usd"
	FieldUserScore   Field = "user_score"
	FieldVoteCount   Field = "vote_count"
	FieldGenres      Field = "genres"
	FieldReleaseDate Field = "release_date"
	FieldTopBilled   Field = "top_billed"
	FieldDirector    Field = "director"
	FieldPosterPath  Field = "poster_path"
)

// RequiredColumns lists the columns every source has to provide.
var RequiredColumns = []Field{
	FieldTitle,
	FieldBudgetUSD,
	FieldUserScore,
	FieldVoteCount,
	FieldGenres,
	FieldReleaseDate,
	FieldTopBilled,
	FieldDirector,
	FieldPosterPath,
}

// MaxUserScore bounds user_score; values outside 0..MaxUserScore are treated as missing.
const MaxUserScore = 10

// MovieRecord is one row of the dataset. Numeric fields are invalid when the
// source cell was empty or unparseable; empty strings mean missing text.
type MovieRecord struct {
	Row         int
	Title       string
	BudgetUSD   sql.NullFloat64
	UserScore   sql.NullFloat64
	VoteCount   sql.NullInt64
	Genres      string
	ReleaseDate string
	TopBilled   string
	Director    string
	PosterPath  string
}

type movieRecordJSON struct {
	Row         int      `json:"row"`
	Title       string   `json:"title"`
	BudgetUSD   *float64 `json:"budget_usd"`
	UserScore   *float64 `json:"user_score"`
	VoteCount   *int64   `json:"vote_count"`
	Genres      string   `json:"genres"`
	ReleaseDate string   `json:"release_date"`
	TopBilled   string   `json:"top_billed"`
	Director    string   `json:"director"`
	PosterPath  string   `json:"poster_path"`
}

// MarshalJSON writes missing numbers as null.
func (r MovieRecord) MarshalJSON() ([]byte, error) {
	out := movieRecordJSON{
		Row:         r.Row,
		Title:       r.Title,
		Genres:      r.Genres,
		ReleaseDate: r.ReleaseDate,
		TopBilled:   r.TopBilled,
		Director:    r.Director,
		PosterPath:  r.PosterPath,
	}
	if r.BudgetUSD.Valid {
		out.BudgetUSD = &r.BudgetUSD.Float64
	}
	if r.UserScore.Valid {
		out.UserScore = &r.UserScore.Float64
	}
	if r.VoteCount.Valid {
		out.VoteCount = &r.VoteCount.Int64
	}
	return json.Marshal(out)
}

// Budget returns budget_usd or a MISSING_FIELD error.
func (r *MovieRecord) Budget() (float64, error) {
	if !r.BudgetUSD.Valid {
		return 0, apperrors.MissingField(string(FieldBudgetUSD), r.Row)
	}
	return r.BudgetUSD.Float64, nil
}

// Score returns user_score or a MISSING_FIELD error.
func (r *MovieRecord) Score() (float64, error) {
	if !r.UserScore.Valid {
		return 0, apperrors.MissingField(string(FieldUserScore), r.Row)
	}
	return r.UserScore.Float64, nil
}

// Votes returns vote_count or a MISSING_FIELD error.
func (r *MovieRecord) Votes() (int64, error) {
	if !r.VoteCount.Valid {
		return 0, apperrors.MissingField(string(FieldVoteCount), r.Row)
	}
	return r.VoteCount.Int64, nil
}

var releaseDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01",
	"2006",
}

// Year returns the year of release_date.
func (r *MovieRecord) Year() (int, error) {
	s := strings.TrimSpace(r.ReleaseDate)
	if s == "" {
		return 0, apperrors.MissingField(string(FieldReleaseDate), r.Row)
	}
	for _, layout := range releaseDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), nil
		}
	}
	return 0, apperrors.MissingField(string(FieldReleaseDate), r.Row).
		WithContext("value", s)
}

// Field returns a string column. Numeric columns are rejected with a VALIDATION error.
func (r *MovieRecord) Field(field Field) (string, error) {
	var v string
	switch field {
	case FieldTitle:
		v = r.Title
	case FieldGenres:
		v = r.Genres
	case FieldReleaseDate:
		v = r.ReleaseDate
	case FieldTopBilled:
		v = r.TopBilled
	case FieldDirector:
		v = r.Director
	case FieldPosterPath:
		v = r.PosterPath
	default:
		return "", apperrors.Validation("read_field", "not a text column", string(field))
	}
	if v == "" {
		return "", apperrors.MissingField(string(field), r.Row)
	}
	return v, nil
}

// IsTextField reports whether MovieRecord.Field accepts field.
func IsTextField(field Field) bool {
	switch field {
	case FieldTitle, FieldGenres, FieldReleaseDate, FieldTopBilled, FieldDirector, FieldPosterPath:
		return true
	}
	return false
}

// newRecord builds a record from raw cells. Values violating the data model
// bounds are stored as missing.
func newRecord(row int, cell func(Field) string) MovieRecord {
	rec := MovieRecord{
		Row:         row,
		Title:       strings.TrimSpace(cell(FieldTitle)),
		Genres:      strings.TrimSpace(cell(FieldGenres)),
		ReleaseDate: strings.TrimSpace(cell(FieldReleaseDate)),
		TopBilled:   strings.TrimSpace(cell(FieldTopBilled)),
		Director:    strings.TrimSpace(cell(FieldDirector)),
		PosterPath:  strings.TrimSpace(cell(FieldPosterPath)),
	}
	if v, ok := parseNumber(cell(FieldBudgetUSD)); ok && v >= 0 {
		rec.BudgetUSD = sql.NullFloat64{Float64: v, Valid: true}
	}
	if v, ok := parseNumber(cell(FieldUserScore)); ok && v >= 0 && v <= MaxUserScore {
		rec.UserScore = sql.NullFloat64{Float64: v, Valid: true}
	}
	if v, ok := parseNumber(cell(FieldVoteCount)); ok && v >= 0 && v == math.Trunc(v) {
		rec.VoteCount = sql.NullInt64{Int64: int64(v), Valid: true}
	}
	return rec
}

// parseNumber accepts plain numbers plus "$" prefixes and thousands separators.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// MovieTable is the loaded dataset. It is never modified after construction;
// accessors hand out copies.
type MovieTable struct {
	source string
	rows   []MovieRecord
}

// NewMovieTable copies rows into a new table.
func NewMovieTable(source string, rows []MovieRecord) *MovieTable {
	cp := make([]MovieRecord, len(rows))
	copy(cp, rows)
	return &MovieTable{source: source, rows: cp}
}

// Source names where the rows came from.
func (t *MovieTable) Source() string {
	if t == nil {
		return ""
	}
	return t.source
}

// Len returns the number of rows. A nil table is empty.
func (t *MovieTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// At returns a copy of row i.
func (t *MovieTable) At(i int) MovieRecord {
	return t.rows[i]
}

// Rows returns a copy of all rows in load order.
func (t *MovieTable) Rows() []MovieRecord {
	if t == nil {
		return nil
	}
	cp := make([]MovieRecord, len(t.rows))
	copy(cp, t.rows)
	return cp
}
