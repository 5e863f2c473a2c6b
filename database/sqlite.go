package database

import (
	"database/sql"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Kellerman81/go_movie_dashboard/apperrors"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SqliteTable reads the movie table from a table of an existing sqlite
// database. The database is opened read-only.
type SqliteTable struct {
	Path  string
	Table string
}

// sqliteRow scans every column as text so cells go through the same parsing
// as csv cells.
type sqliteRow struct {
	Title       sql.NullString `db:"title"`
	BudgetUSD   sql.NullString `db:"budget_usd"`
	UserScore   sql.NullString `db:"user_score"`
	VoteCount   sql.NullString `db:"vote_count"`
	Genres      sql.NullString `db:"genres"`
	ReleaseDate sql.NullString `db:"release_date"`
	TopBilled   sql.NullString `db:"top_billed"`
	Director    sql.NullString `db:"director"`
	PosterPath  sql.NullString `db:"poster_path"`
}

func (r *sqliteRow) cell(f Field) string {
	var v sql.NullString
	switch f {
	case FieldTitle:
		v = r.Title
	case FieldBudgetUSD:
		v = r.BudgetUSD
	case FieldUserScore:
		v = r.UserScore
	case FieldVoteCount:
		v = r.VoteCount
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
	}
	return v.String
}

func (s SqliteTable) Name() string {
	return s.Path + "#" + s.Table
}

func (s SqliteTable) Load() (*MovieTable, error) {
	if !checkFile(s.Path) {
		return nil, apperrors.LoadError(s.Name(), "database not found", os.ErrNotExist)
	}
	if !tableNameRegex.MatchString(s.Table) {
		return nil, apperrors.LoadError(s.Name(), "invalid table name", nil)
	}

	db, err := sqlx.Connect("sqlite3", "file:"+s.Path+"?mode=ro&_mutex=full&_cslike=0")
	if err != nil {
		return nil, apperrors.LoadError(s.Name(), "open failed", err)
	}
	defer db.Close()

	empty, err := db.Queryx(fmt.Sprintf("SELECT * FROM %s LIMIT 0", s.Table))
	if err != nil {
		return nil, apperrors.LoadError(s.Name(), "table not readable", err)
	}
	columns, err := empty.Columns()
	empty.Close()
	if err != nil {
		return nil, apperrors.LoadError(s.Name(), "table not readable", err)
	}
	present := make(map[Field]struct{}, len(columns))
	for _, c := range columns {
		present[columnField(c)] = struct{}{}
	}
	if err := checkColumns(s.Name(), func(f Field) bool {
		_, ok := present[f]
		return ok
	}); err != nil {
		return nil, err
	}

	// aliases pin the result names whatever case the table declares
	selects := make([]string, len(RequiredColumns))
	for i, f := range RequiredColumns {
		selects[i] = fmt.Sprintf("%s AS %s", f, f)
	}
	var raw []sqliteRow
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(selects, ", "), s.Table)
	if err := db.Select(&raw, query); err != nil {
		return nil, apperrors.LoadError(s.Name(), "query failed", err)
	}

	rows := make([]MovieRecord, len(raw))
	for i := range raw {
		rows[i] = newRecord(i+1, raw[i].cell)
	}
	return &MovieTable{source: s.Name(), rows: rows}, nil
}
