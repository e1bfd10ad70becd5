package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"

	"github.com/Masterminds/squirrel"

	"github.com/Rana718/retailsim/internal/dataset"
)

var ErrUnsupportedProvider = errors.New("unsupported database provider")

// validIdentifier guards table names that end up in DDL.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error
	Provider() string

	EnsureTable(ctx context.Context, table string, columns []dataset.Column) error
	TruncateTable(ctx context.Context, table string) error
	CountRows(ctx context.Context, table string) (int, error)

	Begin(ctx context.Context) (*sql.Tx, error)
	InsertRows(ctx context.Context, tx *sql.Tx, table string, columns []dataset.Column, rows []dataset.Record) error
	// MaxBatchRows is the largest number of rows one INSERT may carry for
	// the given column count.
	MaxBatchRows(columns int) int
}

// dialect holds everything that differs between providers.
type dialect struct {
	provider    string
	driver      string
	placeholder squirrel.PlaceholderFormat
	maxParams   int
	quote       func(string) string
	columnType  func(c dataset.Column) string
	truncate    func(quoted string) []string
	value       func(c dataset.Column, v any) any
	dsn         func(url string) string
}

// Adapter is a database/sql backed DatabaseAdapter parameterised by dialect.
type Adapter struct {
	db *sql.DB
	qb squirrel.StatementBuilderType
	d  dialect
}

func newAdapter(d dialect) *Adapter {
	return &Adapter{
		qb: squirrel.StatementBuilder.PlaceholderFormat(d.placeholder),
		d:  d,
	}
}

func (a *Adapter) Provider() string {
	return a.d.provider
}

func (a *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open(a.d.driver, a.d.dsn(url))
	if err != nil {
		return fmt.Errorf("failed to open %s connection: %w", a.d.provider, err)
	}
	a.db = db
	return nil
}

func (a *Adapter) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func (a *Adapter) Ping(ctx context.Context) error {
	if a.db == nil {
		return errors.New("not connected")
	}
	return a.db.PingContext(ctx)
}

func (a *Adapter) EnsureTable(ctx context.Context, table string, columns []dataset.Column) error {
	if !validIdentifier.MatchString(table) {
		return fmt.Errorf("invalid table name: %s", table)
	}
	if _, err := a.db.ExecContext(ctx, a.createTableSQL(table, columns)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

func (a *Adapter) createTableSQL(table string, columns []dataset.Column) string {
	defs := ""
	for i, c := range columns {
		if i > 0 {
			defs += ", "
		}
		defs += a.d.quote(c.Name) + " " + a.d.columnType(c)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", a.d.quote(table), defs)
}

func (a *Adapter) TruncateTable(ctx context.Context, table string) error {
	if !validIdentifier.MatchString(table) {
		return fmt.Errorf("invalid table name: %s", table)
	}
	for _, query := range a.d.truncate(a.d.quote(table)) {
		if _, err := a.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

func (a *Adapter) CountRows(ctx context.Context, table string) (int, error) {
	if !validIdentifier.MatchString(table) {
		return 0, fmt.Errorf("invalid table name: %s", table)
	}
	var n int
	err := a.qb.Select("COUNT(*)").From(a.d.quote(table)).RunWith(a.db).QueryRowContext(ctx).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return n, nil
}

func (a *Adapter) Begin(ctx context.Context) (*sql.Tx, error) {
	return a.db.BeginTx(ctx, nil)
}

// InsertRows writes rows with one multi-row INSERT. tx may be nil to run
// outside a transaction.
func (a *Adapter) InsertRows(ctx context.Context, tx *sql.Tx, table string, columns []dataset.Column, rows []dataset.Record) error {
	if len(rows) == 0 {
		return nil
	}
	if !validIdentifier.MatchString(table) {
		return fmt.Errorf("invalid table name: %s", table)
	}
	if limit := a.MaxBatchRows(len(columns)); len(rows) > limit {
		return fmt.Errorf("batch of %d rows exceeds the %s limit of %d", len(rows), a.d.provider, limit)
	}

	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = a.d.quote(c.Name)
	}

	insert := a.qb.Insert(a.d.quote(table)).Columns(names...)
	for _, rec := range rows {
		values := make([]any, len(columns))
		for i, c := range columns {
			values[i] = a.d.value(c, rec[i])
		}
		insert = insert.Values(values...)
	}

	var runner squirrel.BaseRunner = a.db
	if tx != nil {
		runner = tx
	}
	if _, err := insert.RunWith(runner).ExecContext(ctx); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (a *Adapter) MaxBatchRows(columns int) int {
	if columns <= 0 {
		return a.d.maxParams
	}
	return a.d.maxParams / columns
}

// DB exposes the underlying handle for read paths.
func (a *Adapter) DB() *sql.DB {
	return a.db
}

func passThrough(_ dataset.Column, v any) any {
	return v
}

func sameURL(url string) string {
	return url
}
