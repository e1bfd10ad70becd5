package database

import (
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Rana718/retailsim/internal/dataset"
	"github.com/Rana718/retailsim/internal/types"
)

// sqliteMaxParams is SQLITE_MAX_VARIABLE_NUMBER for the bundled SQLite.
const sqliteMaxParams = 32766

func NewSQLiteAdapter() *Adapter {
	return newAdapter(dialect{
		provider:    "sqlite",
		driver:      "sqlite3",
		placeholder: squirrel.Question,
		maxParams:   sqliteMaxParams,
		quote:       pq.QuoteIdentifier,
		columnType: func(c dataset.Column) string {
			switch c.Kind {
			case dataset.KindInt, dataset.KindBool:
				return "INTEGER"
			case dataset.KindDecimal:
				return "NUMERIC"
			default:
				return "TEXT"
			}
		},
		truncate: func(quoted string) []string {
			return []string{"DELETE FROM " + quoted}
		},
		value: func(_ dataset.Column, v any) any {
			// Dates are stored as ISO text.
			if t, ok := v.(time.Time); ok {
				return t.Format(types.DateLayout)
			}
			return v
		},
		dsn: func(url string) string {
			path := strings.TrimPrefix(url, "sqlite://")
			if !strings.Contains(path, "?") {
				path += "?_journal_mode=WAL"
			}
			return path
		},
	})
}
