package database

import (
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"github.com/Rana718/retailsim/internal/dataset"
)

func NewPostgresAdapter() *Adapter {
	return newAdapter(dialect{
		provider:    "postgresql",
		driver:      "pgx",
		placeholder: squirrel.Dollar,
		maxParams:   65535,
		quote:       pq.QuoteIdentifier,
		columnType: func(c dataset.Column) string {
			switch c.Kind {
			case dataset.KindInt:
				return "INTEGER"
			case dataset.KindDecimal:
				return fmt.Sprintf("NUMERIC(12,%d)", c.Places)
			case dataset.KindBool:
				return "BOOLEAN"
			case dataset.KindDate:
				return "DATE"
			default:
				return "TEXT"
			}
		},
		truncate: func(quoted string) []string {
			return []string{"TRUNCATE TABLE " + quoted}
		},
		value: passThrough,
		dsn:   sameURL,
	})
}
