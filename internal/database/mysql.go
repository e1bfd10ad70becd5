package database

import (
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"

	"github.com/Rana718/retailsim/internal/dataset"
)

func NewMySQLAdapter() *Adapter {
	return newAdapter(dialect{
		provider:    "mysql",
		driver:      "mysql",
		placeholder: squirrel.Question,
		maxParams:   65535,
		quote: func(name string) string {
			return "`" + strings.ReplaceAll(name, "`", "``") + "`"
		},
		columnType: func(c dataset.Column) string {
			switch c.Kind {
			case dataset.KindInt:
				return "INT"
			case dataset.KindDecimal:
				return fmt.Sprintf("DECIMAL(12,%d)", c.Places)
			case dataset.KindBool:
				return "BOOLEAN"
			case dataset.KindDate:
				return "DATE"
			default:
				return "VARCHAR(255)"
			}
		},
		truncate: func(quoted string) []string {
			return []string{"TRUNCATE TABLE " + quoted}
		},
		value: passThrough,
		dsn:   mysqlDSN,
	})
}

// mysqlDSN accepts both driver DSNs and mysql:// URLs.
func mysqlDSN(url string) string {
	if !strings.HasPrefix(url, "mysql://") {
		return url
	}
	rest := strings.TrimPrefix(url, "mysql://")

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.ParseTime = true

	if at := strings.LastIndex(rest, "@"); at >= 0 {
		creds := rest[:at]
		rest = rest[at+1:]
		user, pass, _ := strings.Cut(creds, ":")
		cfg.User = user
		cfg.Passwd = pass
	}
	host, dbAndParams, _ := strings.Cut(rest, "/")
	cfg.Addr = host
	dbName, _, _ := strings.Cut(dbAndParams, "?")
	cfg.DBName = dbName
	return cfg.FormatDSN()
}
