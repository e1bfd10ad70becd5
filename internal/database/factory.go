package database

import "fmt"

func NewAdapter(provider string) (DatabaseAdapter, error) {
	switch provider {
	case "postgresql", "postgres":
		return NewPostgresAdapter(), nil
	case "mysql":
		return NewMySQLAdapter(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteAdapter(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
}
