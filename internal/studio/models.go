package studio

import "github.com/Rana718/retailsim/internal/dataset"

type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
}

type TableData struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Total   int              `json:"total"`
	Offset  int              `json:"offset"`
	Limit   int              `json:"limit"`
}

type RunInfo struct {
	RunID      string `json:"run_id"`
	Seed       uint64 `json:"seed"`
	AnchorDate string `json:"anchor_date"`
	Rows       int    `json:"rows"`
}

type RegenerateRequest struct {
	Rows *int    `json:"rows"`
	Seed *uint64 `json:"seed"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func columnInfo(c dataset.Column, nullable bool) ColumnInfo {
	return ColumnInfo{Name: c.Name, Type: c.Kind.String(), Nullable: nullable}
}
