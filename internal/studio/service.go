package studio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/samber/lo"

	"github.com/Rana718/retailsim/internal/dataset"
	"github.com/Rana718/retailsim/internal/export"
	"github.com/Rana718/retailsim/internal/types"
	"github.com/Rana718/retailsim/internal/validate"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
	// maxRegenerateRows bounds tables built through the API.
	maxRegenerateRows = 200000
)

// Service holds the table being inspected. Regenerate swaps it atomically.
type Service struct {
	mu      sync.RWMutex
	opts    dataset.Options
	version string
	result  *dataset.Result
	meta    export.Meta
}

func NewService(result *dataset.Result, opts dataset.Options, version string) *Service {
	return &Service{
		opts:    opts,
		version: version,
		result:  result,
		meta:    export.NewMeta(version, opts.Seed, opts.Anchor),
	}
}

func (s *Service) snapshot() (*dataset.Result, export.Meta) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result, s.meta
}

func (s *Service) Info() RunInfo {
	res, meta := s.snapshot()
	return RunInfo{
		RunID:      meta.RunID,
		Seed:       meta.Seed,
		AnchorDate: meta.Anchor.Format(types.DateLayout),
		Rows:       res.Table.Len(),
	}
}

// Columns reports each column with whether it can hold nulls in the
// current table.
func (s *Service) Columns() []ColumnInfo {
	res, _ := s.snapshot()
	return lo.Map(dataset.Columns, func(c dataset.Column, i int) ColumnInfo {
		nullable := lo.ContainsBy(res.Table.Records, func(r dataset.Record) bool { return r[i] == nil })
		return columnInfo(c, nullable)
	})
}

// Rows pages through the table, optionally keeping only one order status.
func (s *Service) Rows(offset, limit int, status string) TableData {
	res, _ := s.snapshot()
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	records := res.Table.Records
	if status != "" {
		col := dataset.ColumnIndex("OrderStatus")
		records = lo.Filter(records, func(r dataset.Record, _ int) bool { return r[col] == status })
	}

	page := (&dataset.Table{Records: records}).Page(offset, limit)
	return TableData{
		Columns: dataset.ColumnNames(),
		Rows:    lo.Map(page, func(r dataset.Record, _ int) map[string]any { return r.Map() }),
		Total:   len(records),
		Offset:  offset,
		Limit:   limit,
	}
}

func (s *Service) Row(index int) (map[string]any, bool) {
	res, _ := s.snapshot()
	if index < 0 || index >= res.Table.Len() {
		return nil, false
	}
	return res.Table.Records[index].Map(), true
}

func (s *Service) Summary() dataset.Summary {
	res, _ := s.snapshot()
	return dataset.Summarize(res.Table, res.Catalog)
}

func (s *Service) Validate() validate.Report {
	res, _ := s.snapshot()
	return validate.Check(res.Table)
}

// Export encodes the table and returns the body and file name.
func (s *Service) Export(ctx context.Context, format string) ([]byte, string, error) {
	res, meta := s.snapshot()
	ext, err := export.Extension(format)
	if err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("order_lines_%s.%s", meta.RunID, ext)

	if format != export.FormatSQLite {
		var buf bytes.Buffer
		if err := export.Write(&buf, res.Table, meta, format); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), name, nil
	}

	dir, err := os.MkdirTemp("", "retailsim-studio-*")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path, err := export.PerformExport(ctx, res.Table, meta, dir, format)
	if err != nil {
		return nil, "", err
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read export: %w", err)
	}
	return body, name, nil
}

// Regenerate builds a new table with the current options, overriding rows
// and seed when given.
func (s *Service) Regenerate(ctx context.Context, req RegenerateRequest) (RunInfo, error) {
	s.mu.RLock()
	opts := s.opts
	s.mu.RUnlock()

	if req.Rows != nil {
		if *req.Rows > maxRegenerateRows {
			return RunInfo{}, fmt.Errorf("rows must not exceed %d", maxRegenerateRows)
		}
		opts.Rows = *req.Rows
	}
	if req.Seed != nil {
		opts.Seed = *req.Seed
	}
	opts.Progress = nil

	res, err := dataset.Generate(ctx, opts)
	if err != nil {
		return RunInfo{}, err
	}

	s.mu.Lock()
	s.opts = opts
	s.result = res
	s.meta = export.NewMeta(s.version, opts.Seed, opts.Anchor)
	s.mu.Unlock()

	return s.Info(), nil
}
