package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Rana718/retailsim/internal/database"
	"github.com/Rana718/retailsim/internal/dataset"
	"github.com/Rana718/retailsim/internal/types"
)

const (
	FormatCSV     = "csv"
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatParquet = "parquet"
	FormatSQLite  = "sqlite"

	// TableName is the table written by the SQLite export.
	TableName = "order_lines"
)

var Formats = []string{FormatCSV, FormatJSON, FormatYAML, FormatParquet, FormatSQLite}

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Meta describes the run that produced a table.
type Meta struct {
	RunID   string
	Version string
	Seed    uint64
	Anchor  time.Time
}

func NewMeta(version string, seed uint64, anchor time.Time) Meta {
	return Meta{RunID: uuid.NewString(), Version: version, Seed: seed, Anchor: anchor}
}

// ExportData is the envelope written by the JSON and YAML exports.
type ExportData struct {
	Timestamp  string           `json:"timestamp" yaml:"timestamp"`
	Version    string           `json:"version" yaml:"version"`
	RunID      string           `json:"run_id" yaml:"run_id"`
	Seed       uint64           `json:"seed" yaml:"seed"`
	AnchorDate string           `json:"anchor_date" yaml:"anchor_date"`
	Rows       int              `json:"rows" yaml:"rows"`
	Columns    []string         `json:"columns" yaml:"columns"`
	Records    []map[string]any `json:"records" yaml:"records"`
	Comment    string           `json:"comment" yaml:"comment"`
}

func NewExportData(t *dataset.Table, meta Meta) ExportData {
	records := make([]map[string]any, 0, t.Len())
	for _, r := range t.Records {
		records = append(records, r.Map())
	}
	return ExportData{
		Timestamp:  time.Now().Format("2006-01-02 15:04:05"),
		Version:    meta.Version,
		RunID:      meta.RunID,
		Seed:       meta.Seed,
		AnchorDate: meta.Anchor.Format(types.DateLayout),
		Rows:       t.Len(),
		Columns:    dataset.ColumnNames(),
		Records:    records,
		Comment:    "Synthetic retail order lines",
	}
}

func Extension(format string) (string, error) {
	switch format {
	case FormatCSV, FormatJSON, FormatYAML, FormatParquet:
		return format, nil
	case FormatSQLite:
		return "db", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// FileName is order_lines_<timestamp>_<run>.<ext>. The run suffix keeps two
// runs started within the same second from sharing a file.
func FileName(meta Meta, ext string) string {
	name := "order_lines_" + time.Now().Format("2006-01-02_15-04-05")
	if run := shortRunID(meta.RunID); run != "" {
		name += "_" + run
	}
	return name + "." + ext
}

func shortRunID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	return id
}

// PerformExport writes the table under exportPath in the given format and
// returns the path of the written file.
func PerformExport(ctx context.Context, t *dataset.Table, meta Meta, exportPath, format string) (string, error) {
	ext, err := Extension(format)
	if err != nil {
		return "", err
	}
	if t.Len() == 0 {
		log.Println("Warning: exporting an empty table")
	}
	if err := os.MkdirAll(exportPath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	filePath := filepath.Join(exportPath, FileName(meta, ext))

	if format == FormatSQLite {
		if err := exportToSQLite(ctx, t, filePath); err != nil {
			os.Remove(filePath)
			return "", err
		}
		return filePath, nil
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s file: %w", format, err)
	}
	if err := Write(file, t, meta, format); err != nil {
		file.Close()
		os.Remove(filePath)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", filePath, err)
	}
	return filePath, nil
}

// PerformExports writes one file per format concurrently. Paths come back in
// the order of formats; every failure is reported. On partial failure the
// paths of the files that were written are returned with the error, and
// failed formats have an empty path.
func PerformExports(ctx context.Context, t *dataset.Table, meta Meta, exportPath string, formats []string) ([]string, error) {
	type exportResult struct {
		index int
		path  string
		err   error
	}

	for _, format := range formats {
		if _, err := Extension(format); err != nil {
			return nil, err
		}
	}

	results := make(chan exportResult, len(formats))
	var wg sync.WaitGroup

	for i, format := range formats {
		wg.Add(1)
		go func(i int, format string) {
			defer wg.Done()
			path, err := PerformExport(ctx, t, meta, exportPath, format)
			if err != nil {
				err = fmt.Errorf("export %s failed: %w", format, err)
			}
			results <- exportResult{i, path, err}
		}(i, format)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	paths := make([]string, len(formats))
	var errs []error
	for result := range results {
		if result.err != nil {
			errs = append(errs, result.err)
			continue
		}
		paths[result.index] = result.path
	}
	return paths, errors.Join(errs...)
}

// Write encodes the table to w. SQLite needs a file and is not supported here.
func Write(w io.Writer, t *dataset.Table, meta Meta, format string) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatJSON:
		return WriteJSON(w, t, meta)
	case FormatYAML:
		return WriteYAML(w, t, meta)
	case FormatParquet:
		return WriteParquet(w, t)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func WriteCSV(w io.Writer, t *dataset.Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(dataset.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range t.Records {
		if err := writer.Write(r.Strings()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteJSON(w io.Writer, t *dataset.Table, meta Meta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewExportData(t, meta)); err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	return nil
}

func WriteYAML(w io.Writer, t *dataset.Table, meta Meta) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewExportData(t, meta)); err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}
	return enc.Close()
}

func exportToSQLite(ctx context.Context, t *dataset.Table, filePath string) error {
	adapter := database.NewSQLiteAdapter()
	if err := adapter.Connect(ctx, "sqlite://"+filePath); err != nil {
		return fmt.Errorf("failed to create SQLite database: %w", err)
	}
	defer adapter.Close()

	columns := t.Columns()
	if err := adapter.EnsureTable(ctx, TableName, columns); err != nil {
		return err
	}

	tx, err := adapter.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	batch := adapter.MaxBatchRows(len(columns))
	for start := 0; start < t.Len(); start += batch {
		if err := adapter.InsertRows(ctx, tx, TableName, columns, t.Page(start, batch)); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit SQLite export: %w", err)
	}
	return nil
}
