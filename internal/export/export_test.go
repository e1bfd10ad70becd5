package export

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Rana718/retailsim/internal/dataset"
	"github.com/Rana718/retailsim/internal/reference"
	"github.com/Rana718/retailsim/internal/validate"
)

var anchor = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func testTable(t *testing.T, rows int) *dataset.Table {
	t.Helper()
	res, err := dataset.Generate(context.Background(), dataset.Options{
		Rows:   rows,
		Seed:   42,
		Anchor: anchor,
		Sizes:  reference.Sizes{Warehouses: 3, Suppliers: 4, SKUsPerCategory: 5, Customers: 50},
	})
	require.NoError(t, err)
	return res.Table
}

func testMeta() Meta {
	return Meta{RunID: "run-1", Version: "1", Seed: 42, Anchor: anchor}
}

func TestNewMetaAssignsRunID(t *testing.T) {
	a := NewMeta("1", 42, anchor)
	b := NewMeta("1", 42, anchor)
	assert.NotEmpty(t, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := PerformExport(context.Background(), testTable(t, 1), testMeta(), t.TempDir(), "xlsx")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	err = Write(&bytes.Buffer{}, testTable(t, 1), testMeta(), FormatSQLite)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCSVExport(t *testing.T) {
	tbl := testTable(t, 120)
	path, err := PerformExport(context.Background(), tbl, testMeta(), filepath.Join(t.TempDir(), "nested"), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, ".csv", filepath.Ext(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	report, err := validate.CheckCSV(f)
	require.NoError(t, err)
	assert.Equal(t, 120, report.Rows)
	assert.True(t, report.OK(), "%v", report.Violations)
}

func TestCSVIsDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, WriteCSV(&a, testTable(t, 80)))
	require.NoError(t, WriteCSV(&b, testTable(t, 80)))
	assert.Equal(t, a.String(), b.String())
}

func TestJSONExport(t *testing.T) {
	tbl := testTable(t, 10)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, tbl, testMeta()))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, uint64(42), got.Seed)
	assert.Equal(t, "2025-06-15", got.AnchorDate)
	assert.Equal(t, 10, got.Rows)
	assert.Equal(t, dataset.ColumnNames(), got.Columns)
	require.Len(t, got.Records, 10)
	assert.Equal(t, tbl.Lines[0].OrderLineID, got.Records[0]["OrderLineID"])
	assert.Contains(t, got.Records[0], "TrackingID")
}

func TestYAMLExport(t *testing.T) {
	tbl := testTable(t, 5)
	var buf bytes.Buffer
	require.NoError(t, WriteYAML(&buf, tbl, testMeta()))

	var got ExportData
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 5, got.Rows)
	require.Len(t, got.Records, 5)
	assert.Equal(t, tbl.Lines[4].OrderID, got.Records[4]["OrderID"])
}

func TestParquetExport(t *testing.T) {
	tbl := testTable(t, 300)
	path, err := PerformExport(context.Background(), tbl, testMeta(), t.TempDir(), FormatParquet)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	mem := memory.NewGoAllocator()
	read, err := pqarrow.ReadTable(context.Background(), f, parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	require.NoError(t, err)
	defer read.Release()

	assert.Equal(t, int64(300), read.NumRows())
	assert.Equal(t, int64(len(dataset.Columns)), read.NumCols())
	assert.Equal(t, "OrderID", read.Schema().Field(0).Name)
}

func TestSQLiteExport(t *testing.T) {
	tbl := testTable(t, 700)
	path, err := PerformExport(context.Background(), tbl, testMeta(), t.TempDir(), FormatSQLite)
	require.NoError(t, err)
	assert.Equal(t, ".db", filepath.Ext(path))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "order_lines"`).Scan(&n))
	assert.Equal(t, 700, n)

	var cancelledWithCarrier int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "order_lines" WHERE "OrderStatus" = 'Cancelled' AND "CarrierName" IS NOT NULL`).Scan(&cancelledWithCarrier))
	assert.Zero(t, cancelledWithCarrier)
}

func TestPerformExports(t *testing.T) {
	tbl := testTable(t, 40)
	dir := t.TempDir()

	paths, err := PerformExports(context.Background(), tbl, testMeta(), dir, []string{FormatYAML, FormatCSV, FormatSQLite})
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, ".yaml", filepath.Ext(paths[0]))
	assert.Equal(t, ".csv", filepath.Ext(paths[1]))
	assert.Equal(t, ".db", filepath.Ext(paths[2]))
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	_, err = PerformExports(context.Background(), tbl, testMeta(), dir, []string{FormatCSV, "xml"})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestWriteParquetLeavesFileOpen(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "lines.parquet"))
	require.NoError(t, err)

	require.NoError(t, WriteParquet(f, testTable(t, 20)))
	_, err = f.Write(nil)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestPerformExportsAllFormats(t *testing.T) {
	paths, err := PerformExports(context.Background(), testTable(t, 25), testMeta(), t.TempDir(), Formats)
	require.NoError(t, err)
	require.Len(t, paths, len(Formats))
	for i, p := range paths {
		ext, err := Extension(Formats[i])
		require.NoError(t, err)
		assert.Equal(t, "."+ext, filepath.Ext(p))
		assert.FileExists(t, p)
	}
}

func TestFileNameCarriesRunID(t *testing.T) {
	meta := testMeta()
	meta.RunID = "0f8fad5b-d9cb-469f-a165-70867728950e"
	name := FileName(meta, "csv")
	assert.True(t, strings.HasPrefix(name, "order_lines_"), name)
	assert.True(t, strings.HasSuffix(name, "_0f8fad5b.csv"), name)

	assert.NotContains(t, FileName(Meta{}, "csv"), "__")
}

func TestSameSecondRunsDoNotShareFiles(t *testing.T) {
	tbl := testTable(t, 30)
	dir := t.TempDir()

	first, second := testMeta(), testMeta()
	first.RunID = "aaaaaaaa-0000-0000-0000-000000000000"
	second.RunID = "bbbbbbbb-0000-0000-0000-000000000000"

	a, err := PerformExport(context.Background(), tbl, first, dir, FormatSQLite)
	require.NoError(t, err)
	b, err := PerformExport(context.Background(), tbl, second, dir, FormatSQLite)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	for _, path := range []string{a, b} {
		db, err := sql.Open("sqlite3", path)
		require.NoError(t, err)
		var n int
		require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "order_lines"`).Scan(&n))
		db.Close()
		assert.Equal(t, 30, n)
	}
}

func TestPerformExportsPartialFailureKeepsWrittenPaths(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dir := t.TempDir()

	paths, err := PerformExports(ctx, testTable(t, 10), testMeta(), dir, []string{FormatCSV, FormatSQLite})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "export sqlite failed")
	require.Len(t, paths, 2)
	assert.FileExists(t, paths[0])
	assert.Empty(t, paths[1])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
