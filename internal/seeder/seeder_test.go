package seeder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rana718/retailsim/internal/config"
	"github.com/Rana718/retailsim/internal/database"
	"github.com/Rana718/retailsim/internal/dataset"
	"github.com/Rana718/retailsim/internal/reference"
)

func testTable(t *testing.T, rows int) *dataset.Table {
	t.Helper()
	res, err := dataset.Generate(context.Background(), dataset.Options{
		Rows:   rows,
		Seed:   42,
		Anchor: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Sizes:  reference.Sizes{Warehouses: 3, Suppliers: 4, SKUsPerCategory: 5, Customers: 50},
	})
	require.NoError(t, err)
	return res.Table
}

func newTestSeeder(t *testing.T) (*Seeder, *database.Adapter) {
	t.Helper()
	t.Setenv("RETAILSIM_TEST_DB", "sqlite://"+filepath.Join(t.TempDir(), "seed.db"))

	cfg := &config.Config{Database: config.Database{
		Provider:  "sqlite",
		URLEnv:    "RETAILSIM_TEST_DB",
		Table:     "order_lines",
		BatchSize: 40,
	}}
	s, err := NewSeeder(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s, s.adapter.(*database.Adapter)
}

func count(t *testing.T, a *database.Adapter, table string) int {
	t.Helper()
	n, err := a.CountRows(context.Background(), table)
	require.NoError(t, err)
	return n
}

func TestSeed(t *testing.T) {
	s, a := newTestSeeder(t)
	tbl := testTable(t, 150)

	require.NoError(t, s.Seed(context.Background(), tbl, SeedConfig{}))
	assert.Equal(t, 150, count(t, a, "order_lines"))

	require.NoError(t, s.Seed(context.Background(), tbl, SeedConfig{}))
	assert.Equal(t, 300, count(t, a, "order_lines"), "seeding appends")

	require.NoError(t, s.Seed(context.Background(), tbl, SeedConfig{Truncate: true, NoTransaction: true}))
	assert.Equal(t, 150, count(t, a, "order_lines"))
}

func TestSeedCustomTable(t *testing.T) {
	s, a := newTestSeeder(t)
	require.NoError(t, s.Seed(context.Background(), testTable(t, 10), SeedConfig{Table: "lines_copy", Batch: 3}))
	assert.Equal(t, 10, count(t, a, "lines_copy"))
}

func TestSeedRollsBackOnCancel(t *testing.T) {
	s, a := newTestSeeder(t)
	tbl := testTable(t, 20)
	require.NoError(t, a.EnsureTable(context.Background(), "order_lines", tbl.Columns()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.Seed(ctx, tbl, SeedConfig{}))
	assert.Zero(t, count(t, a, "order_lines"))
}

func TestSeedRejectsBadTable(t *testing.T) {
	s, _ := newTestSeeder(t)
	require.Error(t, s.Seed(context.Background(), testTable(t, 5), SeedConfig{Table: "bad name"}))
}

func TestBatchSizeIsCapped(t *testing.T) {
	s, _ := newTestSeeder(t)
	assert.Equal(t, 40, s.batchSize(0, 64))
	assert.Equal(t, 7, s.batchSize(7, 64))
	assert.Equal(t, 511, s.batchSize(10000, 64))
}

func TestNewSeederErrors(t *testing.T) {
	_, err := NewSeeder(context.Background(), &config.Config{Database: config.Database{Provider: "oracle"}})
	require.ErrorIs(t, err, database.ErrUnsupportedProvider)

	_, err = NewSeeder(context.Background(), &config.Config{Database: config.Database{Provider: "sqlite", URLEnv: "RETAILSIM_UNSET_DB"}})
	require.Error(t, err)
}
