package seeder

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fatih/color"

	"github.com/Rana718/retailsim/internal/config"
	"github.com/Rana718/retailsim/internal/database"
	"github.com/Rana718/retailsim/internal/dataset"
)

type SeedConfig struct {
	Table         string // Target table, defaults to database.table
	Truncate      bool   // Clear the table before seeding
	Batch         int    // Rows per INSERT
	Force         bool   // Continue when truncate fails
	NoTransaction bool   // Disable transaction wrapping
}

type Seeder struct {
	config  *config.Config
	adapter database.DatabaseAdapter
}

func NewSeeder(ctx context.Context, cfg *config.Config) (*Seeder, error) {
	adapter, err := database.NewAdapter(cfg.Database.Provider)
	if err != nil {
		return nil, err
	}

	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, fmt.Errorf("failed to get database URL: %w", err)
	}

	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := adapter.Ping(ctx); err != nil {
		adapter.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	return NewWithAdapter(cfg, adapter), nil
}

// NewWithAdapter wraps an already connected adapter.
func NewWithAdapter(cfg *config.Config, adapter database.DatabaseAdapter) *Seeder {
	return &Seeder{config: cfg, adapter: adapter}
}

func (s *Seeder) Close() error {
	return s.adapter.Close()
}

// Seed creates the target table if needed and loads every row of t.
// Inside a transaction a failed batch leaves the table untouched.
func (s *Seeder) Seed(ctx context.Context, t *dataset.Table, seedConfig SeedConfig) error {
	tableName := seedConfig.Table
	if tableName == "" {
		tableName = s.config.Database.Table
	}
	columns := t.Columns()

	color.Cyan("🌱 Seeding %d rows into %s (%s)...", t.Len(), tableName, s.adapter.Provider())

	if err := s.adapter.EnsureTable(ctx, tableName, columns); err != nil {
		return err
	}

	// Truncate if requested (outside transaction)
	if seedConfig.Truncate {
		color.Yellow("🗑️  Truncating %s...", tableName)
		if err := s.adapter.TruncateTable(ctx, tableName); err != nil {
			if !seedConfig.Force {
				return fmt.Errorf("failed to truncate table: %w (use --force to continue)", err)
			}
			color.Yellow("⚠️  Truncate failed but continuing with --force: %v", err)
		}
	}

	batchSize := s.batchSize(seedConfig.Batch, len(columns))

	var tx *sql.Tx
	if !seedConfig.NoTransaction {
		var err error
		tx, err = s.adapter.Begin(ctx)
		if err != nil {
			color.Yellow("⚠️  Could not start transaction: %v (continuing without transaction)", err)
			tx = nil
		} else {
			color.Cyan("🔒 Transaction started")
		}
	}

	seedErr := s.insertAll(ctx, tx, tableName, t, batchSize)

	if tx != nil {
		if seedErr != nil {
			color.Yellow("🔄 Rolling back transaction due to error...")
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("seed failed and rollback failed: %v (original: %w)", rbErr, seedErr)
			}
			color.Yellow("✅ Transaction rolled back")
			return seedErr
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		color.Cyan("🔓 Transaction committed")
	} else if seedErr != nil {
		return seedErr
	}

	color.Green("✅ Database seeding completed successfully!")
	return nil
}

func (s *Seeder) insertAll(ctx context.Context, tx *sql.Tx, tableName string, t *dataset.Table, batchSize int) error {
	columns := t.Columns()
	for start := 0; start < t.Len(); start += batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		batch := t.Page(start, batchSize)
		if err := s.adapter.InsertRows(ctx, tx, tableName, columns, batch); err != nil {
			return fmt.Errorf("failed to insert batch at row %d: %w", start, err)
		}
		color.White("  📝 %d/%d rows", start+len(batch), t.Len())
	}
	return nil
}

// batchSize picks the requested size, falling back to the configured one
// and capping at what the provider accepts in one statement.
func (s *Seeder) batchSize(requested, columns int) int {
	size := requested
	if size <= 0 {
		size = s.config.Database.BatchSize
	}
	if size <= 0 {
		size = 100
	}
	if limit := s.adapter.MaxBatchRows(columns); size > limit {
		color.Yellow("⚠️  Batch size %d exceeds the %s limit, using %d", size, s.adapter.Provider(), limit)
		size = limit
	}
	return size
}
