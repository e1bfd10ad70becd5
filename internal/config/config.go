package config

import (
	"fmt"
	"os"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/Rana718/retailsim/internal/export"
	"github.com/Rana718/retailsim/internal/reference"
	"github.com/Rana718/retailsim/internal/types"
)

const FileName = "retailsim.config.json"

type Config struct {
	Version    string    `json:"version" mapstructure:"version"`
	Rows       int       `json:"rows" mapstructure:"rows"`
	Seed       uint64    `json:"seed" mapstructure:"seed"`
	AnchorDate string    `json:"anchor_date,omitempty" mapstructure:"anchor_date"` // empty means today
	ExportPath string    `json:"export_path" mapstructure:"export_path"`
	Format     string    `json:"format" mapstructure:"format"`
	Reference  Reference `json:"reference" mapstructure:"reference"`
	Database   Database  `json:"database" mapstructure:"database"`
	Storage    Storage   `json:"storage" mapstructure:"storage"`
	Studio     Studio    `json:"studio" mapstructure:"studio"`
}

type Reference struct {
	Warehouses      int `json:"warehouses" mapstructure:"warehouses"`
	Suppliers       int `json:"suppliers" mapstructure:"suppliers"`
	SKUsPerCategory int `json:"skus_per_category" mapstructure:"skus_per_category"`
	Customers       int `json:"customers" mapstructure:"customers"`
}

type Database struct {
	Provider  string `json:"provider" mapstructure:"provider"`
	URLEnv    string `json:"url_env" mapstructure:"url_env"`
	Table     string `json:"table" mapstructure:"table"`
	BatchSize int    `json:"batch_size" mapstructure:"batch_size"`
}

type Storage struct {
	BucketEnv string `json:"bucket_env" mapstructure:"bucket_env"`
	Prefix    string `json:"prefix" mapstructure:"prefix"`
	Region    string `json:"region" mapstructure:"region"`
}

type Studio struct {
	Port int `json:"port" mapstructure:"port"`
}

var supportedProviders = []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Set defaults
	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if !viper.IsSet("rows") {
		cfg.Rows = 6000
	}
	// seed 0 is meaningful (random), so only fill it when absent
	if !viper.IsSet("seed") {
		cfg.Seed = 42
	}
	if cfg.ExportPath == "" {
		cfg.ExportPath = "data/export"
	}
	if cfg.Format == "" {
		cfg.Format = export.FormatCSV
	}

	defaults := reference.DefaultSizes()
	if cfg.Reference.Warehouses == 0 {
		cfg.Reference.Warehouses = defaults.Warehouses
	}
	if cfg.Reference.Suppliers == 0 {
		cfg.Reference.Suppliers = defaults.Suppliers
	}
	if cfg.Reference.SKUsPerCategory == 0 {
		cfg.Reference.SKUsPerCategory = defaults.SKUsPerCategory
	}
	if cfg.Reference.Customers == 0 {
		cfg.Reference.Customers = defaults.Customers
	}

	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "sqlite"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	if cfg.Database.Table == "" {
		cfg.Database.Table = "order_lines"
	}
	if cfg.Database.BatchSize == 0 {
		cfg.Database.BatchSize = 500
	}

	if cfg.Storage.BucketEnv == "" {
		cfg.Storage.BucketEnv = "RETAILSIM_S3_BUCKET"
	}
	if cfg.Storage.Prefix == "" {
		cfg.Storage.Prefix = "datasets/"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "eu-central-1"
	}

	if cfg.Studio.Port == 0 {
		cfg.Studio.Port = 5555
	}

	return &cfg, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

// Bucket returns the S3 bucket named by storage.bucket_env, or "".
func (c *Config) Bucket() string {
	return os.Getenv(c.Storage.BucketEnv)
}

// Anchor resolves anchor_date, defaulting to the current UTC day.
func (c *Config) Anchor() (time.Time, error) {
	if c.AnchorDate == "" {
		return types.Day(time.Now()), nil
	}
	t, err := time.Parse(types.DateLayout, c.AnchorDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid anchor_date %q (want YYYY-MM-DD): %w", c.AnchorDate, err)
	}
	return t, nil
}

func (c *Config) Sizes() reference.Sizes {
	return reference.Sizes{
		Warehouses:      c.Reference.Warehouses,
		Suppliers:       c.Reference.Suppliers,
		SKUsPerCategory: c.Reference.SKUsPerCategory,
		Customers:       c.Reference.Customers,
	}
}

func (c *Config) Validate() error {
	if !lo.Contains(supportedProviders, c.Database.Provider) {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if !lo.Contains(export.Formats, c.Format) {
		return fmt.Errorf("unsupported format: %s. Supported formats: %v", c.Format, export.Formats)
	}

	if c.Rows < 0 {
		return fmt.Errorf("rows cannot be negative, got %d", c.Rows)
	}

	if c.ExportPath == "" {
		return fmt.Errorf("export_path cannot be empty")
	}

	if c.Database.BatchSize < 1 {
		return fmt.Errorf("database.batch_size must be positive, got %d", c.Database.BatchSize)
	}

	if c.Studio.Port < 1 || c.Studio.Port > 65535 {
		return fmt.Errorf("studio.port out of range: %d", c.Studio.Port)
	}

	if _, err := c.Anchor(); err != nil {
		return err
	}

	return c.Sizes().Validate()
}

func IsInitialized() bool {
	_, err := os.Stat(FileName)
	return err == nil
}
