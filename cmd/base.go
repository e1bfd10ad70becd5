package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/retailsim/internal/config"
	"github.com/Rana718/retailsim/internal/dataset"
	"github.com/Rana718/retailsim/internal/export"
)

// addGenerationFlags registers the flags that override generation settings.
func addGenerationFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("rows", "n", 0, "Number of order lines (default from config, 6000)")
	cmd.Flags().Uint64("seed", 0, "Random seed; 0 draws a random seed and output is not reproducible")
	cmd.Flags().String("anchor", "", "Anchor date YYYY-MM-DD that relative windows resolve against (default today)")
	cmd.Flags().Int("customers", 0, "Override the customer count")
}

// loadConfig loads and validates the config with command line overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Lookup("rows") != nil && flags.Changed("rows") {
		cfg.Rows, _ = flags.GetInt("rows")
	}
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Lookup("anchor") != nil && flags.Changed("anchor") {
		cfg.AnchorDate, _ = flags.GetString("anchor")
	}
	if flags.Lookup("customers") != nil && flags.Changed("customers") {
		cfg.Reference.Customers, _ = flags.GetInt("customers")
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		cfg.ExportPath, _ = flags.GetString("out")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func generationOptions(cfg *config.Config) (dataset.Options, error) {
	anchor, err := cfg.Anchor()
	if err != nil {
		return dataset.Options{}, err
	}
	return dataset.Options{
		Rows:   cfg.Rows,
		Seed:   cfg.Seed,
		Anchor: anchor,
		Sizes:  cfg.Sizes(),
	}, nil
}

// generate runs the generator with colour progress output.
func generate(ctx context.Context, cfg *config.Config) (*dataset.Result, export.Meta, error) {
	opts, err := generationOptions(cfg)
	if err != nil {
		return nil, export.Meta{}, err
	}
	opts.Progress = func(done, total int) {
		color.White("  📝 %d/%d rows", done, total)
	}

	color.Cyan("🎲 Generating %d order lines (seed %d, anchor %s)...", opts.Rows, opts.Seed, opts.Anchor.Format("2006-01-02"))
	if opts.Seed == 0 {
		color.Yellow("⚠️  Seed 0 selects a random seed; this run cannot be reproduced")
	}

	res, err := dataset.Generate(ctx, opts)
	if err != nil {
		return nil, export.Meta{}, err
	}
	color.Green("✅ Generated %d rows across %d orders (%d customers ordered)", res.Table.Len(), res.Orders, res.ActiveCustomers)

	return res, export.NewMeta(cfg.Version, opts.Seed, opts.Anchor), nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
