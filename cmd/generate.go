package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Rana718/retailsim/internal/config"
	"github.com/Rana718/retailsim/internal/dataset"
	"github.com/Rana718/retailsim/internal/export"
	"github.com/Rana718/retailsim/internal/storage"
	"github.com/Rana718/retailsim/internal/types"
	"github.com/Rana718/retailsim/internal/validate"
)

// previewColumns are the columns printed by --head.
var previewColumns = []string{
	"OrderLineID", "CustomerID", "SKU", "Price", "PromoID", "FinalPrice",
	"UnitsSold", "RevenueGenerated", "OrderStatus", "CarrierName", "ReturnedUnits",
}

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Generate the order line dataset and export it",
	Long: `
Generate a synthetic order line table and write it to the export path.
Supported formats: csv (default), json, yaml, parquet, sqlite.
Several formats can be given as a comma separated list.

Examples:
  retailsim generate
  retailsim generate --rows 1000 --seed 7 --anchor 2025-06-15
  retailsim generate --format csv,parquet --validate
  retailsim generate --head 10 --no-export
  retailsim generate --upload`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		formats, _ := cmd.Flags().GetString("format")
		formatList := parseFormats(formats, cfg.Format)
		for _, f := range formatList {
			if !lo.Contains(export.Formats, f) {
				return fmt.Errorf("%w: %q", export.ErrUnsupportedFormat, f)
			}
		}

		ctx, cancel := signalContext()
		defer cancel()

		res, meta, err := generate(ctx, cfg)
		if err != nil {
			return err
		}

		if head, _ := cmd.Flags().GetInt("head"); head > 0 {
			printHead(res.Table, head)
		}

		if check, _ := cmd.Flags().GetBool("validate"); check {
			if err := reportValidation(validate.Check(res.Table)); err != nil {
				return err
			}
		}

		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			printSummary(dataset.Summarize(res.Table, res.Catalog))
		}

		if noExport, _ := cmd.Flags().GetBool("no-export"); noExport {
			return nil
		}

		color.Cyan("📦 Exporting %s...", strings.Join(formatList, ", "))
		files, err := export.PerformExports(ctx, res.Table, meta, cfg.ExportPath, formatList)
		for _, path := range files {
			if path != "" {
				color.Green("✅ Exported to %s", path)
			}
		}
		if err != nil {
			return err
		}

		if upload, _ := cmd.Flags().GetBool("upload"); upload {
			uploader, err := newUploader(cmd, cfg)
			if err != nil {
				return err
			}
			return uploadFiles(ctx, uploader, meta.RunID, files, dataset.Summarize(res.Table, res.Catalog))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerationFlags(generateCmd)
	generateCmd.Flags().StringP("format", "f", "", "Export format(s): csv, json, yaml, parquet, sqlite")
	generateCmd.Flags().StringP("out", "o", "", "Export directory (default from config, data/export)")
	generateCmd.Flags().Int("head", 0, "Print the first N rows")
	generateCmd.Flags().Bool("validate", false, "Check the dataset invariants before exporting")
	generateCmd.Flags().Bool("summary", false, "Print dataset statistics")
	generateCmd.Flags().Bool("no-export", false, "Skip writing files")
	generateCmd.Flags().Bool("upload", false, "Upload the exported files to S3")
	generateCmd.Flags().String("bucket", "", "S3 bucket (overrides storage.bucket_env)")
}

func parseFormats(flag, fallback string) []string {
	if flag == "" {
		return []string{fallback}
	}
	parts := lo.Map(strings.Split(flag, ","), func(s string, _ int) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
	return lo.Uniq(lo.Compact(parts))
}

func printHead(t *dataset.Table, n int) {
	idx := lo.Map(previewColumns, func(name string, _ int) int { return dataset.ColumnIndex(name) })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(previewColumns, "\t"))
	for _, rec := range t.Head(n) {
		cells := rec.Strings()
		fmt.Fprintln(w, strings.Join(lo.Map(idx, func(i int, _ int) string { return cells[i] }), "\t"))
	}
	w.Flush()
	fmt.Println()
}

func printSummary(s dataset.Summary) {
	color.Cyan("📊 Dataset summary")
	fmt.Printf("   Rows:               %d\n", s.Rows)
	fmt.Printf("   Orders:             %d (%d with several lines)\n", s.Orders, s.MultiLineOrders)
	fmt.Printf("   Customers:          %d active, %d dormant\n", s.ActiveCustomers, s.DormantCustomers)
	for _, status := range types.OrderStatuses {
		fmt.Printf("   %-19s %d\n", string(status)+":", s.StatusCounts[string(status)])
	}
	fmt.Printf("   Promotions applied: %d (%.1f%%)\n", s.PromoApplied, s.PromoRate*100)
	fmt.Printf("   Revenue:            %s\n", s.Revenue)
	fmt.Printf("   Refunds:            %s (%d units)\n", s.Refunds, s.ReturnedUnits)
	fmt.Printf("   Shipping cost:      %s\n", s.ShippingCost)
	fmt.Printf("   Lead times (days):  manufacturing %.1f, shipping %.1f, fulfilment %.1f\n",
		s.AvgManufacturingLeadDays, s.AvgShippingLeadDays, s.AvgFulfillmentLeadDays)
	fmt.Println()
}

func reportValidation(report validate.Report) error {
	if report.OK() {
		color.Green("✅ All %d rows satisfy the dataset invariants", report.Rows)
		return nil
	}
	color.Red("❌ %d violations in %d rows", len(report.Violations), report.Rows)
	for rule, n := range report.ByRule() {
		color.Yellow("   %s: %d", rule, n)
	}
	for _, v := range lo.Slice(report.Violations, 0, 10) {
		color.White("   %s", v)
	}
	return fmt.Errorf("dataset failed validation")
}

// newUploader builds the S3 uploader from storage config.
func newUploader(cmd *cobra.Command, cfg *config.Config) (*storage.S3Uploader, error) {
	bucket := cfg.Bucket()
	if flag, _ := cmd.Flags().GetString("bucket"); flag != "" {
		bucket = flag
	}
	return storage.NewS3Uploader(cmd.Context(), bucket, cfg.Storage.Region, cfg.Storage.Prefix)
}
