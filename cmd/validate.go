package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/retailsim/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a dataset against the order line invariants",
	Long: `
Check that cancelled lines carry no shipment, that return fields are present
exactly when units were returned, that applied promotions are eligible and
that revenue matches units sold times final price.

Without --file a fresh table is generated from the config and checked.

Examples:
  retailsim validate
  retailsim validate --file data/export/order_lines_2025-06-15_10-00-00_1a2b3c4d.csv
  retailsim validate --rows 50000 --seed 9`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if file, _ := cmd.Flags().GetString("file"); file != "" {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", file, err)
			}
			defer f.Close()

			color.Cyan("🔍 Validating %s...", file)
			report, err := validate.CheckCSV(f)
			if err != nil {
				return err
			}
			return reportValidation(report)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		res, _, err := generate(ctx, cfg)
		if err != nil {
			return err
		}
		return reportValidation(validate.Check(res.Table))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	addGenerationFlags(validateCmd)
	validateCmd.Flags().String("file", "", "CSV export to check")
}
