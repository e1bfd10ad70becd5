package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Rana718/retailsim/internal/storage"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload exported files to S3",
	Long: `
Upload export files to the bucket named by storage.bucket_env (or --bucket)
under <prefix><run-id>/. AWS credentials come from the default chain.

Examples:
  retailsim upload data/export/order_lines_2025-06-15_10-00-00_1a2b3c4d.parquet
  retailsim upload --bucket my-datasets --run-id nightly data/export/*.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		uploader, err := newUploader(cmd, cfg)
		if err != nil {
			return err
		}

		runID, _ := cmd.Flags().GetString("run-id")
		if runID == "" {
			runID = uuid.NewString()
		}
		return uploadFiles(cmd.Context(), uploader, runID, args, nil)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	uploadCmd.Flags().String("bucket", "", "S3 bucket (overrides storage.bucket_env)")
	uploadCmd.Flags().String("run-id", "", "Key segment under the prefix (default: new UUID)")
}

// uploadFiles pushes files and, when given, a summary.json manifest.
func uploadFiles(ctx context.Context, uploader *storage.S3Uploader, runID string, files []string, summary any) error {
	if !uploader.Enabled() {
		return fmt.Errorf("%w: set the bucket environment variable or pass --bucket", storage.ErrNotConfigured)
	}

	color.Cyan("☁️  Uploading %d file(s) to s3://%s ...", len(files), uploader.Bucket)
	for _, file := range files {
		uri, err := uploader.UploadFile(ctx, runID, file)
		if err != nil {
			return err
		}
		color.Green("✅ %s", uri)
	}

	if summary != nil {
		uri, err := uploader.UploadJSON(ctx, runID, "summary.json", summary)
		if err != nil {
			return err
		}
		color.Green("✅ %s", uri)
	}
	return nil
}
