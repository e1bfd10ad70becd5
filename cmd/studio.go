package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Rana718/retailsim/internal/studio"
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Serve the generated dataset over a local HTTP API",
	Long: `
Generate a dataset in memory and serve it for inspection.

Endpoints:
  GET  /api/columns          column names, types and nullability
  GET  /api/rows             paged rows (?offset=&limit=&status=)
  GET  /api/rows/:index      one row
  GET  /api/summary          dataset statistics
  GET  /api/validate         invariant report
  GET  /api/export/:format   download as csv, json, yaml, parquet or sqlite
  POST /api/regenerate       rebuild with {"rows": N, "seed": S}

Examples:
  retailsim studio
  retailsim studio --port 3000 --rows 20000`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		opts, err := generationOptions(cfg)
		if err != nil {
			return err
		}

		port := cfg.Studio.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}
		browser, _ := cmd.Flags().GetBool("browser")

		server := studio.NewServer(studio.NewService(res, opts, cfg.Version), port)
		go func() {
			<-ctx.Done()
			server.Shutdown()
		}()
		return server.Start(browser)
	},
}

func init() {
	rootCmd.AddCommand(studioCmd)
	addGenerationFlags(studioCmd)
	studioCmd.Flags().IntP("port", "p", 5555, "Port to run studio on (default from config)")
	studioCmd.Flags().BoolP("browser", "b", false, "Open browser automatically")
}
