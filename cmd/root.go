package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "1.0.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔══════════════════════════════════════════════════════╗",
		"║   ██████╗ ███████╗████████╗ █████╗ ██╗██╗            ║",
		"║   ██╔══██╗██╔════╝╚══██╔══╝██╔══██╗██║██║            ║",
		"║   ██████╔╝█████╗     ██║   ███████║██║██║            ║",
		"║   ██╔══██╗██╔══╝     ██║   ██╔══██║██║██║            ║",
		"║   ██║  ██║███████╗   ██║   ██║  ██║██║███████╗ sim   ║",
		"║   ╚═╝  ╚═╝╚══════╝   ╚═╝   ╚═╝  ╚═╝╚═╝╚══════╝       ║",
		"║                                                      ║",
		"║      🛒 Synthetic retail order line generator 🛒      ║",
		"╚══════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                    ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "retailsim",
	Short: "Generate synthetic retail order line datasets",
	Long: `
retailsim builds a flat table of retail order lines (customers, promotions,
shipping, returns, manufacturing, suppliers and warehouses) from a seeded
random generator.

Outputs:
- CSV, JSON, YAML, Parquet or SQLite files
- PostgreSQL, MySQL or SQLite tables (seed)
- S3 objects (upload)
- A local HTTP API for inspection (studio)`,

	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("retailsim version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./retailsim.config.json)")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("retailsim.config")
	}

	viper.SetEnvPrefix("RETAILSIM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			color.Yellow("⚠️  Could not read config %s: %v", viper.ConfigFileUsed(), err)
		}
	}
}
