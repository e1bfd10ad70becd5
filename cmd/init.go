package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Rana718/retailsim/internal/config"
	"github.com/Rana718/retailsim/template"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a retailsim project",
	Long:  `Write retailsim.config.json with default settings and a .env template for the chosen database.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.SQLite
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		force, _ := cmd.Flags().GetBool("force")
		return initializeProject(dbType, force)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize project for SQLite database")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize project for PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize project for MySQL database")
	initCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

func initializeProject(dbType template.DatabaseType, force bool) error {
	if config.IsInitialized() && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
	}

	tmpl := template.NewProjectTemplate(dbType)

	directories := tmpl.GetDirectoryStructure()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	body, err := tmpl.GetConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(config.FileName, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to create file %s: %w", config.FileName, err)
	}

	if err := handleEnvFile(tmpl.GetEnvTemplate()); err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}

	color.Green("✅ Successfully initialized retailsim project with %s database support", dbType)
	fmt.Println()
	fmt.Println("📁 Project structure created:")
	for _, dir := range directories {
		fmt.Printf("   %s/\n", dir)
	}
	fmt.Println()
	fmt.Println("📝 Configuration file created:")
	fmt.Printf("   %s\n", config.FileName)
	fmt.Println()
	color.Cyan("💡 Next: retailsim generate --head 5")
	return nil
}

// handleEnvFile adds the template variables that .env does not define yet.
func handleEnvFile(envTemplate string) error {
	existing, err := os.ReadFile(".env")
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	content := string(existing)

	var missing []string
	for _, line := range strings.Split(strings.TrimSpace(envTemplate), "\n") {
		key, _, ok := strings.Cut(strings.TrimPrefix(line, "# "), "=")
		if !ok || strings.Contains(content, key+"=") {
			continue
		}
		missing = append(missing, line)
	}
	if len(missing) == 0 {
		return nil
	}

	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	content += strings.Join(missing, "\n") + "\n"
	return os.WriteFile(".env", []byte(content), 0644)
}
