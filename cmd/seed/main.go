package main

import (
	"fmt"
	"os"

	"github.com/ikkim/shopadmin-backend/config"
	"github.com/ikkim/shopadmin-backend/internal/db"
	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	skipMigrate bool
	assumeYes   bool
	batchSize   int
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the shop admin database",
	Long: `Seed bootstraps the shop admin database.

Subcommands:
  admin     - create the super admin from ADMIN_* settings
  products  - import products from an XLSX sheet`,
	SilenceUsage: true,
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Create the super admin account",
	Long: `Create the super admin from ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD.
Nothing happens when a super admin already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(func(cfg *config.Config, database *gorm.DB) error {
			if cfg.Admin.Password == "" {
				return fmt.Errorf("ADMIN_PASSWORD must be set")
			}
			created, err := db.EnsureSuperAdmin(database, cfg.Admin)
			if err != nil {
				return err
			}
			if created {
				fmt.Printf("Super admin %q created\n", cfg.Admin.Username)
			} else {
				fmt.Println("Super admin already exists, nothing to do")
			}
			return nil
		})
	},
}

var productsCmd = &cobra.Command{
	Use:   "products <file.xlsx>",
	Short: "Import products from an XLSX sheet",
	Long: `Import products from the first sheet of an XLSX file.

The first row is a header. Columns, in order:
  name, description, price, stock, product type, image urls

Image urls are separated by commas or newlines. Product types that do
not exist yet are created.

Examples:
  seed products catalogue.xlsx
  seed products catalogue.xlsx --yes --batch-size 200`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, skipped, err := readProductRows(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Rows to import: %d (skipped %d)\n", len(rows), len(skipped))
		for _, s := range skipped {
			fmt.Printf("  row %d: %s\n", s.Line, s.Reason)
		}
		if len(rows) == 0 {
			fmt.Println("Nothing to import.")
			return nil
		}

		if !assumeYes {
			fmt.Print("Do you want to proceed with the import? (yes/no): ")
			var confirm string
			_, _ = fmt.Scanln(&confirm)
			if confirm != "yes" && confirm != "y" {
				fmt.Println("Import cancelled.")
				return nil
			}
		}

		return withDatabase(func(_ *config.Config, database *gorm.DB) error {
			result, err := importProducts(database, rows, batchSize)
			if err != nil {
				return err
			}
			fmt.Println("Import completed successfully!")
			fmt.Printf("Products imported: %d\n", result.Products)
			fmt.Printf("Product types created: %d\n", result.TypesCreated)
			return nil
		})
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not run migrations before seeding")
	productsCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Import without asking for confirmation")
	productsCmd.Flags().IntVar(&batchSize, "batch-size", 100, "Rows inserted per batch")

	rootCmd.AddCommand(adminCmd, productsCmd)
}

func withDatabase(fn func(cfg *config.Config, database *gorm.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Initialize(logger.Config{Level: "warn", Format: "console", EnableColor: true})

	database, err := db.Open(&cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if !skipMigrate {
		if err := db.Migrate(database); err != nil {
			return err
		}
	}
	return fn(cfg, database)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
