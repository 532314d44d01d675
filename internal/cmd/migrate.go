package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thriftstore/pos/internal/config"
	"github.com/thriftstore/pos/internal/db"
	"github.com/thriftstore/pos/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE:  runMigrate,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate, then insert reference data into empty tables",
	Long: `Seed runs the migrations and inserts starter categories, items with
stock, employees, donors and customers. Tables that already hold rows are
left untouched, so seeding twice is safe.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.NewCLILogger(cfg.LogLevel)
	defer log.Sync()

	database, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	log := logger.NewCLILogger(cfg.LogLevel)
	defer log.Sync()

	database, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := db.Seed(database); err != nil {
		return fmt.Errorf("failed to seed reference data: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Reference data seeded")
	return nil
}
