package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/thriftstore/pos/internal/config"
	"github.com/thriftstore/pos/internal/db"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "thriftd",
	Short: "Thrift store point of sale and inventory service",
	Long: `thriftd runs the thrift store service: point-of-sale transactions,
inventory, customers, donations and reporting.

Configuration is read from the environment (and a .env file when present).
Use "serve" to run the HTTP API, or the other commands for one-off tasks.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openDatabase connects with the configured driver and DSN
func openDatabase(cfg *config.Config, log *zap.Logger) (*db.DB, error) {
	log.Info("Connecting to database", zap.String("driver", cfg.DBDriver))
	database, err := db.Connect(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("database is not reachable: %w", err)
	}
	return database, nil
}
