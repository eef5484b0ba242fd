// Package cmd provides the ledgerctl operator commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"bizledger/internal/config"
	"bizledger/internal/database"
	"bizledger/internal/logger"
)

// openDB connects to the configured database and brings its schema up to
// date. Tests replace it with an in-memory database.
var openDB = func() (*gorm.DB, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	dbConfig, err := database.NewConfig(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load database configuration: %w", err)
	}
	manager, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, nil, err
	}
	if err := manager.RunMigrations(); err != nil {
		_ = manager.Close()
		return nil, nil, err
	}
	return manager.DB(), func() { _ = manager.Close() }, nil
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Operate the BizLedger database",
	Long: `ledgerctl runs operator tasks against the BizLedger database configured
through the same environment variables as the API server.

Example:
  ledgerctl seed --file seed.yaml
  ledgerctl create-admin --email cfo@example.com --name "CFO" --password s3cret-pass
  ledgerctl reconcile`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(os.Getenv("ENV"))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(createAdminCmd)
}
