package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/iliyamo/stewardship-hub/internal/config"
	"github.com/iliyamo/stewardship-hub/internal/database"
)

var (
	flagEnvFile string
	flagDriver  string
	flagSQLite  string
)

var rootCmd = &cobra.Command{
	Use:           "hubctl",
	Short:         "Stewardship hub operator tool",
	Long:          "Migrate, seed and inspect the stewardship hub database.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if flagEnvFile != "" {
			_ = godotenv.Load(flagEnvFile)
		}
		if flagDriver != "" {
			os.Setenv("DB_DRIVER", flagDriver)
		}
		if flagSQLite != "" {
			os.Setenv("SQLITE_PATH", flagSQLite)
		}
		return nil
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hubctl: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Optional dotenv file")
	rootCmd.PersistentFlags().StringVar(&flagDriver, "driver", "", "Override DB_DRIVER (mysql|sqlite)")
	rootCmd.PersistentFlags().StringVar(&flagSQLite, "sqlite", "", "Override SQLITE_PATH")
}

// openDB connects with the environment's storage settings and brings the
// schema up to date.
func openDB(ctx context.Context) (*sql.DB, error) {
	cfg := config.LoadDatabase()
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db, cfg.Driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}
