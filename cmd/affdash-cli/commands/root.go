package commands

import (
	"context"
	"fmt"
	"os"

	"affdash-backend/lib/browser"
	"affdash-backend/lib/configutil"
	"affdash-backend/lib/serviceutil"
	"affdash-backend/lib/sqliteutil"
	"affdash-backend/services/keychain"
	keychaindb "affdash-backend/services/keychain/db"
	"affdash-backend/services/reports"

	"github.com/spf13/cobra"
)

type Config struct {
	// Database is the path of the credential store, ":memory:" works
	// for throwaway runs.
	Database string `json:"database"`
	// UserID namespaces stored accounts, so one store can serve
	// several operators.
	UserID int64 `json:"user_id"`
	// Headful opens a visible browser window for debugging scrapes.
	Headful bool `json:"headful"`
}

var rootCmd = &cobra.Command{
	Use:   "affdash-cli",
	Short: "affdash-cli manages affiliate dashboard credentials and scrapes reports.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.Database == "" {
		cfg.Database = "affdash.db"
	}
	return cfg
}

func openKeychain(cfg Config) keychain.Service {
	db, err := sqliteutil.OpenDB(keychaindb.Schema, cfg.Database)
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	return keychain.NewService(db)
}

func openReports(cfg Config) reports.Service {
	return reports.NewService(openKeychain(cfg), browser.Options{
		Headful: cfg.Headful,
	})
}
