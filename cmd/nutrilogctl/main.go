// Command nutrilogctl runs maintenance tasks against the NutriLog database.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/config"
	"github.com/pageza/nutrilog/backend/internal/database"
	"github.com/pageza/nutrilog/backend/pkg/logging"
)

func main() {
	logging.Setup()

	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nutrilogctl",
		Short:         "Maintenance commands for the NutriLog backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(openDB), newRecalcCmd(openDB))
	return root
}

// openDB connects with the same configuration as the API server.
func openDB() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return database.Open(cfg)
}
