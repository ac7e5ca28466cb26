package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/models"
)

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	slog.Info("running migrations", "dialect", db.Dialector.Name())
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
