package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nuhm/bitnap/backend/internal/models"
)

// Models lists every table owned by the service, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Profile{},
		&models.Buddy{},
		&models.JournalEntry{},
	}
}

// RunMigrations creates or updates the schema for every model.
func RunMigrations(db *gorm.DB, logger *zap.Logger) error {
	for _, m := range Models() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", m, err)
		}
	}
	logger.Info("migrations applied", zap.String("dialect", db.Dialector.Name()))
	return nil
}
