package config

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/bellapacxx/gwent-backend/models"
)

// Migrate creates or updates the catalog tables.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.CardDefinition{},
		&models.DeckEntry{},
		&models.FactionLeader{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
