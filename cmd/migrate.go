package main

import (
	"context"
	"os"

	"github.com/bellapacxx/gwent-backend/config"
	"github.com/bellapacxx/gwent-backend/game"
	"github.com/bellapacxx/gwent-backend/services"
	"github.com/bellapacxx/gwent-backend/utils/logger"
)

// Migrates the catalog tables and seeds them from CARD_CATALOG_FILE, or the
// built-in catalog when no file is set.
func main() {
	cfg, err := config.Load(nil)
	if err != nil {
		logger.Fatalf("[FATAL] %v", err)
	}
	if cfg.DatabaseURL == "" {
		logger.Fatalf("[FATAL] DATABASE_URL is required in .env or environment")
	}

	db, err := config.OpenDatabase(cfg.DatabaseURL) // connects + migrates
	if err != nil {
		logger.Fatalf("[FATAL] %v", err)
	}

	catalog := game.BuiltinCatalog()
	if cfg.CardCatalogFile != "" {
		if catalog, err = services.LoadCatalogFile(cfg.CardCatalogFile); err != nil {
			logger.Fatalf("[FATAL] %s: %v", cfg.CardCatalogFile, err)
		}
	}
	if err := services.NewCatalogStore(db).Seed(context.Background(), catalog); err != nil {
		logger.Errorf("[FATAL] Seeding catalog failed: %v", err)
		os.Exit(1)
	}
	logger.Infof("Database migration completed, %d card definitions seeded", len(catalog.Definitions))
	logger.Sync()
}
