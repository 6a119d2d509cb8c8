package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bellapacxx/gwent-backend/config"
	"github.com/bellapacxx/gwent-backend/game"
	"github.com/bellapacxx/gwent-backend/utils/logger"
)

// LoadCatalog picks the card catalog source: database, then TOML file,
// then the built-in catalog. An empty database falls through to the next source.
func LoadCatalog(ctx context.Context, cfg *config.Config) (*game.Catalog, error) {
	if cfg.DatabaseURL != "" {
		db, err := config.OpenDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		c, err := NewCatalogStore(db).Load(ctx)
		switch {
		case err == nil:
			logger.Infof("[Catalog] Loaded %d definitions from database", len(c.Definitions))
			return c, nil
		case errors.Is(err, ErrEmptyCatalog):
			logger.Warnf("[Catalog] Database catalog is empty, run cmd/migrate.go to seed it")
		default:
			return nil, err
		}
	}

	if cfg.CardCatalogFile != "" {
		c, err := LoadCatalogFile(cfg.CardCatalogFile)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.CardCatalogFile, err)
		}
		logger.Infof("[Catalog] Loaded %d definitions from %s", len(c.Definitions), cfg.CardCatalogFile)
		return c, nil
	}

	c := game.BuiltinCatalog()
	logger.Infof("[Catalog] Using built-in catalog (%d definitions)", len(c.Definitions))
	return c, nil
}
