package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/bellapacxx/gwent-backend/game"
	"github.com/bellapacxx/gwent-backend/models"
)

var ErrEmptyCatalog = errors.New("catalog tables are empty")

// CatalogStore persists the card catalog through gorm.
type CatalogStore struct {
	db *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// Load reads every definition, deck entry and leader and validates the result.
func (s *CatalogStore) Load(ctx context.Context) (*game.Catalog, error) {
	db := s.db.WithContext(ctx)

	var cards []models.CardDefinition
	if err := db.Order("id").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("load card definitions: %w", err)
	}
	if len(cards) == 0 {
		return nil, ErrEmptyCatalog
	}
	var entries []models.DeckEntry
	if err := db.Order("faction, position, id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load deck entries: %w", err)
	}
	var leaders []models.FactionLeader
	if err := db.Find(&leaders).Error; err != nil {
		return nil, fmt.Errorf("load leaders: %w", err)
	}

	c := game.NewCatalog()
	for _, row := range cards {
		def, err := definitionFromModel(row)
		if err != nil {
			return nil, err
		}
		c.AddDefinition(def)
	}
	for _, e := range entries {
		f := game.Faction(e.Faction)
		c.Decks[f] = append(c.Decks[f], game.DeckEntry{DefinitionID: e.DefinitionID, Copies: e.Copies})
	}
	for _, l := range leaders {
		c.Leaders[game.Faction(l.Faction)] = l.DefinitionID
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Seed writes c into the catalog tables, replacing deck lists and leaders
// and upserting definitions.
func (s *CatalogStore) Seed(ctx context.Context, c *game.Catalog) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, d := range c.SortedDefinitions() {
			row, err := modelFromDefinition(d)
			if err != nil {
				return err
			}
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
				return fmt.Errorf("upsert %s: %w", d.ID, err)
			}
		}

		global := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := global.Delete(&models.DeckEntry{}).Error; err != nil {
			return fmt.Errorf("clear deck entries: %w", err)
		}
		if err := global.Delete(&models.FactionLeader{}).Error; err != nil {
			return fmt.Errorf("clear leaders: %w", err)
		}

		for _, f := range game.PlayableFactions {
			for i, e := range c.Decks[f] {
				row := models.DeckEntry{Faction: string(f), DefinitionID: e.DefinitionID, Copies: e.Copies, Position: i}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("insert deck entry %s/%s: %w", f, e.DefinitionID, err)
				}
			}
			leader := models.FactionLeader{Faction: string(f), DefinitionID: c.Leaders[f]}
			if err := tx.Create(&leader).Error; err != nil {
				return fmt.Errorf("insert leader %s: %w", f, err)
			}
		}
		return nil
	})
}

func modelFromDefinition(d *game.CardDefinition) (models.CardDefinition, error) {
	abilities := d.Abilities
	if abilities == nil {
		abilities = []game.Ability{}
	}
	raw, err := json.Marshal(abilities)
	if err != nil {
		return models.CardDefinition{}, fmt.Errorf("marshal abilities of %s: %w", d.ID, err)
	}
	return models.CardDefinition{
		ID:             d.ID,
		Name:           d.Name,
		Faction:        string(d.Faction),
		Category:       string(d.Category),
		DefaultRow:     string(d.DefaultRow),
		BaseStrength:   d.BaseStrength,
		Abilities:      datatypes.JSON(raw),
		TightBondGroup: d.TightBondGroup,
		MusterGroup:    d.MusterGroup,
	}, nil
}

func definitionFromModel(m models.CardDefinition) (game.CardDefinition, error) {
	var abilities []game.Ability
	if len(m.Abilities) > 0 {
		if err := json.Unmarshal(m.Abilities, &abilities); err != nil {
			return game.CardDefinition{}, fmt.Errorf("abilities of %s: %w", m.ID, err)
		}
	}
	return game.CardDefinition{
		ID:             m.ID,
		Name:           m.Name,
		Faction:        game.Faction(m.Faction),
		Category:       game.Category(m.Category),
		DefaultRow:     game.Row(m.DefaultRow),
		BaseStrength:   m.BaseStrength,
		Abilities:      abilities,
		TightBondGroup: m.TightBondGroup,
		MusterGroup:    m.MusterGroup,
	}, nil
}
