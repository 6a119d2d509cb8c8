package models

import (
	"time"

	"gorm.io/datatypes"
)

// CardDefinition is a catalog card template row.
type CardDefinition struct {
	ID             string         `gorm:"primaryKey;size:64" json:"id"`
	Name           string         `gorm:"size:128;not null" json:"name"`
	Faction        string         `gorm:"size:32;index;not null" json:"faction"`
	Category       string         `gorm:"size:16;not null" json:"category"`
	DefaultRow     string         `gorm:"size:16" json:"default_row"`
	BaseStrength   int            `json:"base_strength"`
	Abilities      datatypes.JSON `json:"abilities"` // JSON array of ability names
	TightBondGroup string         `gorm:"size:64" json:"tight_bond_group"`
	MusterGroup    string         `gorm:"size:64" json:"muster_group"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
