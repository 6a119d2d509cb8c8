package models

import "time"

// DeckEntry is one line of a faction starter deck.
type DeckEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Faction      string    `gorm:"size:32;uniqueIndex:idx_deck_card;not null" json:"faction"`
	DefinitionID string    `gorm:"size:64;uniqueIndex:idx_deck_card;not null" json:"definition_id"`
	Copies       int       `gorm:"not null;default:1" json:"copies"`
	Position     int       `json:"position"` // keeps deck list order stable
	CreatedAt    time.Time `json:"created_at"`
}

// FactionLeader binds a faction to its leader card.
type FactionLeader struct {
	Faction      string    `gorm:"primaryKey;size:32" json:"faction"`
	DefinitionID string    `gorm:"size:64;not null" json:"definition_id"`
	UpdatedAt    time.Time `json:"updated_at"`
}
