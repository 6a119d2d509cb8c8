package services

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/bellapacxx/gwent-backend/game"
)

// catalogFile is the TOML layout of a card catalog:
//
//	[[cards]]
//	id = "nr_ballista"
//	name = "Ballista"
//	faction = "northern_realms"
//	category = "unit"
//	row = "siege"
//	strength = 6
//
//	[[decks]]
//	faction = "northern_realms"
//	leader = "nr_foltest"
//	cards = [{ id = "nr_ballista", copies = 2 }]
type catalogFile struct {
	Cards []cardRecord `toml:"cards"`
	Decks []deckRecord `toml:"decks"`
}

type cardRecord struct {
	ID             string   `toml:"id"`
	Name           string   `toml:"name"`
	Faction        string   `toml:"faction"`
	Category       string   `toml:"category"`
	Row            string   `toml:"row,omitempty"`
	Strength       int      `toml:"strength"`
	Abilities      []string `toml:"abilities,omitempty"`
	TightBondGroup string   `toml:"tight_bond_group,omitempty"`
	MusterGroup    string   `toml:"muster_group,omitempty"`
}

type deckRecord struct {
	Faction string        `toml:"faction"`
	Leader  string        `toml:"leader"`
	Cards   []deckCardRef `toml:"cards"`
}

type deckCardRef struct {
	ID     string `toml:"id"`
	Copies int    `toml:"copies"`
}

// LoadCatalogFile reads and validates a TOML catalog from disk.
func LoadCatalogFile(path string) (*game.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return DecodeCatalog(f)
}

// DecodeCatalog parses a TOML catalog. Unknown keys are rejected.
func DecodeCatalog(r io.Reader) (*game.Catalog, error) {
	var file catalogFile
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := game.NewCatalog()
	for _, rec := range file.Cards {
		c.AddDefinition(rec.definition())
	}
	for _, d := range file.Decks {
		faction := game.Faction(d.Faction)
		if _, dup := c.Decks[faction]; dup {
			return nil, fmt.Errorf("duplicate deck for %s", faction)
		}
		entries := make([]game.DeckEntry, 0, len(d.Cards))
		for _, ref := range d.Cards {
			copies := ref.Copies
			if copies == 0 {
				copies = 1
			}
			entries = append(entries, game.DeckEntry{DefinitionID: ref.ID, Copies: copies})
		}
		c.Decks[faction] = entries
		c.Leaders[faction] = d.Leader
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// EncodeCatalog renders c in the TOML layout DecodeCatalog reads.
func EncodeCatalog(c *game.Catalog) ([]byte, error) {
	var file catalogFile
	for _, d := range c.SortedDefinitions() {
		file.Cards = append(file.Cards, recordFor(d))
	}
	for _, f := range game.PlayableFactions {
		entries, ok := c.Decks[f]
		if !ok {
			continue
		}
		deck := deckRecord{Faction: string(f), Leader: c.Leaders[f]}
		for _, e := range entries {
			deck.Cards = append(deck.Cards, deckCardRef{ID: e.DefinitionID, Copies: e.Copies})
		}
		file.Decks = append(file.Decks, deck)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetArraysMultiline(true)
	if err := enc.Encode(file); err != nil {
		return nil, fmt.Errorf("encode catalog: %w", err)
	}
	return buf.Bytes(), nil
}

func (r cardRecord) definition() game.CardDefinition {
	abilities := make([]game.Ability, 0, len(r.Abilities))
	for _, a := range r.Abilities {
		abilities = append(abilities, game.Ability(a))
	}
	return game.CardDefinition{
		ID:             r.ID,
		Name:           r.Name,
		Faction:        game.Faction(r.Faction),
		Category:       game.Category(r.Category),
		DefaultRow:     game.Row(r.Row),
		BaseStrength:   r.Strength,
		Abilities:      abilities,
		TightBondGroup: r.TightBondGroup,
		MusterGroup:    r.MusterGroup,
	}
}

func recordFor(d *game.CardDefinition) cardRecord {
	rec := cardRecord{
		ID:             d.ID,
		Name:           d.Name,
		Faction:        string(d.Faction),
		Category:       string(d.Category),
		Row:            string(d.DefaultRow),
		Strength:       d.BaseStrength,
		TightBondGroup: d.TightBondGroup,
		MusterGroup:    d.MusterGroup,
	}
	for _, a := range d.Abilities {
		rec.Abilities = append(rec.Abilities, string(a))
	}
	return rec
}
