package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// OpeningHandSize is the number of cards dealt at match start.
const OpeningHandSize = 10

var (
	ErrUnknownFaction    = errors.New("no starter deck for faction")
	ErrUnknownDefinition = errors.New("unknown card definition")
	ErrDeckTooSmall      = errors.New("starter deck too small")
	ErrMissingLeader     = errors.New("faction has no leader")
	ErrInvalidDefinition = errors.New("invalid card definition")
	ErrInvalidCopies     = errors.New("deck entry needs at least one copy")
)

// DeckEntry is one line of a starter deck list.
type DeckEntry struct {
	DefinitionID string `json:"definitionId"`
	Copies       int    `json:"copies"`
}

// Catalog holds card definitions and the per-faction starter deck lists.
type Catalog struct {
	Definitions map[string]*CardDefinition
	Decks       map[Faction][]DeckEntry
	Leaders     map[Faction]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Definitions: map[string]*CardDefinition{},
		Decks:       map[Faction][]DeckEntry{},
		Leaders:     map[Faction]string{},
	}
}

// AddDefinition registers def; a later definition with the same id replaces it.
func (c *Catalog) AddDefinition(def CardDefinition) {
	d := def
	d.Abilities = append([]Ability(nil), def.Abilities...)
	c.Definitions[d.ID] = &d
}

// Definition looks up a definition by id.
func (c *Catalog) Definition(id string) (*CardDefinition, bool) {
	d, ok := c.Definitions[id]
	return d, ok
}

// SortedDefinitions returns every definition ordered by faction then id.
func (c *Catalog) SortedDefinitions() []*CardDefinition {
	out := make([]*CardDefinition, 0, len(c.Definitions))
	for _, d := range c.Definitions {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Faction != out[j].Faction {
			return out[i].Faction < out[j].Faction
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Validate checks every definition, and that every playable faction has a
// leader and a deck large enough to deal an opening hand and cover both mulligans.
func (c *Catalog) Validate() error {
	for _, d := range c.SortedDefinitions() {
		if err := d.validate(); err != nil {
			return err
		}
	}
	for _, f := range PlayableFactions {
		leaderID, ok := c.Leaders[f]
		if !ok {
			return fmt.Errorf("%s: %w", f, ErrMissingLeader)
		}
		if _, ok := c.Definitions[leaderID]; !ok {
			return fmt.Errorf("%s leader %q: %w", f, leaderID, ErrUnknownDefinition)
		}
		entries, ok := c.Decks[f]
		if !ok {
			return fmt.Errorf("%s: %w", f, ErrUnknownFaction)
		}
		size := 0
		for _, e := range entries {
			if _, ok := c.Definitions[e.DefinitionID]; !ok {
				return fmt.Errorf("%s deck entry %q: %w", f, e.DefinitionID, ErrUnknownDefinition)
			}
			if e.Copies < 1 {
				return fmt.Errorf("%s deck entry %q has %d copies: %w", f, e.DefinitionID, e.Copies, ErrInvalidCopies)
			}
			size += e.Copies
		}
		if need := OpeningHandSize + StartingMulligans; size < need {
			return fmt.Errorf("%s has %d cards, need %d: %w", f, size, need, ErrDeckTooSmall)
		}
	}
	return nil
}

// DeckCard pairs a definition with its copy count, for deck listings.
type DeckCard struct {
	Definition *CardDefinition `json:"definition"`
	Copies     int             `json:"copies"`
}

// DeckFactory turns catalog deck lists into card instances.
type DeckFactory struct {
	catalog *Catalog
}

// NewDeckFactory builds a factory over catalog.
func NewDeckFactory(catalog *Catalog) DeckFactory {
	return DeckFactory{catalog: catalog}
}

// StarterDeck resolves the faction's deck list.
func (f DeckFactory) StarterDeck(faction Faction) ([]DeckCard, error) {
	entries, ok := f.catalog.Decks[faction]
	if !ok {
		return nil, fmt.Errorf("%s: %w", faction, ErrUnknownFaction)
	}
	out := make([]DeckCard, 0, len(entries))
	for _, e := range entries {
		def, ok := f.catalog.Definition(e.DefinitionID)
		if !ok {
			return nil, fmt.Errorf("%q: %w", e.DefinitionID, ErrUnknownDefinition)
		}
		out = append(out, DeckCard{Definition: def, Copies: e.Copies})
	}
	return out, nil
}

// BuildDeck creates fresh instances for every copy in the faction's deck list,
// in list order. Callers shuffle.
func (f DeckFactory) BuildDeck(faction Faction, owner Role) ([]*CardInstance, error) {
	cards, err := f.StarterDeck(faction)
	if err != nil {
		return nil, err
	}
	var deck []*CardInstance
	for _, dc := range cards {
		for i := 0; i < dc.Copies; i++ {
			deck = append(deck, NewCardInstance(dc.Definition, owner))
		}
	}
	return deck, nil
}

// BuildLeader creates the faction's leader instance.
func (f DeckFactory) BuildLeader(faction Faction, owner Role) (*CardInstance, error) {
	id, ok := f.catalog.Leaders[faction]
	if !ok {
		return nil, fmt.Errorf("%s: %w", faction, ErrMissingLeader)
	}
	def, ok := f.catalog.Definition(id)
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownDefinition)
	}
	return NewCardInstance(def, owner), nil
}

// Shuffle performs a uniform Fisher-Yates shuffle in place.
func Shuffle(rng *rand.Rand, deck []*CardInstance) {
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}
