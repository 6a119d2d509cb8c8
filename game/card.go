package game

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Faction is the alignment of a deck or a card.
type Faction string

const (
	FactionNeutral        Faction = "neutral"
	FactionNorthernRealms Faction = "northern_realms"
	FactionNilfgaard      Faction = "nilfgaard"
	FactionScoiatael      Faction = "scoiatael"
	FactionMonsters       Faction = "monsters"
)

// PlayableFactions lists the factions a player can pick for a starter deck.
var PlayableFactions = []Faction{
	FactionNorthernRealms,
	FactionNilfgaard,
	FactionScoiatael,
	FactionMonsters,
}

// Playable reports whether a starter deck can be built for the faction.
func (f Faction) Playable() bool {
	return slices.Contains(PlayableFactions, f)
}

// Category is the kind of a card.
type Category string

const (
	CategoryUnit    Category = "unit"
	CategoryHero    Category = "hero"
	CategoryWeather Category = "weather"
	CategorySpecial Category = "special"
	CategoryLeader  Category = "leader"
)

// Row is one of the three combat lanes.
type Row string

const (
	RowMelee  Row = "melee"
	RowRanged Row = "ranged"
	RowSiege  Row = "siege"
)

// Rows lists the combat lanes in board order.
var Rows = []Row{RowMelee, RowRanged, RowSiege}

// Valid reports whether r names a combat lane.
func (r Row) Valid() bool {
	return r == RowMelee || r == RowRanged || r == RowSiege
}

// Ability is a card effect.
type Ability string

const (
	AbilityMoraleBoost         Ability = "morale_boost"
	AbilityCommandersHorn      Ability = "commanders_horn"
	AbilityTightBond           Ability = "tight_bond"
	AbilityMedic               Ability = "medic"
	AbilitySpy                 Ability = "spy"
	AbilityMuster              Ability = "muster"
	AbilityScorch              Ability = "scorch"
	AbilityAgile               Ability = "agile"
	AbilityBitingFrost         Ability = "weather_biting_frost"
	AbilityImpenetrableFog     Ability = "weather_impenetrable_fog"
	AbilityTorrentialRain      Ability = "weather_torrential_rain"
	AbilityClearWeather        Ability = "clear_weather"
	AbilityDecoy               Ability = "decoy"
	AbilityMardroeme           Ability = "mardroeme"
	AbilityLeaderDrawExtraCard Ability = "leader_draw_extra_card"
)

// weatherRows maps each weather ability to the lane it pins.
var weatherRows = map[Ability]Row{
	AbilityBitingFrost:     RowMelee,
	AbilityImpenetrableFog: RowRanged,
	AbilityTorrentialRain:  RowSiege,
}

// KnownAbility reports whether a names an ability the engine understands.
func KnownAbility(a Ability) bool {
	switch a {
	case AbilityMoraleBoost, AbilityCommandersHorn, AbilityTightBond, AbilityMedic,
		AbilitySpy, AbilityMuster, AbilityScorch, AbilityAgile,
		AbilityBitingFrost, AbilityImpenetrableFog, AbilityTorrentialRain,
		AbilityClearWeather, AbilityDecoy, AbilityMardroeme, AbilityLeaderDrawExtraCard:
		return true
	}
	return false
}

// CardDefinition is the immutable template every in-match copy points at.
type CardDefinition struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Faction        Faction   `json:"faction"`
	Category       Category  `json:"category"`
	DefaultRow     Row       `json:"defaultRow,omitempty"`
	BaseStrength   int       `json:"baseStrength"`
	Abilities      []Ability `json:"abilities,omitempty"`
	TightBondGroup string    `json:"tightBondGroup,omitempty"`
	MusterGroup    string    `json:"musterGroup,omitempty"`
}

func (d *CardDefinition) validate() error {
	if d.ID == "" {
		return fmt.Errorf("empty id: %w", ErrInvalidDefinition)
	}
	if d.Faction != FactionNeutral && !d.Faction.Playable() {
		return fmt.Errorf("%s: faction %q: %w", d.ID, d.Faction, ErrInvalidDefinition)
	}
	switch d.Category {
	case CategoryUnit, CategoryHero, CategoryWeather, CategorySpecial, CategoryLeader:
	default:
		return fmt.Errorf("%s: category %q: %w", d.ID, d.Category, ErrInvalidDefinition)
	}
	if d.DefaultRow != "" && !d.DefaultRow.Valid() {
		return fmt.Errorf("%s: row %q: %w", d.ID, d.DefaultRow, ErrInvalidDefinition)
	}
	if d.BaseStrength < 0 {
		return fmt.Errorf("%s: negative strength: %w", d.ID, ErrInvalidDefinition)
	}
	for _, a := range d.Abilities {
		if !KnownAbility(a) {
			return fmt.Errorf("%s: ability %q: %w", d.ID, a, ErrInvalidDefinition)
		}
	}
	return nil
}

// HasAbility reports whether the definition carries a.
func (d *CardDefinition) HasAbility(a Ability) bool {
	return slices.Contains(d.Abilities, a)
}

// IsHero reports whether the card is immune to board effects.
func (d *CardDefinition) IsHero() bool {
	return d.Category == CategoryHero
}

// IsWeather reports whether the card is a row-pinning weather card.
func (d *CardDefinition) IsWeather() bool {
	if d.Category != CategoryWeather {
		return false
	}
	for _, a := range d.Abilities {
		if _, ok := weatherRows[a]; ok {
			return true
		}
	}
	return false
}

// FlexibleRow reports whether the player may choose the lane the card lands on.
func (d *CardDefinition) FlexibleRow() bool {
	return d.HasAbility(AbilityAgile) || (d.Category == CategorySpecial && d.HasAbility(AbilityCommandersHorn))
}

// CardInstance is one copy of a definition inside a match. Instances are
// relocated between zones and never destroyed.
type CardInstance struct {
	InstanceID       string          `json:"instanceId"`
	Definition       *CardDefinition `json:"definition"`
	Owner            Role            `json:"owner"`
	CurrentStrength  int             `json:"currentStrength"`
	OnBoard          bool            `json:"onBoard"`
	StrengthOverride int             `json:"strengthOverride,omitempty"`
}

// NewCardInstance creates a fresh copy of def owned by owner.
func NewCardInstance(def *CardDefinition, owner Role) *CardInstance {
	return &CardInstance{
		InstanceID:      uuid.NewString(),
		Definition:      def,
		Owner:           owner,
		CurrentStrength: def.BaseStrength,
	}
}

// BaseStrength is the strength recomputation starts from.
func (c *CardInstance) BaseStrength() int {
	if c.StrengthOverride > 0 {
		return c.StrengthOverride
	}
	return c.Definition.BaseStrength
}

// affectable reports whether board effects (weather, horn, morale, bond) touch the card.
func (c *CardInstance) affectable() bool {
	return c.Definition.Category == CategoryUnit
}

// combatant reports whether the card counts as a unit for targeting purposes.
func (c *CardInstance) combatant() bool {
	return c.Definition.Category == CategoryUnit || c.Definition.Category == CategoryHero
}

// leaveBoard resets per-board state when the card moves off the rows.
func (c *CardInstance) leaveBoard() {
	c.OnBoard = false
	c.StrengthOverride = 0
	c.CurrentStrength = c.Definition.BaseStrength
}
