package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func emptyState() *GameBoardState {
	return &GameBoardState{
		Host:  newPlayerBoard(PlayerIdentity{Nickname: hostNick}, RoleHost),
		Guest: newPlayerBoard(PlayerIdentity{Nickname: guestNick}, RoleGuest),
		Round: 1,
	}
}

func TestRecalculate(t *testing.T) {
	frost := def("frost", CategoryWeather, "", 0, AbilityBitingFrost)
	fog := def("fog", CategoryWeather, "", 0, AbilityImpenetrableFog)
	horn := def("horn", CategorySpecial, RowMelee, 0, AbilityCommandersHorn)
	morale := def("morale", CategoryUnit, RowMelee, 1, AbilityMoraleBoost)
	bond := def("bond", CategoryUnit, RowMelee, 4, AbilityTightBond)
	bond.TightBondGroup = "pair"
	soldier := def("soldier", CategoryUnit, RowMelee, 8)
	champion := def("champion", CategoryHero, RowMelee, 10)

	t.Run("weather pins units but not heroes", func(t *testing.T) {
		s := emptyState()
		u := addToBoard(&s.Host, soldier, RowMelee)
		h := addToBoard(&s.Host, champion, RowMelee)
		other := addToBoard(&s.Guest, soldier, RowMelee)
		ranged := addToBoard(&s.Guest, soldier, RowRanged)
		s.Weather = append(s.Weather, NewCardInstance(frost, RoleGuest))

		Recalculate(s)
		assert.Equal(t, 1, u.CurrentStrength)
		assert.Equal(t, 10, h.CurrentStrength)
		assert.Equal(t, 1, other.CurrentStrength)
		assert.Equal(t, 8, ranged.CurrentStrength)
	})

	t.Run("several weather kinds stack on their own rows", func(t *testing.T) {
		s := emptyState()
		m := addToBoard(&s.Host, soldier, RowMelee)
		r := addToBoard(&s.Host, soldier, RowRanged)
		sg := addToBoard(&s.Host, soldier, RowSiege)
		s.Weather = append(s.Weather, NewCardInstance(frost, RoleHost), NewCardInstance(fog, RoleGuest))

		Recalculate(s)
		assert.Equal(t, 1, m.CurrentStrength)
		assert.Equal(t, 1, r.CurrentStrength)
		assert.Equal(t, 8, sg.CurrentStrength)
		assert.Equal(t, 10, s.Host.TotalStrength())
	})

	t.Run("horn doubles after weather", func(t *testing.T) {
		s := emptyState()
		u := addToBoard(&s.Host, soldier, RowMelee)
		h := addToBoard(&s.Host, champion, RowMelee)
		addToBoard(&s.Host, horn, RowMelee)
		s.Weather = append(s.Weather, NewCardInstance(frost, RoleHost))

		Recalculate(s)
		assert.Equal(t, 2, u.CurrentStrength)
		assert.Equal(t, 10, h.CurrentStrength)
	})

	t.Run("each morale card adds one to other units", func(t *testing.T) {
		s := emptyState()
		u := addToBoard(&s.Host, soldier, RowMelee)
		m1 := addToBoard(&s.Host, morale, RowMelee)
		addToBoard(&s.Host, morale, RowMelee)
		h := addToBoard(&s.Host, champion, RowMelee)

		Recalculate(s)
		assert.Equal(t, 10, u.CurrentStrength)
		assert.Equal(t, 1, m1.CurrentStrength)
		assert.Equal(t, 10, h.CurrentStrength)
	})

	t.Run("tight bond multiplies by group size after morale", func(t *testing.T) {
		s := emptyState()
		b1 := addToBoard(&s.Host, bond, RowMelee)
		b2 := addToBoard(&s.Host, bond, RowMelee)
		lone := addToBoard(&s.Host, bond, RowRanged)
		addToBoard(&s.Host, morale, RowMelee)

		Recalculate(s)
		assert.Equal(t, 10, b1.CurrentStrength)
		assert.Equal(t, 10, b2.CurrentStrength)
		assert.Equal(t, 4, lone.CurrentStrength)
	})

	t.Run("tight bond works on the pinned value", func(t *testing.T) {
		s := emptyState()
		var bonded []*CardInstance
		for i := 0; i < 3; i++ {
			bonded = append(bonded, addToBoard(&s.Guest, bond, RowMelee))
		}
		s.Weather = append(s.Weather, NewCardInstance(frost, RoleHost))

		Recalculate(s)
		for _, c := range bonded {
			assert.Equal(t, 3, c.CurrentStrength)
		}
	})

	t.Run("strength override replaces the base", func(t *testing.T) {
		s := emptyState()
		u := addToBoard(&s.Host, soldier, RowMelee)
		u.StrengthOverride = MardroemeStrength
		addToBoard(&s.Host, horn, RowMelee)

		Recalculate(s)
		assert.Equal(t, 26, u.CurrentStrength)
	})

	t.Run("idempotent", func(t *testing.T) {
		s := emptyState()
		addToBoard(&s.Host, soldier, RowMelee)
		addToBoard(&s.Host, bond, RowMelee)
		addToBoard(&s.Host, bond, RowMelee)
		addToBoard(&s.Host, morale, RowMelee)
		addToBoard(&s.Host, horn, RowMelee)
		addToBoard(&s.Guest, soldier, RowSiege)
		s.Weather = append(s.Weather, NewCardInstance(fog, RoleHost))

		Recalculate(s)
		first := map[string]int{}
		for _, c := range append(s.Host.BoardCards(), s.Guest.BoardCards()...) {
			first[c.InstanceID] = c.CurrentStrength
		}
		Recalculate(s)
		for _, c := range append(s.Host.BoardCards(), s.Guest.BoardCards()...) {
			assert.Equal(t, first[c.InstanceID], c.CurrentStrength, c.Definition.ID)
		}
	})
}
