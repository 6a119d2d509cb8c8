package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	hostNick  = "alice"
	guestNick = "bob"
)

func def(id string, cat Category, row Row, strength int, abilities ...Ability) *CardDefinition {
	return &CardDefinition{ID: id, Name: id, Faction: FactionNeutral, Category: cat, DefaultRow: row, BaseStrength: strength, Abilities: abilities}
}

func newTestEngine(t *testing.T, host, guest Faction) *Engine {
	t.Helper()
	e, err := NewEngine(SessionConfig{
		Host:  PlayerIdentity{Nickname: hostNick, Faction: host},
		Guest: PlayerIdentity{Nickname: guestNick, Faction: guest},
	}, WithRand(rand.New(rand.NewSource(42))))
	require.NoError(t, err)
	return e
}

// readyEngine returns an engine past the mulligan phase.
func readyEngine(t *testing.T, host, guest Faction) *Engine {
	t.Helper()
	e := newTestEngine(t, host, guest)
	require.NoError(t, e.ApplyAction(Action{Kind: ActionMulligan, Actor: hostNick}))
	require.NoError(t, e.ApplyAction(Action{Kind: ActionMulligan, Actor: guestNick}))
	return e
}

func active(e *Engine) *PlayerBoardState {
	return e.State().Player(e.State().ActivePlayer)
}

func waiting(e *Engine) *PlayerBoardState {
	return e.State().Opponent(e.State().ActivePlayer)
}

func addToHand(p *PlayerBoardState, d *CardDefinition) *CardInstance {
	c := NewCardInstance(d, p.Role)
	p.Hand = append(p.Hand, c)
	return c
}

func addToBoard(p *PlayerBoardState, d *CardDefinition, r Row) *CardInstance {
	c := NewCardInstance(d, p.Role)
	p.place(c, r)
	return c
}

func addToGraveyard(p *PlayerBoardState, d *CardDefinition) *CardInstance {
	c := NewCardInstance(d, p.Role)
	p.Graveyard = append(p.Graveyard, c)
	return c
}

func play(t *testing.T, e *Engine, c *CardInstance, mods ...func(*Action)) {
	t.Helper()
	a := Action{Kind: ActionPlayCard, Actor: e.State().ActivePlayer, CardID: c.InstanceID}
	for _, m := range mods {
		m(&a)
	}
	require.NoError(t, e.ApplyAction(a))
}

func onRow(r Row) func(*Action) {
	return func(a *Action) { a.TargetRow = &r }
}

func targeting(c *CardInstance) func(*Action) {
	return func(a *Action) { a.TargetID = c.InstanceID }
}

func ids(cards []*CardInstance) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.InstanceID)
	}
	return out
}

// zoneCounts counts how many zones hold each instance.
func zoneCounts(s *GameBoardState) map[string]int {
	counts := map[string]int{}
	for _, side := range []*PlayerBoardState{&s.Host, &s.Guest} {
		for _, zone := range [][]*CardInstance{side.Deck, side.Hand, side.Graveyard, side.Melee, side.Ranged, side.Siege} {
			for _, c := range zone {
				counts[c.InstanceID]++
			}
		}
		if side.Leader != nil {
			counts[side.Leader.InstanceID]++
		}
	}
	for _, c := range s.Weather {
		counts[c.InstanceID]++
	}
	return counts
}
