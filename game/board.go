package game

import "fmt"

const (
	// StartingLifeTokens is the number of round losses a player can absorb.
	StartingLifeTokens = 2
	// StartingMulligans is the number of hand exchanges allowed in round one.
	StartingMulligans = 2
	// MaxLogEntries bounds the in-state game log; the oldest entry is dropped first.
	MaxLogEntries = 200
)

// Role is the seat a connection holds in the session.
type Role string

const (
	RoleHost  Role = "host"
	RoleGuest Role = "guest"
)

// Other returns the opposite seat.
func (r Role) Other() Role {
	if r == RoleHost {
		return RoleGuest
	}
	return RoleHost
}

// PlayerIdentity is what a peer announces when joining.
type PlayerIdentity struct {
	Nickname string  `json:"nickname"`
	Faction  Faction `json:"factionChoice"`
}

// SessionConfig pairs both identities of a match.
type SessionConfig struct {
	Host  PlayerIdentity `json:"hostIdentity"`
	Guest PlayerIdentity `json:"guestIdentity"`
}

// PlayerBoardState holds one side's zones and counters.
type PlayerBoardState struct {
	Nickname           string          `json:"nickname"`
	Role               Role            `json:"role"`
	Faction            Faction         `json:"faction"`
	Deck               []*CardInstance `json:"deck"`
	Hand               []*CardInstance `json:"hand"`
	Graveyard          []*CardInstance `json:"graveyard"`
	Melee              []*CardInstance `json:"melee"`
	Ranged             []*CardInstance `json:"ranged"`
	Siege              []*CardInstance `json:"siege"`
	Leader             *CardInstance   `json:"leader"`
	LeaderUsed         bool            `json:"leaderUsed"`
	LifeTokens         int             `json:"lifeTokens"`
	RoundsWon          int             `json:"roundsWon"`
	Passed             bool            `json:"passed"`
	MulligansRemaining int             `json:"mulligansRemaining"`
}

func newPlayerBoard(id PlayerIdentity, role Role) PlayerBoardState {
	return PlayerBoardState{
		Nickname:           id.Nickname,
		Role:               role,
		Faction:            id.Faction,
		Deck:               []*CardInstance{},
		Hand:               []*CardInstance{},
		Graveyard:          []*CardInstance{},
		Melee:              []*CardInstance{},
		Ranged:             []*CardInstance{},
		Siege:              []*CardInstance{},
		LifeTokens:         StartingLifeTokens,
		MulligansRemaining: StartingMulligans,
	}
}

// Row returns a pointer to the slice backing the given lane.
func (p *PlayerBoardState) Row(r Row) *[]*CardInstance {
	switch r {
	case RowRanged:
		return &p.Ranged
	case RowSiege:
		return &p.Siege
	default:
		return &p.Melee
	}
}

// BoardCards returns every card on the player's three rows in board order.
func (p *PlayerBoardState) BoardCards() []*CardInstance {
	out := make([]*CardInstance, 0, len(p.Melee)+len(p.Ranged)+len(p.Siege))
	out = append(out, p.Melee...)
	out = append(out, p.Ranged...)
	out = append(out, p.Siege...)
	return out
}

// RowStrength sums the current strength of one lane.
func (p *PlayerBoardState) RowStrength(r Row) int {
	total := 0
	for _, c := range *p.Row(r) {
		total += c.CurrentStrength
	}
	return total
}

// TotalStrength sums all three lanes.
func (p *PlayerBoardState) TotalStrength() int {
	return p.RowStrength(RowMelee) + p.RowStrength(RowRanged) + p.RowStrength(RowSiege)
}

// draw moves up to n cards from the front of the deck into the hand.
func (p *PlayerBoardState) draw(n int) int {
	drawn := 0
	for ; drawn < n && len(p.Deck) > 0; drawn++ {
		top := p.Deck[0]
		p.Deck = p.Deck[1:]
		p.Hand = append(p.Hand, top)
	}
	return drawn
}

// place puts a card at the end of the given lane.
func (p *PlayerBoardState) place(c *CardInstance, r Row) {
	row := p.Row(r)
	*row = append(*row, c)
	c.OnBoard = true
}

// discard moves a card into the graveyard.
func (p *PlayerBoardState) discard(c *CardInstance) {
	c.leaveBoard()
	p.Graveyard = append(p.Graveyard, c)
}

// clearRows sends every board card except keep to the graveyard.
func (p *PlayerBoardState) clearRows(keep *CardInstance) {
	for _, r := range Rows {
		row := p.Row(r)
		kept := []*CardInstance{}
		for _, c := range *row {
			if c == keep {
				kept = append(kept, c)
				continue
			}
			p.discard(c)
		}
		*row = kept
	}
}

// findOnBoard locates a card on the player's rows.
func (p *PlayerBoardState) findOnBoard(id string) (*CardInstance, Row, int) {
	for _, r := range Rows {
		for i, c := range *p.Row(r) {
			if c.InstanceID == id {
				return c, r, i
			}
		}
	}
	return nil, "", -1
}

// removeCard deletes the card with the given id from zone and returns it.
func removeCard(zone *[]*CardInstance, id string) *CardInstance {
	for i, c := range *zone {
		if c.InstanceID == id {
			*zone = append((*zone)[:i:i], (*zone)[i+1:]...)
			return c
		}
	}
	return nil
}

func findCard(zone []*CardInstance, id string) *CardInstance {
	for _, c := range zone {
		if c.InstanceID == id {
			return c
		}
	}
	return nil
}

// GameBoardState is the authoritative match state broadcast to both peers.
type GameBoardState struct {
	Host         PlayerBoardState `json:"host"`
	Guest        PlayerBoardState `json:"guest"`
	Weather      []*CardInstance  `json:"weather"`
	ActivePlayer string           `json:"activePlayer"`
	Round        int              `json:"round"`
	Finished     bool             `json:"finished"`
	Winner       *string          `json:"winner"`
	Log          []string         `json:"log"`
}

// Side returns the board of the given seat.
func (s *GameBoardState) Side(r Role) *PlayerBoardState {
	if r == RoleGuest {
		return &s.Guest
	}
	return &s.Host
}

// Player resolves a nickname to its board, or nil when it names neither side.
func (s *GameBoardState) Player(nickname string) *PlayerBoardState {
	switch nickname {
	case s.Host.Nickname:
		return &s.Host
	case s.Guest.Nickname:
		return &s.Guest
	}
	return nil
}

// Opponent returns the other side of nickname, or nil for an unknown nickname.
func (s *GameBoardState) Opponent(nickname string) *PlayerBoardState {
	p := s.Player(nickname)
	if p == nil {
		return nil
	}
	return s.Side(p.Role.Other())
}

func (s *GameBoardState) logf(format string, args ...any) {
	s.Log = append(s.Log, fmt.Sprintf(format, args...))
	if over := len(s.Log) - MaxLogEntries; over > 0 {
		s.Log = append([]string(nil), s.Log[over:]...)
	}
}
