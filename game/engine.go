package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrInvalidIdentity   = errors.New("player identity needs a nickname")
	ErrDuplicateNickname = errors.New("both players use the same nickname")
)

// Engine is the rules state machine and the only writer of its GameBoardState.
// It is not safe for concurrent use; callers serialize access.
type Engine struct {
	state   *GameBoardState
	rng     *rand.Rand
	catalog *Catalog
}

// Option customizes engine construction.
type Option func(*Engine)

// WithRand injects the randomness source used for shuffles, mulligans,
// the starting coin flip and round bonuses.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithCatalog selects the catalog decks are built from.
func WithCatalog(c *Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// NormalizeFaction maps an unplayable faction choice to the default deck.
func NormalizeFaction(f Faction) Faction {
	if f.Playable() {
		return f
	}
	return FactionNorthernRealms
}

// NewEngine deals a fresh match for the two identities in cfg.
func NewEngine(cfg SessionConfig, opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.catalog == nil {
		e.catalog = BuiltinCatalog()
	}

	if cfg.Host.Nickname == "" || cfg.Guest.Nickname == "" {
		return nil, ErrInvalidIdentity
	}
	if cfg.Host.Nickname == cfg.Guest.Nickname {
		return nil, ErrDuplicateNickname
	}
	cfg.Host.Faction = NormalizeFaction(cfg.Host.Faction)
	cfg.Guest.Faction = NormalizeFaction(cfg.Guest.Faction)

	e.state = &GameBoardState{
		Host:    newPlayerBoard(cfg.Host, RoleHost),
		Guest:   newPlayerBoard(cfg.Guest, RoleGuest),
		Weather: []*CardInstance{},
		Round:   1,
		Log:     []string{},
	}

	factory := NewDeckFactory(e.catalog)
	for _, side := range []*PlayerBoardState{&e.state.Host, &e.state.Guest} {
		deck, err := factory.BuildDeck(side.Faction, side.Role)
		if err != nil {
			return nil, fmt.Errorf("build %s deck: %w", side.Role, err)
		}
		leader, err := factory.BuildLeader(side.Faction, side.Role)
		if err != nil {
			return nil, fmt.Errorf("build %s leader: %w", side.Role, err)
		}
		Shuffle(e.rng, deck)
		side.Deck = deck
		side.Leader = leader
		side.draw(OpeningHandSize)
	}

	e.state.ActivePlayer = e.startingPlayer()
	e.state.logf("Match started. %s vs %s, %s goes first.", e.state.Host.Nickname, e.state.Guest.Nickname, e.state.ActivePlayer)
	Recalculate(e.state)
	return e, nil
}

// startingPlayer lets an unopposed Scoia'tael side open, otherwise flips a coin.
func (e *Engine) startingPlayer() string {
	host, guest := &e.state.Host, &e.state.Guest
	hostST := host.Faction == FactionScoiatael
	guestST := guest.Faction == FactionScoiatael
	switch {
	case hostST && !guestST:
		return host.Nickname
	case guestST && !hostST:
		return guest.Nickname
	}
	if e.rng.Intn(2) == 0 {
		return host.Nickname
	}
	return guest.Nickname
}

// State exposes the live board. Callers must not mutate it.
func (e *Engine) State() *GameBoardState {
	return e.state
}

// Finished reports whether the match has ended.
func (e *Engine) Finished() bool {
	return e.state.Finished
}

// ApplyAction validates and applies one action. A returned error means the
// action was dropped and the state is unchanged.
func (e *Engine) ApplyAction(a Action) error {
	actor, opponent, err := e.validate(a)
	if err != nil {
		return err
	}
	switch a.Kind {
	case ActionMulligan:
		return e.mulligan(actor, a)
	case ActionPlayCard:
		return e.playCard(actor, opponent, a)
	case ActionPassTurn:
		e.pass(actor, opponent)
	case ActionUseLeaderAbility:
		return e.useLeader(actor)
	case ActionResign:
		e.resign(actor, opponent)
	}
	return nil
}

// validate is the single gate every action passes before dispatch.
func (e *Engine) validate(a Action) (*PlayerBoardState, *PlayerBoardState, error) {
	actor := e.state.Player(a.Actor)
	if actor == nil {
		return nil, nil, ErrUnknownPlayer
	}
	opponent := e.state.Side(actor.Role.Other())
	if e.state.Finished {
		return nil, nil, ErrMatchFinished
	}
	switch a.Kind {
	case ActionMulligan, ActionPlayCard, ActionPassTurn, ActionUseLeaderAbility, ActionResign:
	default:
		return nil, nil, fmt.Errorf("%q: %w", a.Kind, ErrUnknownAction)
	}
	if a.Kind == ActionMulligan || a.Kind == ActionResign {
		return actor, opponent, nil
	}
	if e.state.ActivePlayer != actor.Nickname {
		return nil, nil, ErrNotYourTurn
	}
	if actor.Passed {
		return nil, nil, ErrAlreadyPassed
	}
	if e.state.Round == 1 && actor.MulligansRemaining > 0 {
		return nil, nil, ErrMulliganPhase
	}
	return actor, opponent, nil
}

func (e *Engine) mulligan(p *PlayerBoardState, a Action) error {
	if e.state.Round != 1 || p.MulligansRemaining <= 0 {
		return ErrMulliganNotAllowed
	}
	if a.CardID == "" {
		p.MulligansRemaining = 0
		e.state.logf("%s keeps their hand.", p.Nickname)
		return nil
	}
	if findCard(p.Hand, a.CardID) == nil {
		return ErrCardNotInHand
	}
	if len(p.Deck) == 0 {
		return ErrDeckEmpty
	}

	card := removeCard(&p.Hand, a.CardID)
	at := e.rng.Intn(len(p.Deck) + 1)
	p.Deck = append(p.Deck[:at:at], append([]*CardInstance{card}, p.Deck[at:]...)...)
	p.draw(1)
	p.MulligansRemaining--

	Recalculate(e.state)
	e.state.logf("%s mulliganed %s.", p.Nickname, card.Definition.Name)
	return nil
}

func (e *Engine) playCard(actor, opponent *PlayerBoardState, a Action) error {
	if a.CardID == "" || findCard(actor.Hand, a.CardID) == nil {
		return ErrCardNotInHand
	}
	card := removeCard(&actor.Hand, a.CardID)

	pc := &playContext{actor: actor, opponent: opponent, card: card, action: a}
	playHandlers[classifyPlay(card.Definition)](e, pc)

	Recalculate(e.state)
	e.state.logf("%s played %s.", actor.Nickname, card.Definition.Name)
	e.switchTurn(actor)
	return nil
}

func (e *Engine) pass(actor, opponent *PlayerBoardState) {
	actor.Passed = true
	e.state.logf("%s passed.", actor.Nickname)
	if opponent.Passed {
		e.endRound()
		return
	}
	e.switchTurn(actor)
}

func (e *Engine) useLeader(p *PlayerBoardState) error {
	if p.Leader == nil || p.LeaderUsed {
		return ErrLeaderUnavailable
	}
	if p.Leader.Definition.HasAbility(AbilityLeaderDrawExtraCard) {
		p.draw(1)
	}
	p.LeaderUsed = true
	Recalculate(e.state)
	e.state.logf("%s used leader ability %s.", p.Nickname, p.Leader.Definition.Name)
	e.switchTurn(p)
	return nil
}

func (e *Engine) resign(actor, opponent *PlayerBoardState) {
	actor.LifeTokens = 0
	e.finish(&opponent.Nickname)
	e.state.logf("%s surrendered. %s wins the match.", actor.Nickname, opponent.Nickname)
}

// switchTurn hands the turn to the opponent unless the opponent already
// passed and the actor has not, in which case the actor keeps playing.
func (e *Engine) switchTurn(actor *PlayerBoardState) {
	opponent := e.state.Side(actor.Role.Other())
	if opponent.Passed && !actor.Passed {
		e.state.ActivePlayer = actor.Nickname
		return
	}
	e.state.ActivePlayer = opponent.Nickname
}

func (e *Engine) finish(winner *string) {
	e.state.Finished = true
	if winner != nil {
		w := *winner
		e.state.Winner = &w
		return
	}
	e.state.Winner = nil
}
