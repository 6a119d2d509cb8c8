package game

import "errors"

// ActionKind names a player action.
type ActionKind string

const (
	ActionMulligan         ActionKind = "Mulligan"
	ActionPlayCard         ActionKind = "PlayCard"
	ActionPassTurn         ActionKind = "PassTurn"
	ActionUseLeaderAbility ActionKind = "UseLeaderAbility"
	ActionResign           ActionKind = "Resign"
)

// Action is one player request handed to the engine.
type Action struct {
	Kind      ActionKind
	Actor     string
	CardID    string
	TargetID  string
	TargetRow *Row
}

var (
	ErrUnknownPlayer      = errors.New("actor is not part of this match")
	ErrMatchFinished      = errors.New("match already finished")
	ErrNotYourTurn        = errors.New("actor is not the active player")
	ErrAlreadyPassed      = errors.New("actor already passed this round")
	ErrMulliganPhase      = errors.New("mulligans must be resolved before playing")
	ErrMulliganNotAllowed = errors.New("no mulligan available")
	ErrCardNotInHand      = errors.New("card is not in hand")
	ErrDeckEmpty          = errors.New("deck is empty")
	ErrLeaderUnavailable  = errors.New("leader ability unavailable")
	ErrUnknownAction      = errors.New("unknown action kind")
)
