package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/bellapacxx/gwent-backend/game"
)

// Kind discriminates envelope payloads.
type Kind string

const (
	KindJoinRequest    Kind = "PlayerJoinRequest"
	KindJoinAccepted   Kind = "PlayerJoinAccepted"
	KindReady          Kind = "PlayerReady"
	KindMatchStart     Kind = "BothPlayersReadyStartGame"
	KindGameAction     Kind = "GameAction"
	KindStateUpdate    Kind = "GameStateUpdate"
	KindActionRejected Kind = "ActionRejected"
)

// Envelope is one frame on the wire.
type Envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type JoinRequest struct {
	Identity game.PlayerIdentity `json:"identity"`
}

type JoinAccepted struct {
	SessionFull   bool               `json:"sessionFull"`
	SessionConfig game.SessionConfig `json:"sessionConfig"`
	AssignedRole  game.Role          `json:"assignedRole"`
}

type Ready struct {
	Nickname string `json:"nickname"`
}

type MatchStart struct {
	SessionConfig game.SessionConfig `json:"sessionConfig"`
}

// GameAction is the wire form of game.Action.
type GameAction struct {
	ActionKind       game.ActionKind `json:"actionKind"`
	ActingNickname   string          `json:"actingNickname"`
	CardInstanceID   string          `json:"cardInstanceId,omitempty"`
	TargetInstanceID string          `json:"targetInstanceId,omitempty"`
	TargetRow        *game.Row       `json:"targetRow,omitempty"`
}

// ToAction converts the payload for the engine.
func (g GameAction) ToAction() game.Action {
	return game.Action{
		Kind:      g.ActionKind,
		Actor:     g.ActingNickname,
		CardID:    g.CardInstanceID,
		TargetID:  g.TargetInstanceID,
		TargetRow: g.TargetRow,
	}
}

type StateUpdate struct {
	BoardState *game.GameBoardState `json:"boardState"`
}

// ActionRejected tells one peer why its last message was dropped.
type ActionRejected struct {
	RefKind Kind   `json:"refKind"`
	Reason  string `json:"reason"`
}

// NewEnvelope wraps payload under kind.
func NewEnvelope(kind Kind, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return Envelope{Kind: kind, Payload: raw}, nil
}

// Decode unmarshals the payload into v.
func (e Envelope) Decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%s: empty payload: %w", e.Kind, ErrMalformedFrame)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("%s payload: %v: %w", e.Kind, err, ErrMalformedFrame)
	}
	return nil
}
