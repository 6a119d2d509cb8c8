package game

import (
	"errors"
	"sync"
)

var (
	ErrLobbyFull     = errors.New("both seats are taken")
	ErrNicknameTaken = errors.New("nickname already seated")
	ErrNotSeated     = errors.New("seat is empty")
)

// Lobby pairs two identities into a match: seats are handed out in join
// order and the match starts once both seats are ready.
type Lobby struct {
	seats       map[Role]PlayerIdentity
	ready       map[Role]bool
	started     bool
	mu          sync.Mutex
	onGameStart func(cfg SessionConfig)
}

// NewLobby creates an empty lobby. onStart runs once per match, outside the lock.
func NewLobby(onStart func(cfg SessionConfig)) *Lobby {
	return &Lobby{
		seats:       make(map[Role]PlayerIdentity, 2),
		ready:       make(map[Role]bool, 2),
		onGameStart: onStart,
	}
}

// Seat assigns the first free seat, host before guest. The faction is
// normalized so the echoed session config shows the deck actually dealt.
func (l *Lobby) Seat(id PlayerIdentity) (Role, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if id.Nickname == "" {
		return "", ErrInvalidIdentity
	}
	for _, seated := range l.seats {
		if seated.Nickname == id.Nickname {
			return "", ErrNicknameTaken
		}
	}
	id.Faction = NormalizeFaction(id.Faction)
	for _, r := range []Role{RoleHost, RoleGuest} {
		if _, taken := l.seats[r]; !taken {
			l.seats[r] = id
			l.ready[r] = false
			return r, nil
		}
	}
	return "", ErrLobbyFull
}

// Leave frees a seat and cancels any readiness, including the opponent's.
func (l *Lobby) Leave(r Role) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.seats, r)
	delete(l.ready, r)
	l.resetLocked()
}

// Abandon drops readiness for both seats so the pair must ready up again.
func (l *Lobby) Abandon() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resetLocked()
}

func (l *Lobby) resetLocked() {
	for r := range l.ready {
		l.ready[r] = false
	}
	l.started = false
}

// MarkReady records readiness for a seated role.
func (l *Lobby) MarkReady(r Role) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seats[r]; !ok {
		return ErrNotSeated
	}
	l.ready[r] = true
	return nil
}

// TryStart fires onGameStart when both seats are ready, the match has not
// started yet and exactly two connections are live.
func (l *Lobby) TryStart(connected int) bool {
	l.mu.Lock()
	if l.started || connected != 2 || len(l.seats) != 2 || !l.ready[RoleHost] || !l.ready[RoleGuest] {
		l.mu.Unlock()
		return false
	}
	l.started = true
	cfg := l.configLocked()
	l.mu.Unlock()

	if l.onGameStart != nil {
		l.onGameStart(cfg)
	}
	return true
}

// Config returns the current pairing; an empty seat has a zero identity.
func (l *Lobby) Config() SessionConfig {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.configLocked()
}

func (l *Lobby) configLocked() SessionConfig {
	return SessionConfig{Host: l.seats[RoleHost], Guest: l.seats[RoleGuest]}
}

// Full reports whether both seats are taken.
func (l *Lobby) Full() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seats) == 2
}

// Ready reports the readiness of a role.
func (l *Lobby) Ready(r Role) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ready[r]
}

// Started reports whether the current pair has been handed to a match.
func (l *Lobby) Started() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started
}
