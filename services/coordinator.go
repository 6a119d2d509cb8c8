package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/bellapacxx/gwent-backend/game"
	"github.com/bellapacxx/gwent-backend/protocol"
	"github.com/bellapacxx/gwent-backend/utils/logger"
)

// MaxConnections is the number of peers a session holds.
const MaxConnections = 2

const (
	DefaultActionRate  = 20
	DefaultActionBurst = 40
	DefaultSendBuffer  = 32
)

var (
	ErrNotJoined        = errors.New("join before sending this message")
	ErrNoMatch          = errors.New("no match in progress")
	ErrMatchRunning     = errors.New("match already in progress")
	ErrIdentityMismatch = errors.New("nickname does not match the joined identity")
	ErrUnexpectedKind   = errors.New("unexpected message kind")
)

type binding struct {
	identity game.PlayerIdentity
	role     game.Role
}

// Coordinator pairs up to two connections into a match, owns the engine and
// broadcasts snapshots. Every join, ready and action transition runs under mu.
type Coordinator struct {
	mu       sync.Mutex
	clients  []*Client
	bindings map[*Client]binding
	lobby    *game.Lobby
	engine   *game.Engine
	catalog  *game.Catalog

	engineOpts  []game.Option
	actionRate  rate.Limit
	actionBurst int
	sendBuffer  int
	nextID      atomic.Uint64
}

// CoordinatorOption customizes a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithRateLimit bounds inbound envelopes per connection.
func WithRateLimit(perSecond float64, burst int) CoordinatorOption {
	return func(co *Coordinator) {
		co.actionRate = rate.Limit(perSecond)
		co.actionBurst = burst
	}
}

// WithSendBuffer sets the per-connection outbound queue length.
func WithSendBuffer(n int) CoordinatorOption {
	return func(co *Coordinator) { co.sendBuffer = n }
}

// WithEngineOptions passes options to every engine the coordinator creates.
func WithEngineOptions(opts ...game.Option) CoordinatorOption {
	return func(co *Coordinator) { co.engineOpts = append(co.engineOpts, opts...) }
}

func NewCoordinator(catalog *game.Catalog, opts ...CoordinatorOption) *Coordinator {
	if catalog == nil {
		catalog = game.BuiltinCatalog()
	}
	co := &Coordinator{
		bindings:    make(map[*Client]binding, MaxConnections),
		catalog:     catalog,
		actionRate:  DefaultActionRate,
		actionBurst: DefaultActionBurst,
		sendBuffer:  DefaultSendBuffer,
	}
	for _, opt := range opts {
		opt(co)
	}
	co.lobby = game.NewLobby(co.startMatch)
	return co
}

// Serve runs one connection until it closes or ctx is cancelled. A connection
// beyond MaxConnections is closed immediately without a handshake.
func (co *Coordinator) Serve(ctx context.Context, conn io.ReadWriteCloser, remote string) {
	co.mu.Lock()
	if len(co.clients) >= MaxConnections {
		co.mu.Unlock()
		logger.Warnf("[Coordinator] Session full, closing connection from %s", remote)
		conn.Close()
		return
	}
	c := &Client{
		id:          co.nextID.Add(1),
		conn:        conn,
		remote:      remote,
		coordinator: co,
		send:        make(chan []byte, co.sendBuffer),
		limiter:     rate.NewLimiter(co.actionRate, co.actionBurst),
		done:        make(chan struct{}),
	}
	co.clients = append(co.clients, c)
	total := len(co.clients)
	co.mu.Unlock()

	logger.Infof("[Coordinator] Client %d connected from %s (total=%d)", c.id, remote, total)

	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.done:
		}
	}()
	go c.writePump()
	c.readPump(ctx)
}

func (co *Coordinator) removeClient(c *Client) {
	co.mu.Lock()
	defer co.mu.Unlock()

	for i, other := range co.clients {
		if other == c {
			co.clients = append(co.clients[:i:i], co.clients[i+1:]...)
			break
		}
	}
	b, bound := co.bindings[c]
	if !bound {
		return
	}
	delete(co.bindings, c)
	co.lobby.Leave(b.role)

	if co.engine != nil {
		if !co.engine.Finished() {
			logger.Infof("[Coordinator] %s disconnected, match abandoned", b.identity.Nickname)
		}
		co.engine = nil
	}
	// Remaining peers learn the seat is free through a refreshed JoinAccepted.
	cfg := co.lobby.Config()
	for _, other := range co.clients {
		if ob, ok := co.bindings[other]; ok {
			co.sendTo(other, protocol.KindJoinAccepted, protocol.JoinAccepted{
				SessionFull:   false,
				SessionConfig: cfg,
				AssignedRole:  ob.role,
			})
		}
	}
}

// handle dispatches one inbound envelope.
func (co *Coordinator) handle(c *Client, env protocol.Envelope) {
	co.mu.Lock()
	defer co.mu.Unlock()

	switch env.Kind {
	case protocol.KindJoinRequest:
		co.handleJoin(c, env)
	case protocol.KindReady:
		co.handleReady(c, env)
	case protocol.KindGameAction:
		co.handleAction(c, env)
	default:
		co.reject(c, env.Kind, ErrUnexpectedKind)
	}
}

func (co *Coordinator) handleJoin(c *Client, env protocol.Envelope) {
	if b, ok := co.bindings[c]; ok {
		co.acceptJoin(c, b.role)
		return
	}
	var req protocol.JoinRequest
	if err := env.Decode(&req); err != nil {
		co.reject(c, env.Kind, err)
		return
	}
	role, err := co.lobby.Seat(req.Identity)
	if err != nil {
		logger.Infof("[Coordinator] Client %d join refused: %v", c.id, err)
		co.reject(c, env.Kind, err)
		return
	}
	cfg := co.lobby.Config()
	identity := cfg.Host
	if role == game.RoleGuest {
		identity = cfg.Guest
	}
	co.bindings[c] = binding{identity: identity, role: role}
	logger.Infof("[Coordinator] Client %d joined as %s (%s, %s)", c.id, role, identity.Nickname, identity.Faction)
	co.acceptJoin(c, role)
}

func (co *Coordinator) acceptJoin(c *Client, role game.Role) {
	co.sendTo(c, protocol.KindJoinAccepted, protocol.JoinAccepted{
		SessionFull:   co.lobby.Full(),
		SessionConfig: co.lobby.Config(),
		AssignedRole:  role,
	})
}

func (co *Coordinator) handleReady(c *Client, env protocol.Envelope) {
	b, ok := co.bindings[c]
	if !ok {
		co.reject(c, env.Kind, ErrNotJoined)
		return
	}
	var ready protocol.Ready
	if err := env.Decode(&ready); err != nil {
		co.reject(c, env.Kind, err)
		return
	}
	if ready.Nickname != b.identity.Nickname {
		logger.Warnf("[Coordinator] Client %d sent ready as %q but joined as %q", c.id, ready.Nickname, b.identity.Nickname)
		co.reject(c, env.Kind, ErrIdentityMismatch)
		return
	}
	if co.engine != nil && !co.engine.Finished() {
		co.reject(c, env.Kind, ErrMatchRunning)
		return
	}
	if err := co.lobby.MarkReady(b.role); err != nil {
		co.reject(c, env.Kind, err)
		return
	}
	logger.Infof("[Coordinator] %s is ready", b.identity.Nickname)
	co.lobby.TryStart(len(co.clients))
}

// startMatch runs from Lobby.TryStart with mu held.
func (co *Coordinator) startMatch(cfg game.SessionConfig) {
	opts := append([]game.Option{game.WithCatalog(co.catalog)}, co.engineOpts...)
	engine, err := game.NewEngine(cfg, opts...)
	if err != nil {
		logger.Errorf("[Coordinator] Failed to start match: %v", err)
		co.lobby.Abandon()
		for _, c := range co.clients {
			co.reject(c, protocol.KindReady, err)
		}
		return
	}
	co.engine = engine
	logger.Infof("[Coordinator] Match started: %s (%s) vs %s (%s)",
		cfg.Host.Nickname, cfg.Host.Faction, cfg.Guest.Nickname, cfg.Guest.Faction)
	co.broadcast(protocol.KindMatchStart, protocol.MatchStart{SessionConfig: cfg})
	co.broadcastState()
}

func (co *Coordinator) handleAction(c *Client, env protocol.Envelope) {
	if co.engine == nil {
		co.reject(c, env.Kind, ErrNoMatch)
		return
	}
	var payload protocol.GameAction
	if err := env.Decode(&payload); err != nil {
		co.reject(c, env.Kind, err)
		return
	}
	b, ok := co.bindings[c]
	if !ok || payload.ActingNickname != b.identity.Nickname {
		logger.Warnf("[Coordinator] Client %d tried to act as %q, dropping", c.id, payload.ActingNickname)
		co.reject(c, env.Kind, ErrIdentityMismatch)
		return
	}

	wasFinished := co.engine.Finished()
	if err := co.engine.ApplyAction(payload.ToAction()); err != nil {
		logger.Infof("[Coordinator] %s %s rejected: %v", b.identity.Nickname, payload.ActionKind, err)
		co.reject(c, env.Kind, err)
	}
	co.broadcastState()

	// Only the finishing action frees the lobby; later actions must not
	// clear readiness collected for a rematch.
	if st := co.engine.State(); st.Finished && !wasFinished {
		if st.Winner != nil {
			logger.Infof("[Coordinator] Match finished, winner %s", *st.Winner)
		} else {
			logger.Infof("[Coordinator] Match finished in a draw")
		}
		co.lobby.Abandon()
	}
}

func (co *Coordinator) reject(c *Client, ref protocol.Kind, err error) {
	co.sendTo(c, protocol.KindActionRejected, protocol.ActionRejected{RefKind: ref, Reason: err.Error()})
}

func (co *Coordinator) sendTo(c *Client, kind protocol.Kind, payload any) {
	msg, err := protocol.MarshalPayload(kind, payload)
	if err != nil {
		logger.Errorf("[Coordinator] %v", err)
		return
	}
	c.enqueue(msg)
}

// broadcast is best effort: a full or closed peer never blocks the other.
func (co *Coordinator) broadcast(kind protocol.Kind, payload any) {
	msg, err := protocol.MarshalPayload(kind, payload)
	if err != nil {
		logger.Errorf("[Coordinator] %v", err)
		return
	}
	for _, c := range co.clients {
		c.enqueue(msg)
	}
}

func (co *Coordinator) broadcastState() {
	co.broadcast(protocol.KindStateUpdate, protocol.StateUpdate{BoardState: co.engine.State()})
}

// SessionStatus is a read-only summary of the session.
type SessionStatus struct {
	Connections  int                `json:"connections"`
	Session      game.SessionConfig `json:"session"`
	HostReady    bool               `json:"hostReady"`
	GuestReady   bool               `json:"guestReady"`
	InMatch      bool               `json:"inMatch"`
	Round        int                `json:"round,omitempty"`
	ActivePlayer string             `json:"activePlayer,omitempty"`
	Finished     bool               `json:"finished"`
	Winner       *string            `json:"winner,omitempty"`
}

// Status reports the current session state.
func (co *Coordinator) Status() SessionStatus {
	co.mu.Lock()
	defer co.mu.Unlock()

	st := SessionStatus{
		Connections: len(co.clients),
		Session:     co.lobby.Config(),
		HostReady:   co.lobby.Ready(game.RoleHost),
		GuestReady:  co.lobby.Ready(game.RoleGuest),
	}
	if co.engine != nil {
		s := co.engine.State()
		st.InMatch = !s.Finished
		st.Round = s.Round
		st.ActivePlayer = s.ActivePlayer
		st.Finished = s.Finished
		if s.Winner != nil {
			w := *s.Winner
			st.Winner = &w
		}
	}
	return st
}

// Catalog returns the catalog matches are dealt from.
func (co *Coordinator) Catalog() *game.Catalog {
	return co.catalog
}
