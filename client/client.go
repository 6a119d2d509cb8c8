// Package client is a small Go client for the session protocol, used by
// external front ends and by the server's own tests.
package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bellapacxx/gwent-backend/game"
	"github.com/bellapacxx/gwent-backend/protocol"
)

const (
	DefaultAttempts   = 20
	DefaultRetryDelay = 250 * time.Millisecond
	DefaultBuffer     = 64
)

var (
	ErrClosed   = errors.New("connection closed")
	ErrRejected = errors.New("rejected by server")
)

type dialConfig struct {
	attempts int
	delay    time.Duration
	buffer   int
}

// DialOption tunes Dial.
type DialOption func(*dialConfig)

func WithAttempts(n int) DialOption {
	return func(c *dialConfig) { c.attempts = n }
}

func WithRetryDelay(d time.Duration) DialOption {
	return func(c *dialConfig) { c.delay = d }
}

func WithBuffer(n int) DialOption {
	return func(c *dialConfig) { c.buffer = n }
}

// Client is one peer connection to a session server.
type Client struct {
	conn      net.Conn
	enc       *protocol.Encoder
	envelopes chan protocol.Envelope
	done      chan struct{}
	once      sync.Once

	mu       sync.Mutex
	identity game.PlayerIdentity
	readErr  error
}

// Dial connects to addr, retrying a fixed number of times with a fixed delay
// while the server comes up.
func Dial(ctx context.Context, addr string, opts ...DialOption) (*Client, error) {
	cfg := dialConfig{attempts: DefaultAttempts, delay: DefaultRetryDelay, buffer: DefaultBuffer}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		d       net.Dialer
		conn    net.Conn
		lastErr error
	)
	for attempt := 1; attempt <= cfg.attempts; attempt++ {
		c, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn = c
			break
		}
		lastErr = err
		if attempt == cfg.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.delay):
		}
	}
	if conn == nil {
		return nil, fmt.Errorf("connect to %s after %d attempts: %w", addr, cfg.attempts, lastErr)
	}

	cl := &Client{
		conn:      conn,
		enc:       protocol.NewEncoder(conn),
		envelopes: make(chan protocol.Envelope, cfg.buffer),
		done:      make(chan struct{}),
	}
	go cl.readLoop()
	return cl, nil
}

func (c *Client) readLoop() {
	defer close(c.envelopes)
	dec := protocol.NewDecoder(c.conn)
	for {
		env, err := dec.Next()
		if err != nil {
			if protocol.IsRecoverable(err) {
				continue
			}
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			return
		}
		select {
		case c.envelopes <- env:
		case <-c.done:
			return
		}
	}
}

// Envelopes streams every inbound envelope. The channel closes when the
// connection drops.
func (c *Client) Envelopes() <-chan protocol.Envelope {
	return c.envelopes
}

// Err returns the error that ended the read loop, if any.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

func (c *Client) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *Client) send(kind protocol.Kind, payload any) error {
	env, err := protocol.NewEnvelope(kind, payload)
	if err != nil {
		return err
	}
	return c.enc.Encode(env)
}

// Join announces identity and waits for the seat assignment.
func (c *Client) Join(ctx context.Context, identity game.PlayerIdentity) (protocol.JoinAccepted, error) {
	var accepted protocol.JoinAccepted
	if err := c.send(protocol.KindJoinRequest, protocol.JoinRequest{Identity: identity}); err != nil {
		return accepted, err
	}
	env, err := c.awaitReply(ctx, protocol.KindJoinAccepted, protocol.KindJoinRequest)
	if err != nil {
		return accepted, err
	}
	if err := env.Decode(&accepted); err != nil {
		return accepted, err
	}
	c.mu.Lock()
	c.identity = identity
	c.mu.Unlock()
	return accepted, nil
}

// Ready tells the server this peer is ready to start.
func (c *Client) Ready() error {
	return c.send(protocol.KindReady, protocol.Ready{Nickname: c.nickname()})
}

// Submit sends an action. An empty actor defaults to the joined nickname.
func (c *Client) Submit(a game.Action) error {
	if a.Actor == "" {
		a.Actor = c.nickname()
	}
	return c.send(protocol.KindGameAction, protocol.GameAction{
		ActionKind:       a.Kind,
		ActingNickname:   a.Actor,
		CardInstanceID:   a.CardID,
		TargetInstanceID: a.TargetID,
		TargetRow:        a.TargetRow,
	})
}

// SendRaw writes an arbitrary envelope.
func (c *Client) SendRaw(env protocol.Envelope) error {
	return c.enc.Encode(env)
}

func (c *Client) nickname() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity.Nickname
}

// Await discards envelopes until one of kind arrives.
func (c *Client) Await(ctx context.Context, kind protocol.Kind) (protocol.Envelope, error) {
	for {
		select {
		case <-ctx.Done():
			return protocol.Envelope{}, ctx.Err()
		case env, ok := <-c.envelopes:
			if !ok {
				return protocol.Envelope{}, ErrClosed
			}
			if env.Kind == kind {
				return env, nil
			}
		}
	}
}

// AwaitState waits for the next snapshot.
func (c *Client) AwaitState(ctx context.Context) (*game.GameBoardState, error) {
	env, err := c.Await(ctx, protocol.KindStateUpdate)
	if err != nil {
		return nil, err
	}
	var update protocol.StateUpdate
	if err := env.Decode(&update); err != nil {
		return nil, err
	}
	return update.BoardState, nil
}

// awaitReply waits for kind, failing on a rejection of ref.
func (c *Client) awaitReply(ctx context.Context, kind, ref protocol.Kind) (protocol.Envelope, error) {
	for {
		select {
		case <-ctx.Done():
			return protocol.Envelope{}, ctx.Err()
		case env, ok := <-c.envelopes:
			if !ok {
				return protocol.Envelope{}, ErrClosed
			}
			switch env.Kind {
			case kind:
				return env, nil
			case protocol.KindActionRejected:
				var rej protocol.ActionRejected
				if err := env.Decode(&rej); err == nil && rej.RefKind == ref {
					return env, fmt.Errorf("%s: %s: %w", ref, rej.Reason, ErrRejected)
				}
			}
		}
	}
}
