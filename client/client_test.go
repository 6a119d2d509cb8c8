package client

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/gwent-backend/game"
	"github.com/bellapacxx/gwent-backend/protocol"
)

func closedAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestDialGivesUp(t *testing.T) {
	start := time.Now()
	_, err := Dial(context.Background(), closedAddr(t), WithAttempts(3), WithRetryDelay(10*time.Millisecond))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDialHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Dial(ctx, closedAddr(t), WithAttempts(5), WithRetryDelay(time.Second))
	assert.ErrorIs(t, err, context.Canceled)
}

// fakeServer answers each frame with the replies reply returns.
func fakeServer(t *testing.T, reply func(protocol.Envelope) []protocol.Envelope) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		dec, enc := protocol.NewDecoder(conn), protocol.NewEncoder(conn)
		for {
			env, err := dec.Next()
			if err != nil {
				return
			}
			for _, out := range reply(env) {
				if enc.Encode(out) != nil {
					return
				}
			}
		}
	}()
	return ln.Addr().String()
}

func mustEnvelope(t *testing.T, kind protocol.Kind, payload any) protocol.Envelope {
	t.Helper()
	env, err := protocol.NewEnvelope(kind, payload)
	require.NoError(t, err)
	return env
}

func TestJoinAndSubmitUseNickname(t *testing.T) {
	actions := make(chan protocol.GameAction, 1)
	addr := fakeServer(t, func(env protocol.Envelope) []protocol.Envelope {
		switch env.Kind {
		case protocol.KindJoinRequest:
			var req protocol.JoinRequest
			_ = env.Decode(&req)
			return []protocol.Envelope{
				mustEnvelope(t, protocol.KindStateUpdate, protocol.StateUpdate{}),
				mustEnvelope(t, protocol.KindJoinAccepted, protocol.JoinAccepted{
					SessionConfig: game.SessionConfig{Host: req.Identity},
					AssignedRole:  game.RoleHost,
				}),
			}
		case protocol.KindGameAction:
			var a protocol.GameAction
			_ = env.Decode(&a)
			actions <- a
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cl, err := Dial(ctx, addr, WithAttempts(2), WithRetryDelay(10*time.Millisecond))
	require.NoError(t, err)
	defer cl.Close()

	acc, err := cl.Join(ctx, game.PlayerIdentity{Nickname: "alice", Faction: game.FactionMonsters})
	require.NoError(t, err)
	assert.Equal(t, game.RoleHost, acc.AssignedRole)
	assert.Equal(t, "alice", acc.SessionConfig.Host.Nickname)

	require.NoError(t, cl.Submit(game.Action{Kind: game.ActionPassTurn}))
	select {
	case a := <-actions:
		assert.Equal(t, "alice", a.ActingNickname)
		assert.Equal(t, game.ActionPassTurn, a.ActionKind)
	case <-ctx.Done():
		t.Fatal("action never arrived")
	}
}

func TestJoinRejected(t *testing.T) {
	addr := fakeServer(t, func(env protocol.Envelope) []protocol.Envelope {
		return []protocol.Envelope{mustEnvelope(t, protocol.KindActionRejected, protocol.ActionRejected{
			RefKind: env.Kind,
			Reason:  "nickname already seated",
		})}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cl, err := Dial(ctx, addr)
	require.NoError(t, err)
	defer cl.Close()

	_, err = cl.Join(ctx, game.PlayerIdentity{Nickname: "alice"})
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "nickname already seated")
}

func TestAwaitReportsClosedConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		if conn, err := ln.Accept(); err == nil {
			conn.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cl, err := Dial(ctx, ln.Addr().String())
	require.NoError(t, err)
	defer cl.Close()

	_, err = cl.AwaitState(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}
