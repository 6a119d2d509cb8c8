package services

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"golang.org/x/time/rate"

	"github.com/bellapacxx/gwent-backend/protocol"
	"github.com/bellapacxx/gwent-backend/utils/logger"
)

// Client is one live peer connection: a reader loop feeding the coordinator
// and a writer loop draining the send queue.
type Client struct {
	id          uint64
	conn        io.ReadWriteCloser
	remote      string
	coordinator *Coordinator
	send        chan []byte
	limiter     *rate.Limiter
	once        sync.Once
	done        chan struct{}
}

func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// enqueue queues a frame without blocking; a full queue drops it.
func (c *Client) enqueue(msg []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- msg:
		return true
	default:
		logger.Warnf("[Client %d] send queue full, dropping %d bytes", c.id, len(msg))
		return false
	}
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.coordinator.removeClient(c)
		c.Close()
	}()

	dec := protocol.NewDecoder(c.conn)
	for {
		env, err := dec.Next()
		if err != nil {
			if protocol.IsRecoverable(err) {
				logger.Warnf("[Client %d] dropped frame: %v", c.id, err)
				continue
			}
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
				logger.Infof("[Client %d] disconnected", c.id)
			} else {
				logger.Warnf("[Client %d] read error: %v", c.id, err)
			}
			return
		}

		if err := c.limiter.Wait(ctx); err != nil {
			logger.Infof("[Client %d] stopping reader: %v", c.id, err)
			return
		}

		func(env protocol.Envelope) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("[Client %d] recovered from panic handling %s: %v", c.id, env.Kind, r)
				}
			}()
			c.coordinator.handle(c, env)
		}(env)
	}
}

func (c *Client) writePump() {
	defer c.Close()
	for {
		select {
		case msg := <-c.send:
			if _, err := c.conn.Write(msg); err != nil {
				logger.Warnf("[Client %d] write error: %v", c.id, err)
				return
			}
		case <-c.done:
			return
		}
	}
}
