package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/bellapacxx/gwent-backend/utils/logger"
)

// TCPServer accepts session connections and hands each to the coordinator
// on its own goroutine.
type TCPServer struct {
	ln          net.Listener
	coordinator *Coordinator
	wg          sync.WaitGroup
}

// ListenTCP binds addr. Failing to bind is the one fatal startup error.
func ListenTCP(addr string, co *Coordinator) (*TCPServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	return &TCPServer{ln: ln, coordinator: co}, nil
}

func (s *TCPServer) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts until ctx is cancelled, then waits for open connections to
// wind down.
func (s *TCPServer) Serve(ctx context.Context) error {
	logger.Infof("[TCP] Listening on %s", s.ln.Addr())

	stop := context.AfterFunc(ctx, func() { s.ln.Close() })
	defer stop()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				logger.Infof("[TCP] Listener stopped")
				return nil
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				logger.Warnf("[TCP] accept timeout: %v", err)
				continue
			}
			s.ln.Close()
			s.wg.Wait()
			return fmt.Errorf("accept: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.coordinator.Serve(ctx, conn, conn.RemoteAddr().String())
		}()
	}
}

// Close stops accepting new connections.
func (s *TCPServer) Close() error {
	return s.ln.Close()
}
