package services

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bellapacxx/gwent-backend/utils/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the request and serves the same envelope stream
// the TCP listener carries. One websocket message holds one or more frames.
func HandleWebSocket(ctx context.Context, co *Coordinator) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warnf("[WS] upgrade error: %v", err)
			return
		}
		logger.Infof("[WS] New connection from %s", conn.RemoteAddr())
		co.Serve(ctx, &wsStream{conn: conn}, conn.RemoteAddr().String())
	}
}

// wsStream adapts a websocket connection to a byte stream. A message
// boundary reads as a newline so an unterminated last frame still parses.
type wsStream struct {
	conn *websocket.Conn
	r    io.Reader
	sep  bool
}

func (s *wsStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		if s.sep {
			s.sep = false
			p[0] = '\n'
			return 1, nil
		}
		if s.r == nil {
			_, r, err := s.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			s.r = r
		}
		n, err := s.r.Read(p)
		if err == io.EOF {
			s.r = nil
			s.sep = true
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// Write sends p as one text message. Only the client's writer loop calls it.
func (s *wsStream) Write(p []byte) (int, error) {
	if err := s.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *wsStream) Close() error {
	return s.conn.Close()
}
