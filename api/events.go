package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the event stream is public read-only data
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamEvents upgrades the connection and forwards ledger events as
// JSON until the client disconnects. Each connection gets its own
// subscription; a slow client only loses its own events.
func (s *Server) streamEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	events := s.ledger.Subscribe()
	for event := range events {
		if err := conn.WriteJSON(event); err != nil {
			s.logger.Debug("websocket client gone", "err", err)
			return
		}
	}
}
