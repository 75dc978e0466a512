package rest

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"soldeck/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// same open policy as the CORS middleware
	CheckOrigin: func(*http.Request) bool { return true },
}

const writeWait = 10 * time.Second

// streamHandler pushes the resolve result for the requested ids over a
// WebSocket on a fixed interval until the client goes away.
func (s *Server) streamHandler(w http.ResponseWriter, r *http.Request) {
	ids := r.URL.Query().Get("ids")
	strategy := domain.ParseStrategy(r.URL.Query().Get("source"))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// drain client frames so we notice the close handshake
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := func() error {
		prices := s.deps.Resolver.Resolve(r.Context(), ids, strategy)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(prices)
	}

	if err := push(); err != nil {
		return
	}

	ticker := time.NewTicker(s.deps.StreamInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
			return
		case <-ticker.C:
			if err := push(); err != nil {
				return
			}
		}
	}
}
