package api

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Same-origin policy is handled by the CORS middleware for the REST
	// surface; the socket mirrors it.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// socketQuestion is one inbound frame on the ask/answer channel.
type socketQuestion struct {
	Question string `json:"question"`
	Limit    int    `json:"limit,omitempty"`
}

// handleQuerySocket upgrades the connection and serves a question→result
// loop: each JSON question frame gets one JSON result frame back. The
// connection closes when the client goes away or sends malformed JSON.
func (s *Server) handleQuerySocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("⚠️  WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()

	for {
		var q socketQuestion
		if err := conn.ReadJSON(&q); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️  WebSocket read error: %v", err)
			}
			return
		}

		if strings.TrimSpace(q.Question) == "" {
			if err := conn.WriteJSON(map[string]string{
				"status":        "error",
				"error_message": "question is required",
			}); err != nil {
				return
			}
			continue
		}
		if q.Limit < 0 || q.Limit > s.maxLimit {
			q.Limit = 0
		}

		result := s.service.Resolve(ctx, q.Question, q.Limit)

		if err := conn.WriteJSON(result); err != nil {
			log.Printf("⚠️  WebSocket write error: %v", err)
			return
		}
	}
}
