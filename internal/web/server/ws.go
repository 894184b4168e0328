package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/rpc"
	"github.com/loomkit/loom/internal/web/session"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The transport serves local tooling, not browsers with cookies;
	// cross-origin upgrades are fine.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebSocket bridges a WebSocket connection onto the shared RPC
// dispatcher: one JSON-RPC message per text frame, same semantics as the
// stdio loop.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(session.HeaderName)
	if sessionID == "" {
		sessionID = session.NewID()
	}

	conn, err := upgrader.Upgrade(w, r, http.Header{session.HeaderName: []string{sessionID}})
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxRequestBody)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// Writes are serialized through one channel so pings and responses
	// cannot interleave frames.
	responses := make(chan *rpc.Message, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case msg, ok := <-responses:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteJSON(msg); err != nil {
					s.logger.Warn("websocket write failed", zap.Error(err))
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()
	defer func() {
		close(responses)
		<-done
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("websocket read failed", zap.Error(err))
			}
			return
		}
		s.sessions.Touch(sessionID)

		var msg rpc.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			if !enqueue(responses, done, rpc.NewErrorMessage(nil, rpc.ParseError, "failed to parse message", nil)) {
				return
			}
			continue
		}

		if response := s.rpc.Dispatch(r.Context(), &msg); response != nil {
			if !enqueue(responses, done, response) {
				return
			}
		}
	}
}

// enqueue hands a response to the writer goroutine. It reports false when
// the writer has already exited, so the read loop never blocks on a full
// buffer nobody drains.
func enqueue(responses chan<- *rpc.Message, done <-chan struct{}, msg *rpc.Message) bool {
	select {
	case responses <- msg:
		return true
	case <-done:
		return false
	}
}
