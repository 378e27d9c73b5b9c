// internal/httpserver/ws.go
//
// Websocket channel for one game session.
//   - Server → client: {"type":"state","state":Snapshot,"ack":N} after every
//     change, starting with the current state. Intermediate states may be
//     skipped when the client reads slowly; the latest one always arrives.
//   - Client → server: {"type":"key","seq":N,"row":0,"col":4,"key":"Enter"} and
//     {"type":"restart"}.
//   - ack is the seq of the last key applied. Every key is answered with a
//     state carrying its seq, so a client typing ahead can skip older states.

package httpserver

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wordplay/wordle/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024
)

type wsIn struct {
	Type string `json:"type"` // "key" | "restart"
	Seq  uint64 `json:"seq"`
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Key  string `json:"key"`
}

type wsOut struct {
	Type  string        `json:"type"` // "state"
	State game.Snapshot `json:"state"`
	Ack   uint64        `json:"ack"`
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.log.Warn().Err(err).Msg("websocket upgrade")
		return
	}
	log := s.log.With().Str("session", sess.ID()).Logger()
	log.Debug().Msg("websocket connected")

	updates, unsubscribe := sess.Subscribe()
	var acked atomic.Uint64
	keyed := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.writePump(conn, sess, updates, keyed, &acked)
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg wsIn
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket read")
			}
			break
		}
		switch msg.Type {
		case "key":
			sess.HandleKey(msg.Row, msg.Col, msg.Key)
			acked.Store(msg.Seq)
			select {
			case keyed <- struct{}{}:
			default:
			}
		case "restart":
			sess.Initialize(r.Context())
		default:
			log.Debug().Str("type", msg.Type).Msg("ignoring websocket message")
		}
	}

	unsubscribe()
	<-done
	log.Debug().Msg("websocket disconnected")
}

// writePump forwards state to the peer and keeps the connection alive.
// updates and keyed only wake it: the ack is read before the snapshot is
// taken, so a state never claims a key it does not reflect yet.
// It owns all writes on conn and closes it on return.
func (s *Server) writePump(conn *websocket.Conn, sess *game.Session, updates <-chan game.Snapshot, keyed <-chan struct{}, acked *atomic.Uint64) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	sendState := func() error {
		ack := acked.Load()
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(wsOut{Type: "state", State: sess.Snapshot(), Ack: ack})
	}

	for {
		select {
		case _, ok := <-updates:
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if err := sendState(); err != nil {
				return
			}

		case <-keyed:
			if err := sendState(); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
