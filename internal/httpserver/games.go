// internal/httpserver/games.go
//
// Game endpoints.
//   - POST /api/games               → new session + first game; returns token and state
//   - GET  /api/games/{id}          → current state
//   - POST /api/games/{id}/restart  → "Play Again"
//   - POST /api/games/{id}/keys     → one keyboard event {seq, row, col, key}
//
// Key and restart requests wait (bounded by Options.KeyWait) for the word
// fetch or validity check they started, so a plain request/response client
// sees the outcome. When the wait runs out the state has pending or
// loading set and the client polls or listens on the websocket.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/wordplay/wordle/internal/game"
)

type createRes struct {
	Token string        `json:"token"`
	State game.Snapshot `json:"state"`
}

type keyReq struct {
	Seq uint64 `json:"seq"`
	Row int    `json:"row"`
	Col int    `json:"col"`
	Key string `json:"key"`
}

type keyRes struct {
	Handled bool          `json:"handled"`
	State   game.Snapshot `json:"state"`
	Ack     uint64        `json:"ack"`
}

// handleCreate registers a new session, starts its first game and hands the
// caller a token for it.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions()
	if err := s.store.Save(r.Context(), sess); err != nil {
		s.log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	tok, exp, err := s.signSession(sess.ID())
	if err != nil {
		s.log.Error().Err(err).Msg("sign session token")
		_ = s.store.Delete(r.Context(), sess.ID())
		http.Error(w, `{"error":"sign_failed"}`, http.StatusInternalServerError)
		return
	}
	s.setSessionCookie(w, tok, exp)

	sess.Initialize(r.Context())
	s.settle(r.Context(), sess)
	s.log.Debug().Str("session", sess.ID()).Msg("session created")

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(createRes{Token: tok, State: sess.Snapshot()})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(currentSession(r).Snapshot())
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	sess.Initialize(r.Context())
	s.settle(r.Context(), sess)
	_ = json.NewEncoder(w).Encode(sess.Snapshot())
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess := currentSession(r)
	handled := sess.HandleKey(req.Row, req.Col, req.Key)
	if handled {
		s.settle(r.Context(), sess)
	}
	_ = json.NewEncoder(w).Encode(keyRes{Handled: handled, State: sess.Snapshot(), Ack: req.Seq})
}

// settle waits for in-flight work on sess, at most KeyWait.
func (s *Server) settle(ctx context.Context, sess *game.Session) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.KeyWait)
	defer cancel()
	if err := sess.Wait(ctx); err != nil {
		s.log.Debug().Err(err).Str("session", sess.ID()).Msg("answering before in-flight work finished")
	}
}
