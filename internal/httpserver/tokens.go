// internal/httpserver/tokens.go
//
// Session tokens bind a browser tab to its game session.
//   - HS256 JWT with a "sid" claim, signed with Options.SessionSecret.
//   - Returned in the create response and set as the wordle_session cookie.
//   - Accepted from "Authorization: Bearer", the cookie, or ?token= (websockets
//     cannot set headers from the browser).

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wordplay/wordle/internal/game"
)

const sessionCookieName = "wordle_session"

var errNoSession = errors.New("no session claim")

// sessionClaims is the JWT payload.
type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// signSession creates a token for session id that expires after SessionTTL.
func (s *Server) signSession(id string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.opts.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	ss, err := t.SignedString([]byte(s.opts.SessionSecret))
	return ss, exp, err
}

// parseSession validates tok and returns the session id it carries.
func (s *Server) parseSession(tok string) (string, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tok, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.opts.SessionSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.SessionID == "" {
		return "", errNoSession
	}
	return claims.SessionID, nil
}

// setSessionCookie writes the session token cookie.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := strings.HasPrefix(s.opts.ClientOrigin, "https://")
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode // required for third-party contexts when Secure
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// sessionToken extracts a token from the Authorization header, the session
// cookie or the token query parameter, in that order.
func sessionToken(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

// ctxSessionKey is the context key type for storing *game.Session.
type ctxSessionKey struct{}

// requireSession enforces a valid token for the {id} in the path and
// injects the session into the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := sessionToken(r)
		if tok == "" {
			http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
			return
		}
		sid, err := s.parseSession(tok)
		if err != nil {
			http.Error(w, `{"error":"Invalid token"}`, http.StatusUnauthorized)
			return
		}
		if sid != chi.URLParam(r, "id") {
			http.Error(w, `{"error":"Forbidden"}`, http.StatusForbidden)
			return
		}
		sess, err := s.store.Get(r.Context(), sid)
		if err != nil {
			http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentSession returns the session placed in the context by requireSession.
func currentSession(r *http.Request) *game.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*game.Session)
	return sess
}
