// internal/httpserver/server.go
//
// HTTP server wiring for the Wordle game.
// Responsibilities:
//   - Router + middleware (CORS, timeouts, panic recovery, request IDs).
//   - Pages: "/" landing, "/play" board, "/static/*" script and stylesheet.
//   - Diagnostics: "/health".
//   - Game API under /api/games (session token required after creation).
//   - Websocket push of snapshots: /api/games/{id}/ws.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so the session cookie works).
//   - Each browser tab owns one Session; a signed token binds the tab to it.

package httpserver

import (
	"context"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/wordplay/wordle/assets"
	"github.com/wordplay/wordle/internal/game"
	"github.com/wordplay/wordle/internal/store"
)

// SessionFactory builds a fresh, uninitialized game session.
type SessionFactory func() *game.Session

// Options holds the server settings taken from config.
type Options struct {
	ClientOrigin  string
	SessionSecret string
	SessionTTL    time.Duration

	// KeyWait bounds how long a key or restart request waits for the
	// resulting word fetch or validity check before answering.
	KeyWait time.Duration
}

// Server bundles router, session registry and the session factory.
type Server struct {
	r        *chi.Mux
	store    store.Store
	sessions SessionFactory
	opts     Options
	log      zerolog.Logger
	upgrader websocket.Upgrader
	web      fs.FS
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, sessions SessionFactory, opts Options, log zerolog.Logger) *Server {
	if opts.KeyWait <= 0 {
		opts.KeyWait = 8 * time.Second
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 2 * time.Hour
	}
	s := &Server{
		r:        chi.NewRouter(),
		store:    st,
		sessions: sessions,
		opts:     opts,
		log:      log,
		web:      assets.Web(),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)            // add X-Request-ID
	s.r.Use(chimw.RealIP)               // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)            // recover from panics
	s.r.Use(corsFor(opts.ClientOrigin)) // credentials-friendly CORS

	// --- pages ---
	s.r.Get("/", s.page("index.html"))
	s.r.Get("/play", s.page("play.html"))
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.web))))

	// --- diagnostics ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	// --- game API ---
	s.r.Route("/api/games", func(r chi.Router) {
		r.Use(jsonContentType)

		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
			r.Post("/", s.handleCreate)
			r.With(s.requireSession).Get("/{id}", s.handleGet)
			r.With(s.requireSession).Post("/{id}/restart", s.handleRestart)
			r.With(s.requireSession).Post("/{id}/keys", s.handleKey)
		})

		// Long-lived; no handler timeout.
		r.With(s.requireSession).Get("/{id}/ws", s.handleWS)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	})

	return s
}

// Handler exposes the router (useful for tests and for http.Server).
func (s *Server) Handler() http.Handler { return s.r }

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info().Str("addr", addr).Msg("http server listening")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info().Msg("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// page serves one embedded HTML file.
func (s *Server) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := fs.ReadFile(s.web, name)
		if err != nil {
			s.log.Error().Err(err).Str("page", name).Msg("read page")
			http.Error(w, "page unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFor enables credentialed CORS for a single origin.
func corsFor(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkOrigin accepts same-host upgrades and the configured client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == s.opts.ClientOrigin {
		return true
	}
	host := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
	return host == r.Host
}
