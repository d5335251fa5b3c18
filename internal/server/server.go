// Package server exposes the editor and fleet services over HTTP and a
// WebSocket session that streams tree snapshots.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/example/portplan/internal/ports/primary"
)

const shutdownTimeout = 5 * time.Second

// Server holds the services behind the HTTP API.
type Server struct {
	editor  primary.EditorService
	fleet   primary.FleetService
	logger  zerolog.Logger
	origins []string
}

// Option configures a Server.
type Option func(*Server)

// WithOriginPatterns sets the host patterns allowed to open WebSocket
// sessions from a browser. The default allows only same-origin requests.
func WithOriginPatterns(patterns ...string) Option {
	return func(s *Server) { s.origins = patterns }
}

// New creates a server over the given services.
func New(editor primary.EditorService, fleet primary.FleetService, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		editor: editor,
		fleet:  fleet,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the router with every endpoint registered.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/tree", s.getTree)
		r.Post("/open", s.open)
		r.Post("/save", s.save)
		r.Get("/selection", s.getSelection)
		r.Get("/schema", s.getSchema)

		r.Get("/ships", s.listShips)
		r.Post("/ships", s.addShip)
		r.Get("/ships/{name}", s.getShip)
		r.Get("/ships/{name}/document", s.getDocument)

		r.Route("/rows/{rowID}", func(r chi.Router) {
			r.Post("/edit", s.editRow)
			r.Post("/activate", s.activateRow)
			r.Post("/pick", s.pickRow)
			r.Post("/select", s.selectRow)
			r.Post("/doors", s.addDoor)
			r.Delete("/", s.removeRow)
		})

		r.Get("/ws", s.serveWS)
	})
	return r
}

// Run serves on addr until ctx ends. Request contexts derive from ctx so
// open WebSocket sessions end with it.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn().Err(err).Msg("server shutdown")
		}
	}()

	s.logger.Info().Str("addr", addr).Msg("starting server")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info().Msg("server stopped")
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
