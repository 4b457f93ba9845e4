// Package api exposes the backing-store wire protocol over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akarpov88/petkeeper/internal/logging"
	"github.com/akarpov88/petkeeper/internal/server/database"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxPageLimit caps the page size a client may request.
const maxPageLimit = 500

type Server struct {
	address      string
	store        database.Store
	logger       logging.Logger
	jwtSecret    []byte
	linkValidity time.Duration
}

func NewServer(a string, l logging.Logger, store database.Store, secretKey string, linkValidity time.Duration) *Server {
	return &Server{
		address:      a,
		logger:       l.With("module", "api_server"),
		store:        store,
		jwtSecret:    []byte(secretKey),
		linkValidity: linkValidity,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.accessTokenMiddleware)

		r.Post("/{partition}/changes", s.handleChanges)
		r.Post("/{partition}/snapshot", s.handleSnapshot)
		r.Get("/{partition}/zones", s.handleZones)

		r.Get("/shares/resolve", s.handleResolveShare)
		r.Post("/shares/accept", s.handleAcceptShare)
		r.Post("/shares/link", s.handleMintShareLink)
	})

	return r
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{Addr: s.address, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
