// Package http is the narrow contract the mobile client consumes: a JSON
// API over the listing catalog, the add/edit workflow, and the request
// lifecycle.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rentfage/property-service/internal/app/config"
	"github.com/rentfage/property-service/internal/platform/logger"
)

type Server struct {
	httpServer *http.Server
	log        logger.Logger
}

func NewServer(cfg config.HTTPServerConfig, h *Handler, jwtSecret string, log logger.Logger) *Server {
	mux := chi.NewRouter()
	mux.Use(chimiddleware.Recoverer)
	mux.Use(RequestLogging(log))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Catalog browsing and the add/edit workflow.
	mux.Get("/api/listings", h.HandleListListings)
	mux.Get("/api/listings/{id}", h.HandleGetListing)
	mux.Get("/api/favorites", h.HandleListFavorites)
	mux.Post("/api/listings", h.HandleCreateListing)
	mux.Put("/api/listings/{id}", h.HandleUpdateListing)
	mux.Delete("/api/listings/{id}", h.HandleDeleteListing)
	mux.Post("/api/listings/{id}/favorite", h.HandleToggleFavorite)

	// The request lifecycle needs a signed-in user.
	mux.Group(func(r chi.Router) {
		r.Use(JWTAuth(jwtSecret, log))

		r.Post("/api/listings/{id}/requests", h.HandleSubmitRequest)
		r.Get("/api/requests", h.HandleListMyRequests)
		r.Get("/api/admin/requests", h.HandleListAllRequests)
		r.Post("/api/admin/requests/{id}/approve", h.HandleApproveRequest)
		r.Post("/api/admin/requests/{id}/reject", h.HandleRejectRequest)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      mux,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: log,
	}
}

// Start blocks until the server stops.
func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the context's deadline.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
