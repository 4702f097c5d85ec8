package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"projectmap/services"
	"projectmap/utils"
)

// DatasetStatus is the loading dataset as seen by the HTTP layer.
type DatasetStatus interface {
	services.CatalogProvider
	Err() error
}

// Server exposes the viewer state to the presentation layer over HTTP.
type Server struct {
	dataset  DatasetStatus
	sessions *SessionStore
	logger   *utils.Logger
	handler  http.Handler
}

// Options configure a Server.
type Options struct {
	AllowedOrigins []string
	SessionTTL     time.Duration
	View           services.ViewSettings
}

// NewServer wires routes and middleware.
func NewServer(dataset DatasetStatus, opts Options, logger *utils.Logger) *Server {
	s := &Server{
		dataset:  dataset,
		sessions: NewSessionStore(dataset, opts.View, opts.SessionTTL),
		logger:   logger,
	}

	r := mux.NewRouter()
	r.Use(recoveryMiddleware(logger))
	r.Use(loggingMiddleware(logger))

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/options", s.handleOptions).Methods(http.MethodGet)
	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", s.handleView).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/filters", s.handleChangeFilter).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/filters", s.handleClearFilters).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/search", s.handleSearch).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/bounds", s.handleBounds).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{id}/selection", s.handleSelect).Methods(http.MethodPut)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Origin"},
		MaxAge:         86400,
	})
	s.handler = c.Handler(r)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Handler:           s.handler,
		Addr:              addr,
		WriteTimeout:      15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("[http] Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err, ok := <-serverErrors:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("[http] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
