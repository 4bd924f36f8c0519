// Package api exposes the simulator over HTTP.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"gotreat/adapters/excel"
	"gotreat/app"
	"gotreat/internal"
	"gotreat/internal/config"
	apperrors "gotreat/internal/errors"
	"gotreat/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server routes HTTP requests to the simulation service.
type Server struct {
	router      *chi.Mux
	simulator   *app.SimulationService
	exporter    *excel.Exporter
	caseStudies map[string]ports.CaseStudyProvider
	defaults    config.SimulationConfig
	logger      *internal.Logger
}

// NewServer creates the HTTP server. caseStudies are selectable by name in
// simulation requests and may be nil.
func NewServer(simulator *app.SimulationService, caseStudies map[string]ports.CaseStudyProvider, defaults config.SimulationConfig) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		simulator:   simulator,
		exporter:    excel.NewExporter(),
		caseStudies: caseStudies,
		defaults:    defaults,
		logger:      internal.DefaultLogger.With("api"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(5 * time.Minute))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/treatments", func(r chi.Router) {
		r.Get("/", s.handleListTreatments)
		r.Get("/{id}", s.handleGetTreatment)
	})
	s.router.Get("/substances", s.handleListSubstances)
	s.router.Get("/matrices", s.handleListMatrices)
	s.router.Get("/case-studies", s.handleListCaseStudies)

	s.router.Post("/simulations", s.handleSimulate)
}

// ServeHTTP makes the server usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the application error code to an HTTP status.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeConfigInvalid:
		status = http.StatusUnprocessableEntity
	case apperrors.CodeNotFound, apperrors.CodeDataUnavailable:
		status = http.StatusNotFound
	case apperrors.CodeInvalidInput, apperrors.CodeValidationError:
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}
