// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes query building and range validation over HTTP
// for live form feedback. It never contacts the beacon services.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pdiddy/beacon-query/internal/logger"
	"github.com/pdiddy/beacon-query/internal/query"
	"github.com/pdiddy/beacon-query/pkg/types"
)

// Server routes form requests to the query package.
type Server struct {
	cfg     types.ServerConfig
	log     zerolog.Logger
	metrics *Metrics
	router  chi.Router
}

// New returns a Server with its routes mounted.
func New(cfg types.ServerConfig, log zerolog.Logger, m *Metrics) *Server {
	s := &Server{cfg: cfg, log: log, metrics: m}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(accessLog(log, m))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/query", s.handleQuery)
		r.Get("/validate", s.handleValidate)
		r.Get("/range", s.handleRange)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	readTimeout := s.cfg.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 10 * time.Second
	}
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("http listen")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type queryResponse struct {
	Query    string   `json:"query,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type validateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type rangeResponse struct {
	Error string `json:"error,omitempty"`
}

// handleQuery builds the beacon query string of the form carried in the
// request query. Ordering problems in start or end are reported as
// warnings since building accepts them.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	form, err := query.ParseFormQuery(r.URL.RawQuery)
	if err == nil {
		var qs string
		qs, err = query.BuildQueryParameters(form)
		if err == nil {
			resp := queryResponse{Query: qs}
			for _, v := range []string{form.Start, form.End} {
				if werr := query.CheckIntegerRange(v); werr != nil {
					resp.Warnings = append(resp.Warnings, werr.Error())
				}
			}
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}
	s.reject(r, err)
	writeJSON(w, http.StatusBadRequest, queryResponse{Error: err.Error()})
}

// handleValidate reports whether the form builds. It always answers 200.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	form, err := query.ParseFormQuery(r.URL.RawQuery)
	if err == nil {
		err = query.ValidateBeaconQuery(form)
	}
	if err != nil {
		s.reject(r, err)
		writeJSON(w, http.StatusOK, validateResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, validateResponse{Valid: true})
}

// handleRange runs the advisory range check on the value parameter.
func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	var resp rangeResponse
	if err := query.CheckIntegerRange(r.URL.Query().Get("value")); err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) reject(r *http.Request, err error) {
	reason := "invalid_form"
	if errors.Is(err, query.ErrMalformedRange) {
		reason = "malformed_range"
	}
	s.metrics.failures.WithLabelValues(reason).Inc()
	l := logger.FromContext(r.Context(), s.log)
	l.Info().Err(err).Str("reason", reason).Msg("form rejected")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
