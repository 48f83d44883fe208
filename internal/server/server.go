// Package server exposes a read-only HTTP view of the ledger together with
// health and Prometheus endpoints.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesh-intelligence/stockpile/internal/logging"
	"github.com/mesh-intelligence/stockpile/pkg/types"
)

// Server serves read-only JSON views of the ledger over HTTP.
type Server struct {
	srv    *http.Server
	ledger types.Ledger
	log    *slog.Logger
}

// New builds a server listening on addr. A nil gatherer disables /metrics.
func New(addr string, ledger types.Ledger, gatherer prometheus.Gatherer, log *slog.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	s := &Server{ledger: ledger, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("GET /materials", s.handleMaterials)
	mux.HandleFunc("GET /materials/{id}", s.handleMaterial)
	mux.HandleFunc("GET /recipes", s.handleRecipes)
	mux.HandleFunc("GET /recipes/{product}", s.handleRecipe)
	mux.HandleFunc("GET /history", s.handleHistory)

	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start listens and serves until Shutdown. It returns http.ErrServerClosed
// after a graceful shutdown.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleMaterials(w http.ResponseWriter, r *http.Request) {
	var (
		materials []types.Material
		err       error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		materials, err = s.ledger.SearchMaterials(r.Context(), q)
	} else {
		materials, err = s.ledger.ListMaterials(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

func (s *Server) handleMaterial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid material id", http.StatusBadRequest)
		return
	}
	m, err := s.ledger.GetMaterial(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleRecipes(w http.ResponseWriter, r *http.Request) {
	names, err := s.ledger.ListRecipeNames(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleRecipe(w http.ResponseWriter, r *http.Request) {
	product := r.PathValue("product")
	lines, err := s.ledger.GetRecipe(r.Context(), product)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(lines) == 0 {
		s.writeError(w, r, types.ErrNoRecipe)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product":    product,
		"components": lines,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	entries, err := s.ledger.ListHistory(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// writeError maps ledger errors to status codes. Storage faults are logged
// and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound), errors.Is(err, types.ErrNoRecipe):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case types.IsBusinessError(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
