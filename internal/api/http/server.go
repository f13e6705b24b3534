// Package httpapi exposes a read-only operational surface over the deal
// lifecycle engine: health, deal lookups, audit trails and the dispute
// queue. It never mutates state; all writes go through the bot.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/escrowkeeper/escrowkeeper/internal/application/lifecycle"
	"github.com/escrowkeeper/escrowkeeper/internal/domain/deal"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	lifecycleSvc *lifecycle.Service
}

func NewServer(lifecycleSvc *lifecycle.Service) *Server {
	return &Server{lifecycleSvc: lifecycleSvc}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/healthz", s.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/deals/{dealId}", s.getDeal)
		r.Get("/deals/{dealId}/audit", s.getDealAudit)
		r.Get("/disputes", s.listDisputes)
	})

	return r
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getDeal(w http.ResponseWriter, r *http.Request) {
	id, err := parseDealID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid deal id")
		return
	}
	d, err := s.lifecycleSvc.Get(r.Context(), id)
	if errors.Is(err, deal.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "deal not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, d)
}

func (s *Server) getDealAudit(w http.ResponseWriter, r *http.Request) {
	id, err := parseDealID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "bad_request", "invalid deal id")
		return
	}
	if _, err := s.lifecycleSvc.Get(r.Context(), id); errors.Is(err, deal.ErrNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "deal not found")
		return
	} else if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	entries, err := s.lifecycleSvc.History(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"dealId": id, "entries": entries})
}

func (s *Server) listDisputes(w http.ResponseWriter, r *http.Request) {
	deals, err := s.lifecycleSvc.Disputes(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"disputes": deals})
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

func parseDealID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "dealId"), 10, 64)
}
