package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"custodia/internal/custodia/service"
	"custodia/internal/custodia/types"
)

// handlePersonList returns the full directory, or with ?q= a search over
// active people by name substring or badge token.
func (s *Server) handlePersonList(w http.ResponseWriter, r *http.Request) {
	var (
		people []types.Person
		err    error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		people, err = s.directory.Search(r.Context(), q)
	} else {
		people, err = s.directory.List(r.Context())
	}
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"people": people})
}

func (s *Server) handlePersonGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.directory.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type personRequest struct {
	BadgeToken  string `json:"badge_token"`
	PIN         string `json:"pin"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	Department  string `json:"department,omitempty"`
}

func (s *Server) handlePersonCreate(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	p, err := s.directory.Create(r.Context(), service.PersonInput{
		BadgeToken:  req.BadgeToken,
		PIN:         req.PIN,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Department:  req.Department,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handlePersonUpdate(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	p, err := s.directory.Update(r.Context(), chi.URLParam(r, "id"), service.PersonInput{
		BadgeToken:  req.BadgeToken,
		PIN:         req.PIN,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Department:  req.Department,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePersonDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := s.directory.Deactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePersonReactivate(w http.ResponseWriter, r *http.Request) {
	if err := s.directory.Reactivate(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
