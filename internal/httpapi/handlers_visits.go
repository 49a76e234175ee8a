package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"custodia/internal/custodia/service"
	"custodia/internal/custodia/types"
)

type visitRequest struct {
	Kind        string `json:"kind"`
	PersonID    string `json:"person_id,omitempty"`
	VisitorName string `json:"visitor_name,omitempty"`
	HostID      string `json:"host_id,omitempty"`
	VehicleReg  string `json:"vehicle_reg,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
}

func (s *Server) handleVisitArrive(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	v, err := s.visits.Arrive(r.Context(), service.ArriveRequest{
		Kind:        types.VisitKind(req.Kind),
		PersonID:    req.PersonID,
		VisitorName: req.VisitorName,
		HostID:      req.HostID,
		VehicleReg:  req.VehicleReg,
		Purpose:     req.Purpose,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleVisitDepart(w http.ResponseWriter, r *http.Request) {
	v, err := s.visits.Depart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleVisitList returns current presence by default; ?scope=history
// returns departed records too, newest first.
func (s *Server) handleVisitList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("scope") == "history" {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
				return
			}
			limit = n
		}
		visits, err := s.visits.History(r.Context(), limit)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"visits": visits})
		return
	}

	visits, err := s.visits.OnPremises(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"visits": visits})
}
