package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"custodia/internal/custodia/scan"
	"custodia/internal/custodia/service"
	"custodia/internal/custodia/store"
	"custodia/internal/custodia/types"
)

type scanRequest struct {
	Token  string `json:"token"`
	Source string `json:"source,omitempty"`
}

type scanResponse struct {
	Token   string        `json:"token"`
	Matched bool          `json:"matched"`
	Person  *types.Person `json:"person,omitempty"`
}

// handleScan canonicalizes a raw identifier (camera decode or manual entry;
// wedge input is canonicalized client-side the same way) and reports the
// matching person when there is one. An unmatched token is a normal
// outcome, not an error.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	token := scan.Normalize(req.Token)
	if token == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "token is empty after normalization")
		return
	}

	resp := scanResponse{Token: token}
	p, err := s.resolver.Resolve(r.Context(), token)
	switch {
	case err == nil:
		resp.Matched = true
		resp.Person = &p
	case errors.Is(err, store.ErrNotFound):
		// leave Matched false
	default:
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type loginRequest struct {
	Token string `json:"token"`
	PIN   string `json:"pin"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	p, err := s.resolver.Login(r.Context(), req.Token, req.PIN)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type checkoutRequest struct {
	AssetID string `json:"asset_id"`

	// Actors may be given by id or by badge token; token wins when both
	// are present.
	HolderID     string `json:"holder_id,omitempty"`
	HolderToken  string `json:"holder_token,omitempty"`
	OfficerID    string `json:"officer_id,omitempty"`
	OfficerToken string `json:"officer_token,omitempty"`

	Purpose       string `json:"purpose,omitempty"`
	Destination   string `json:"destination,omitempty"`
	OdometerStart *int64 `json:"odometer_start,omitempty"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	holderID, err := s.actorID(r, req.HolderID, req.HolderToken)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	officerID, err := s.actorID(r, req.OfficerID, req.OfficerToken)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	tx, err := s.ledger.Checkout(r.Context(), service.CheckoutRequest{
		AssetID:       req.AssetID,
		HolderID:      holderID,
		OfficerID:     officerID,
		Purpose:       req.Purpose,
		Destination:   req.Destination,
		OdometerStart: req.OdometerStart,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

type checkinRequest struct {
	TransactionID string `json:"transaction_id"`

	HolderID     string `json:"holder_id,omitempty"`
	HolderToken  string `json:"holder_token,omitempty"`
	OfficerID    string `json:"officer_id,omitempty"`
	OfficerToken string `json:"officer_token,omitempty"`

	OdometerEnd *int64 `json:"odometer_end,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Note        string `json:"note,omitempty"`
}

func (s *Server) handleCheckin(w http.ResponseWriter, r *http.Request) {
	var req checkinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	holderID, err := s.actorID(r, req.HolderID, req.HolderToken)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	officerID, err := s.actorID(r, req.OfficerID, req.OfficerToken)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	tx, err := s.ledger.Checkin(r.Context(), service.CheckinRequest{
		TransactionID: req.TransactionID,
		HolderID:      holderID,
		OfficerID:     officerID,
		OdometerEnd:   req.OdometerEnd,
		Reason:        types.ReturnReason(req.Reason),
		Note:          req.Note,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

type forceCloseRequest struct {
	AdminID    string `json:"admin_id,omitempty"`
	AdminToken string `json:"admin_token,omitempty"`
	Note       string `json:"note"`
}

func (s *Server) handleForceClose(w http.ResponseWriter, r *http.Request) {
	var req forceCloseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	adminID, err := s.actorID(r, req.AdminID, req.AdminToken)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	tx, err := s.ledger.ForceClose(r.Context(), chi.URLParam(r, "id"), adminID, req.Note)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleTransactionHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
			return
		}
		limit = n
	}

	txs, err := s.ledger.History(r.Context(), r.URL.Query().Get("asset_id"), limit)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

func (s *Server) handleOverdue(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.overdue.Scan(r.Context(), time.Now().UTC())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	if alerts == nil {
		alerts = []service.Alert{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

// actorID resolves the id-or-token pair every ledger request carries for
// each actor. A badge token takes precedence; role gating stays with the
// services, so resolution here is identity only.
func (s *Server) actorID(r *http.Request, id, token string) (string, error) {
	if token != "" {
		p, err := s.resolver.Resolve(r.Context(), token)
		if err != nil {
			return "", err
		}
		return p.ID, nil
	}
	return id, nil
}
