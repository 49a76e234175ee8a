package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"custodia/internal/custodia/service"
	"custodia/internal/custodia/types"
)

func (s *Server) handleAssetList(w http.ResponseWriter, r *http.Request) {
	class := types.AssetClass(r.URL.Query().Get("class"))
	if class != "" {
		if _, err := types.ParseAssetClass(string(class)); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	}

	views, err := s.projector.List(r.Context(), class)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assets": views})
}

func (s *Server) handleAssetView(w http.ResponseWriter, r *http.Request) {
	view, err := s.projector.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type assetRequest struct {
	Label         string `json:"label"`
	Class         string `json:"class"`
	Subtype       string `json:"subtype"`
	Description   string `json:"description,omitempty"`
	LinkedAssetID string `json:"linked_asset_id,omitempty"`
	LastOdometer  int64  `json:"last_odometer,omitempty"`
}

func (s *Server) handleAssetCreate(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	a, err := s.catalog.Create(r.Context(), service.AssetInput{
		Label:         req.Label,
		Class:         req.Class,
		Subtype:       req.Subtype,
		Description:   req.Description,
		LinkedAssetID: req.LinkedAssetID,
		LastOdometer:  req.LastOdometer,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleAssetUpdate(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	a, err := s.catalog.Update(r.Context(), chi.URLParam(r, "id"), service.AssetInput{
		Label:         req.Label,
		Subtype:       req.Subtype,
		Description:   req.Description,
		LinkedAssetID: req.LinkedAssetID,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) handleAssetDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Retire(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssetReactivate(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Restore(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
