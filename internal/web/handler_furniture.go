package web

import (
	"net/http"

	"github.com/vbonduro/homeinv/internal/domain"
)

type furnitureRequest struct {
	Name        string  `json:"name"`
	Rows        int     `json:"rows"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
}

func (s *Server) handleCreateFurniture(w http.ResponseWriter, r *http.Request, principal int64) {
	roomID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req furnitureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.service.CreateFurniture(r.Context(), principal, roomID, domain.FurnitureInput{
		Name:        req.Name,
		Rows:        req.Rows,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

func (s *Server) handleListFurniture(w http.ResponseWriter, r *http.Request, principal int64) {
	roomID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	list, err := s.service.ListFurniture(r.Context(), principal, roomID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetFurniture(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	f, err := s.service.GetFurniture(r.Context(), principal, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleUpdateFurniture(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var patch domain.FurniturePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := s.service.UpdateFurniture(r.Context(), principal, id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleDeleteFurniture(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.service.DeleteFurniture(r.Context(), principal, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleScanFurniture takes a multipart "image" of the furniture and returns
// the items the vision model found and recorded.
func (s *Server) handleScanFurniture(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	img, err := s.requiredImage(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := s.service.ScanFurniture(r.Context(), principal, id, *img)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, items)
}
