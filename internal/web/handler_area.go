package web

import (
	"net/http"

	"github.com/vbonduro/homeinv/internal/domain"
)

type nameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleCreateArea(w http.ResponseWriter, r *http.Request, principal int64) {
	userID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	area, err := s.service.CreateArea(r.Context(), principal, userID, domain.AreaInput{Name: req.Name})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, area)
}

func (s *Server) handleListAreas(w http.ResponseWriter, r *http.Request, principal int64) {
	userID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	areas, err := s.service.ListAreas(r.Context(), principal, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, areas)
}

func (s *Server) handleGetArea(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	area, err := s.service.GetArea(r.Context(), principal, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, area)
}

func (s *Server) handleUpdateArea(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var patch domain.AreaPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	area, err := s.service.UpdateArea(r.Context(), principal, id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, area)
}

func (s *Server) handleDeleteArea(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.service.DeleteArea(r.Context(), principal, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
