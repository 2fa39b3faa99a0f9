package web

import (
	"net/http"

	"github.com/vbonduro/homeinv/internal/domain"
)

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request, principal int64) {
	areaID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req nameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	room, err := s.service.CreateRoom(r.Context(), principal, areaID, domain.RoomInput{Name: req.Name})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, room)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request, principal int64) {
	areaID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	rooms, err := s.service.ListRooms(r.Context(), principal, areaID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	room, err := s.service.GetRoom(r.Context(), principal, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var patch domain.RoomPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	room, err := s.service.UpdateRoom(r.Context(), principal, id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.service.DeleteRoom(r.Context(), principal, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
