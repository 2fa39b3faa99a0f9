package web

import (
	"net/http"

	"github.com/vbonduro/homeinv/internal/domain"
)

type itemRequest struct {
	Name      string          `json:"name"`
	Type      domain.ItemType `json:"type"`
	Quantity  int             `json:"quantity"`
	RowNumber int             `json:"row_number"`
	ExpiresOn *domain.Date    `json:"expires_on"`
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request, principal int64) {
	furnitureID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	item, err := s.service.CreateItem(r.Context(), principal, furnitureID, domain.ItemInput{
		Name:      req.Name,
		Type:      req.Type,
		Quantity:  req.Quantity,
		RowNumber: req.RowNumber,
		ExpiresOn: req.ExpiresOn,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request, principal int64) {
	furnitureID, ok := s.pathID(w, r)
	if !ok {
		return
	}
	items, err := s.service.ListItems(r.Context(), principal, furnitureID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	item, err := s.service.GetItem(r.Context(), principal, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var patch domain.ItemPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	item, err := s.service.UpdateItem(r.Context(), principal, id, patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.service.DeleteItem(r.Context(), principal, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetItemImage(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	img, err := s.requiredImage(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	item, err := s.service.SetItemImage(r.Context(), principal, id, *img)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleItemImage(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	img, err := s.service.ItemImage(r.Context(), principal, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveImage(w, r, img)
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request, principal int64) {
	items, err := s.service.SearchItems(r.Context(), principal, r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
