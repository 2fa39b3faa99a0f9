package web

import (
	"errors"
	"mime"
	"net/http"

	"github.com/vbonduro/homeinv/internal/domain"
	"github.com/vbonduro/homeinv/internal/service"
)

// profileForm reads a profile create or update. Multipart bodies carry a
// "nickname" field and an optional "image" file; anything else is JSON.
func (s *Server) profileForm(w http.ResponseWriter, r *http.Request) (*domain.ProfilePatch, *service.Image, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var patch domain.ProfilePatch
		if err := decodeJSON(w, r, &patch); err != nil {
			return nil, nil, err
		}
		return &patch, nil, nil
	}

	if err := parseMultipart(w, r); err != nil {
		return nil, nil, err
	}
	patch := &domain.ProfilePatch{}
	if vals, ok := r.MultipartForm.Value["nickname"]; ok && len(vals) > 0 {
		patch.Nickname = &vals[0]
	}
	img, err := s.formImage(r)
	if errors.Is(err, errNoImage) {
		return patch, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return patch, img, nil
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	patch, img, err := s.profileForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in := domain.ProfileInput{}
	if patch.Nickname != nil {
		in.Nickname = *patch.Nickname
	}
	profile, err := s.service.CreateProfile(r.Context(), principal, id, in, img)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	profile, err := s.service.GetProfile(r.Context(), principal, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	patch, img, err := s.profileForm(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	profile, err := s.service.UpdateProfile(r.Context(), principal, id, *patch, img)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleProfileImage(w http.ResponseWriter, r *http.Request, principal int64) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	img, err := s.service.ProfileImage(r.Context(), principal, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveImage(w, r, img)
}
