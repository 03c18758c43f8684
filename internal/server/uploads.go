package server

import (
	"net/http"
	"strings"

	"tripsplit/pkg/domain"
)

// handleUploadSubtree dispatches /api/uploads/{id} and its signed URL.
func (s *Server) handleUploadSubtree(w http.ResponseWriter, r *http.Request, user domain.User) {
	path := strings.TrimPrefix(r.URL.Path, "/api/uploads/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	uploadID := parts[0]

	switch {
	case len(parts) == 1:
		s.handleUploadByID(w, r, user, uploadID)
	case len(parts) == 2 && parts[1] == "signed-url":
		s.handleUploadSignedURL(w, r, user, uploadID)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleUploadByID(w http.ResponseWriter, r *http.Request, user domain.User, uploadID string) {
	switch r.Method {
	case http.MethodGet:
		upload, err := s.uploads.Get(r.Context(), user.ID, uploadID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"upload": upload})
	case http.MethodDelete:
		if err := s.uploads.Delete(r.Context(), user.ID, uploadID); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleUploadSignedURL(w http.ResponseWriter, r *http.Request, user domain.User, uploadID string) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	url, expiresIn, err := s.uploads.SignedURL(r.Context(), user.ID, uploadID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"url":       url,
		"expiresIn": expiresIn,
	})
}
