package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/signbridgeapp/signbridge-server/internal/http/response"
)

// handleGetVideo streams a composed artifact. The artifact ID is the
// only accepted addressing scheme; paths never appear in the URL, so
// there is nothing to traverse.
func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	artifactID := chi.URLParam(r, "artifactID")

	path, ok := s.services.Artifacts.Get(artifactID)
	if !ok {
		response.NotFound(w, "artifact not found or expired", s.logger)
		return
	}

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Cache-Control", "private, max-age=3600")
	http.ServeFile(w, r, path)
}
