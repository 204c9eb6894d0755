package api

import (
	"net/http"

	"github.com/linkstash/linkstash-server/internal/http/response"
)

// previewResponse is the wire shape for preview lookups. Image is null
// when no preview could be resolved.
type previewResponse struct {
	Image *string `json:"image"`
}

// handlePreview resolves the og:image for an external URL.
// The endpoint never fails: a missing url parameter, an unreachable
// host, or a page without Open Graph tags all produce {"image": null}.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		response.Success(w, previewResponse{}, s.logger)
		return
	}

	image, err := s.previewResolver.Resolve(r.Context(), rawURL)
	if err != nil || image == "" {
		if err != nil {
			s.logger.Debug("preview resolution failed", "url", rawURL, "error", err)
		}
		response.Success(w, previewResponse{}, s.logger)
		return
	}

	response.Success(w, previewResponse{Image: &image}, s.logger)
}
