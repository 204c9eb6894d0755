package api

import (
	"net/http"
	"time"

	"github.com/linkstash/linkstash-server/internal/http/response"
)

// healthResponse is the wire shape for health checks.
type healthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// handleHealthCheck reports server liveness.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, healthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}, s.logger)
}
