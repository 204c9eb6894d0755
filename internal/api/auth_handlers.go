package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/linkstash/linkstash-server/internal/domain"
	"github.com/linkstash/linkstash-server/internal/http/response"
	"github.com/linkstash/linkstash-server/internal/service"
)

// loginResponse is the wire shape for successful logins.
type loginResponse struct {
	Token     string       `json:"token"`
	User      *domain.User `json:"user"`
	ExpiresIn int64        `json:"expiresIn"`
}

// handleLogin verifies credentials and issues an access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, loginResponse{
		Token:     resp.AccessToken,
		User:      resp.User,
		ExpiresIn: resp.ExpiresIn,
	}, s.logger)
}
