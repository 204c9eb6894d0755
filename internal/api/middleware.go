package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/linkstash/linkstash-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyEmail  contextKey = "email"
)

// requireAuth is middleware that validates access tokens and attaches user context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		user, claims, err := s.authService.VerifyAccessToken(r.Context(), parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, user.ID)
		ctx = context.WithValue(ctx, contextKeyEmail, claims.Email)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}
