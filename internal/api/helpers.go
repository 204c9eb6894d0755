package api

import (
	"net/http"
	"strconv"

	"github.com/linkstash/linkstash-server/internal/store"
)

// parsePageParams reads page and limit query parameters. Absent or
// malformed values parse to zero and fall back to defaults during
// normalization; a garbled page number never fails the request.
func parsePageParams(r *http.Request) store.PageParams {
	var params store.PageParams

	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			params.Page = page
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = limit
		}
	}

	return params
}
