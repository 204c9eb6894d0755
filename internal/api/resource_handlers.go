package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linkstash/linkstash-server/internal/domain"
	"github.com/linkstash/linkstash-server/internal/http/response"
	"github.com/linkstash/linkstash-server/internal/service"
	"github.com/linkstash/linkstash-server/internal/store"
)

// listResourcesResponse is the wire shape for resource listings.
type listResourcesResponse struct {
	Data       []*domain.Resource `json:"data"`
	Pagination store.Pagination   `json:"pagination"`
}

// deleteResourceResponse is the wire shape for deletions.
type deleteResourceResponse struct {
	Success bool `json:"success"`
}

// handleListResources returns one page of resources, optionally filtered
// by the q query parameter.
func (s *Server) handleListResources(w http.ResponseWriter, r *http.Request) {
	params := service.ListParams{
		Query: r.URL.Query().Get("q"),
		Page:  parsePageParams(r),
	}

	resources, pagination, err := s.resourceService.List(r.Context(), params)
	if err != nil {
		s.logger.Error("Failed to list resources", "error", err, "query", params.Query)
		response.HandleError(w, err, s.logger)
		return
	}

	if resources == nil {
		resources = []*domain.Resource{}
	}

	response.Success(w, listResourcesResponse{
		Data:       resources,
		Pagination: pagination,
	}, s.logger)
}

// handleGetResource returns a single resource by ID.
func (s *Server) handleGetResource(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "id")

	resource, err := s.resourceService.Get(r.Context(), resourceID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resource, s.logger)
}

// handleCreateResource creates a new resource from the request body.
func (s *Server) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	var input service.ResourceInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resource, err := s.resourceService.Create(r.Context(), input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("resource created via API",
		"resource_id", resource.ID,
		"user_id", getUserID(r.Context()),
	)
	response.Created(w, resource, s.logger)
}

// handleUpdateResource fully replaces an existing resource.
func (s *Server) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "id")

	var input service.ResourceInput
	if err := json.UnmarshalRead(r.Body, &input); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	resource, err := s.resourceService.Update(r.Context(), resourceID, input)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, resource, s.logger)
}

// handleDeleteResource removes a resource. The operation is idempotent,
// so deleting an absent resource still reports success.
func (s *Server) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	resourceID := chi.URLParam(r, "id")

	if err := s.resourceService.Delete(r.Context(), resourceID); err != nil {
		s.logger.Error("Failed to delete resource", "error", err, "resource_id", resourceID)
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, deleteResourceResponse{Success: true}, s.logger)
}
