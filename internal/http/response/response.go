// Package response provides standardized HTTP response formatting and error handling utilities.
//
// Unlike a generic success envelope, the wire shapes here are fixed by the
// API contract: list responses carry their own {data, pagination} body,
// failures serialize as {"error": message}, and validation failures as
// {"errors": {field: [messages]}}.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	"github.com/linkstash/linkstash-server/internal/errors"
)

// errorBody is the wire shape for generic failures.
type errorBody struct {
	Error string `json:"error"`
}

// validationBody is the wire shape for field-level validation failures.
type validationBody struct {
	Errors errors.Fields `json:"errors"`
}

// JSON writes a JSON response with the given status code using json/v2.
func JSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	// json/v2 MarshalWrite doesn't add a newline, but that's fine for HTTP responses.
	if err := json.MarshalWrite(w, payload); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, payload any, logger *slog.Logger) {
	JSON(w, http.StatusOK, payload, logger)
}

// Created writes a created response (201 Created).
func Created(w http.ResponseWriter, payload any, logger *slog.Logger) {
	JSON(w, http.StatusCreated, payload, logger)
}

// Error writes an error response with the given status code.
func Error(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	JSON(w, status, errorBody{Error: message}, logger)
}

// ValidationFailed writes a 400 response carrying the field→messages map.
func ValidationFailed(w http.ResponseWriter, fields errors.Fields, logger *slog.Logger) {
	JSON(w, http.StatusBadRequest, validationBody{Errors: fields}, logger)
}

// BadRequest writes a 400 Bad Request response.
func BadRequest(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusBadRequest, message, logger)
}

// Unauthorized writes a 401 Unauthorized response.
func Unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusUnauthorized, message, logger)
}

// NotFound writes a 404 Not Found response.
func NotFound(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusNotFound, message, logger)
}

// InternalError writes a 500 Internal Server Error response.
func InternalError(w http.ResponseWriter, message string, logger *slog.Logger) {
	Error(w, http.StatusInternalServerError, message, logger)
}

// HandleError writes an appropriate HTTP response based on the error type.
// Domain errors are mapped to their HTTP codes, validation errors keep their
// field map, and unknown errors become an opaque 500.
func HandleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var domainErr *errors.Error
	if errors.As(err, &domainErr) {
		if fields := domainErr.FieldErrors(); fields != nil {
			ValidationFailed(w, fields, logger)
			return
		}
		Error(w, domainErr.HTTPStatus(), domainErr.Message, logger)
		return
	}

	// Unknown error = 500, no internal detail across the boundary.
	if logger != nil {
		logger.Error("Unhandled error", "error", err)
	}
	InternalError(w, "internal server error", logger)
}
