package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors.
//
// Without helpers, every handler repeats the same boilerplate:
//   w.Header().Set("Content-Type", "application/json")
//   w.WriteHeader(statusCode)
//   json.NewEncoder(w).Encode(data)
//
// With helpers, handlers stay short:
//   writeJSON(w, http.StatusOK, data)
//   writeError(w, logger, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response from the API has the same shape:
//   {"error": "not_found", "message": "shopping list not found with id 7", "resource": "shopping list"}
//   {"error": "validation_error", "message": "...", "details": {"name": "is required"}}

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/shopping-list/internal/apperror"
)

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error    string            `json:"error"`              // Machine-readable error type (e.g., "not_found")
	Message  string            `json:"message"`            // Human-readable description
	Resource string            `json:"resource,omitempty"` // Which entity was missing, for 404s
	Details  map[string]string `json:"details,omitempty"`  // Field → problem, for 400s
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set BEFORE the body is written. Once Encode
// writes, later header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// errorResponse maps a domain error to a status code and response body.
//
// ERROR MAPPING:
// The service returns apperror.ErrValidation and apperror.ErrNotFound; this
// is the only place those become 400 and 404. errors.Is walks the whole
// chain, so a wrapped AppError still maps correctly.
func errorResponse(err error) (int, ErrorResponse) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		switch {
		case errors.Is(err, apperror.ErrValidation):
			return http.StatusBadRequest, ErrorResponse{
				Error:   "validation_error",
				Message: appErr.Message,
				Details: appErr.Details,
			}
		case errors.Is(err, apperror.ErrNotFound):
			return http.StatusNotFound, ErrorResponse{
				Error:    "not_found",
				Message:  appErr.Message,
				Resource: appErr.Resource,
			}
		}
	}

	// Unknown error: never expose internals (SQL, file paths) to the client.
	return http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	}
}

// writeError sends err as an ErrorResponse. 500s are logged with the real
// cause since the client only sees a generic message.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, body := errorResponse(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", slog.String("error", err.Error()))
	}
	writeJSON(w, status, body)
}

// decodeJSON reads the request body into dst. A malformed body is a
// validation error on the "body" field.
func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperror.ValidationFailed("body", "request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.ValidationFailed("body", fmt.Sprintf("invalid JSON: %s", err.Error()))
	}
	return nil
}

// pathID parses the {name} URL parameter as an int64 id.
//
// chi.URLParam reads values captured by patterns like /shopping-lists/{id}.
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperror.ValidationFailed(name, "must be an integer")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter and checks it
// against [lo, hi]. ok is false when the parameter is absent.
func queryInt(q url.Values, key string, lo, hi int64) (v int64, ok bool, err error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, apperror.ValidationFailed(key, "must be an integer")
	}
	if v < lo {
		return 0, false, apperror.ValidationFailed(key, fmt.Sprintf("must be at least %d", lo))
	}
	if v > hi {
		return 0, false, apperror.ValidationFailed(key, fmt.Sprintf("must be at most %d", hi))
	}
	return v, true, nil
}
