// Package apperror defines the error taxonomy shared by every layer.
//
// Three kinds of failure exist:
//   - validation: the input broke a field rule, nothing was persisted
//   - not found: the referenced list or item id does not exist
//   - anything else: infrastructure failure, reported as a generic 500
//
// Layers return *AppError values wrapping one of the sentinels below, and
// callers classify them with errors.Is. Only the HTTP layer knows status codes.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

type AppError struct {
	Err      error             // sentinel used for classification
	Message  string            // human-readable error message
	Field    string            // optional: first field causing the error
	Resource string            // optional: "shopping list" or "shopping item"
	Details  map[string]string // optional: field -> message for validation errors
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports a missing entity. The message names the resource and id
// so a failed item create can be told apart from a missing item.
func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:      ErrNotFound,
		Message:  fmt.Sprintf("%s not found with id %d", resource, id),
		Resource: resource,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
		Details: map[string]string{field: message},
	}
}

// Invalid builds a single validation error out of several field failures.
// Fields are reported in name order so messages are stable.
func Invalid(details map[string]string) *AppError {
	fields := make([]string, 0, len(details))
	for field := range details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+" "+details[field])
	}

	var first string
	if len(fields) > 0 {
		first = fields[0]
	}
	return &AppError{
		Err:     ErrValidation,
		Message: "validation failed: " + strings.Join(parts, "; "),
		Field:   first,
		Details: details,
	}
}
