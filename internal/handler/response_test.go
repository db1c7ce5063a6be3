package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/shopping-list/internal/apperror"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   ErrorResponse
	}{
		{
			name:       "not found",
			err:        apperror.NotFound("shopping list", 7),
			wantStatus: http.StatusNotFound,
			wantBody:   ErrorResponse{Error: "not_found", Message: "shopping list not found with id 7", Resource: "shopping list"},
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("getting: %w", apperror.NotFound("shopping item", 2)),
			wantStatus: http.StatusNotFound,
			wantBody:   ErrorResponse{Error: "not_found", Message: "shopping item not found with id 2", Resource: "shopping item"},
		},
		{
			name:       "validation",
			err:        apperror.ValidationFailed("name", "is required"),
			wantStatus: http.StatusBadRequest,
			wantBody:   ErrorResponse{Error: "validation_error", Message: "is required", Details: map[string]string{"name": "is required"}},
		},
		{
			name:       "infrastructure",
			err:        errors.New("database is locked"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   ErrorResponse{Error: "internal_error", Message: "An internal error occurred"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorResponse(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
