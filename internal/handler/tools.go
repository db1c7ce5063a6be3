package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/shopping-list/internal/apperror"
	"github.com/sakif/shopping-list/internal/tools"
)

// maxToolInput caps the body of POST /tools/{name}.
const maxToolInput = 1 << 20

// ToolsHandler exposes the tool catalog over HTTP so an out-of-process
// agent can discover and call the shopping list operations.
type ToolsHandler struct {
	catalog *tools.Catalog
	logger  *slog.Logger
}

// NewToolsHandler creates a new ToolsHandler.
func NewToolsHandler(catalog *tools.Catalog, logger *slog.Logger) *ToolsHandler {
	return &ToolsHandler{catalog: catalog, logger: logger}
}

// HandleList returns every tool with its input schema.
//
// HTTP: GET /tools
func (h *ToolsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Definitions())
}

// HandleInvoke runs one tool. The body is the tool input; the response is
// whatever the matching REST route would have returned.
//
// HTTP: POST /tools/{name}
// REQUEST BODY: {"shopping_list_id": 1}
func (h *ToolsHandler) HandleInvoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(io.LimitReader(r.Body, maxToolInput+1))
	if err != nil {
		writeError(w, h.logger, apperror.ValidationFailed("input", "could not read request body"))
		return
	}
	if len(body) > maxToolInput {
		writeError(w, h.logger, apperror.ValidationFailed("input", "request body too large"))
		return
	}

	h.logger.Debug("tool invoked", slog.String("tool", name))

	res, err := h.catalog.Invoke(r.Context(), name, json.RawMessage(body))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
