package handler

import (
	"log/slog"
	"math"
	"net/http"
	"net/url"

	"github.com/sakif/shopping-list/internal/model"
	"github.com/sakif/shopping-list/internal/service"
)

// ShoppingHandler serves the /shopping-lists and /shopping-items routes.
//
// THIN HANDLERS:
// Each method does three things: parse the request, call the service,
// write the response. Validation, parent checks and pagination defaults
// all live in the service, so the tool endpoints behave identically.
type ShoppingHandler struct {
	svc    *service.ShoppingService
	logger *slog.Logger
}

// NewShoppingHandler creates a new ShoppingHandler.
func NewShoppingHandler(svc *service.ShoppingService, logger *slog.Logger) *ShoppingHandler {
	return &ShoppingHandler{svc: svc, logger: logger}
}

// parsePage reads ?skip and ?limit. Absent values fall back to the service
// defaults; present values must be in range.
func parsePage(q url.Values) (service.Page, error) {
	var page service.Page

	skip, _, err := queryInt(q, "skip", 0, math.MaxInt32)
	if err != nil {
		return page, err
	}
	limit, _, err := queryInt(q, "limit", 1, service.MaxLimit)
	if err != nil {
		return page, err
	}

	page.Skip = int(skip)
	page.Limit = int(limit)
	return page, nil
}

// HandleCreateList creates a shopping list.
//
// HTTP: POST /shopping-lists/
// REQUEST BODY: {"name": "Groceries", "description": "weekly shop"}
func (h *ShoppingHandler) HandleCreateList(w http.ResponseWriter, r *http.Request) {
	var in model.ShoppingListCreate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	list, err := h.svc.CreateList(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// HandleListLists returns lists ordered by id.
//
// HTTP: GET /shopping-lists/?skip=0&limit=100
func (h *ShoppingHandler) HandleListLists(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r.URL.Query())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	lists, err := h.svc.ListLists(r.Context(), page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// HandleGetList returns one list with its items.
//
// HTTP: GET /shopping-lists/{id}
func (h *ShoppingHandler) HandleGetList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	list, err := h.svc.GetList(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleUpdateList applies a partial update.
//
// HTTP: PUT /shopping-lists/{id}
// REQUEST BODY: any subset of {"name", "description"}; "description": null clears it.
func (h *ShoppingHandler) HandleUpdateList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var patch model.ShoppingListUpdate
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}

	list, err := h.svc.UpdateList(r.Context(), id, patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleDeleteList removes a list and all of its items.
//
// HTTP: DELETE /shopping-lists/{id}
func (h *ShoppingHandler) HandleDeleteList(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.svc.DeleteList(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
