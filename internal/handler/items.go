package handler

import (
	"math"
	"net/http"

	"github.com/sakif/shopping-list/internal/model"
)

// HandleCreateItem adds an item to an existing list.
//
// HTTP: POST /shopping-items/
// REQUEST BODY: {"name": "Milk", "quantity": 2, "unit": "l", "shopping_list_id": 1}
//
// A missing parent list answers 404 with resource "shopping list".
func (h *ShoppingHandler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	var in model.ShoppingItemCreate
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.svc.CreateItem(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// HandleListItems returns items ordered by id, optionally filtered by list.
//
// HTTP: GET /shopping-items/?skip=0&limit=100&shopping_list_id=1
func (h *ShoppingHandler) HandleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := parsePage(q)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var listID *int64
	id, ok, err := queryInt(q, "shopping_list_id", math.MinInt64, math.MaxInt64)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if ok {
		listID = &id
	}

	items, err := h.svc.ListItems(r.Context(), listID, page)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleGetItem returns one item.
//
// HTTP: GET /shopping-items/{id}
func (h *ShoppingHandler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleUpdateItem applies a partial update.
//
// HTTP: PUT /shopping-items/{id}
// REQUEST BODY: any subset of {"name", "quantity", "unit", "notes", "is_completed"}
func (h *ShoppingHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var patch model.ShoppingItemUpdate
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.svc.UpdateItem(r.Context(), id, patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleDeleteItem removes one item.
//
// HTTP: DELETE /shopping-items/{id}
func (h *ShoppingHandler) HandleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.svc.DeleteItem(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleToggleItem flips is_completed.
//
// HTTP: PATCH /shopping-items/{id}/toggle
func (h *ShoppingHandler) HandleToggleItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.svc.ToggleItem(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
