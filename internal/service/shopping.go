// Package service contains the business logic layer of the application.
//
//	Handler / tool (transport)  → parses requests, writes responses
//	Service (business)          → validates, checks parents, paginates, logs
//	Repository (data)           → reads/writes the database
//
// The service takes plain Go values and returns domain errors from
// apperror. It never sees an *http.Request, so the HTTP handlers and the
// agent tool catalog share exactly the same rules.
package service

import (
	"log/slog"

	"github.com/sakif/shopping-list/internal/repository"
	"github.com/sakif/shopping-list/internal/validation"
)

// Pagination defaults for list reads.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Messages returned by the delete operations.
const (
	ListDeletedMessage = "Shopping list deleted successfully"
	ItemDeletedMessage = "Shopping item deleted successfully"
)

// Confirmation is the result of a delete.
type Confirmation struct {
	Message string `json:"message"`
}

// Page selects a window of an ordered listing.
type Page struct {
	Skip  int
	Limit int
}

// normalize fills in defaults: skip below 0 becomes 0, a missing limit
// becomes DefaultLimit and anything above MaxLimit is capped.
func (p Page) normalize() repository.ListOptions {
	opts := repository.ListOptions{Offset: p.Skip, Limit: p.Limit}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Limit > MaxLimit {
		opts.Limit = MaxLimit
	}
	return opts
}

// ShoppingService implements every shopping list and item operation.
//
// Dependencies are interfaces, so tests can pass in-memory fakes and the
// server can pass the SQL stores.
type ShoppingService struct {
	lists     repository.ShoppingListRepository
	items     repository.ShoppingItemRepository
	validator *validation.Validator
	logger    *slog.Logger
}

func NewShoppingService(
	lists repository.ShoppingListRepository,
	items repository.ShoppingItemRepository,
	validator *validation.Validator,
	logger *slog.Logger,
) *ShoppingService {
	return &ShoppingService{
		lists:     lists,
		items:     items,
		validator: validator,
		logger:    logger,
	}
}
