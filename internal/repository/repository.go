// Package repository declares the persistence contract the service depends on.
// Implementations live in subpackages (see repository/sqldb).
package repository

import (
	"context"

	"github.com/sakif/shopping-list/internal/model"
)

type ListOptions struct {
	Limit  int
	Offset int
}

// ItemFilter narrows an item listing. A nil ShoppingListID means "all items";
// any non-nil value, including 0, filters by that list.
type ItemFilter struct {
	ShoppingListID *int64
}

type ShoppingListRepository interface {
	Create(ctx context.Context, list *model.ShoppingList) error
	GetByID(ctx context.Context, id int64) (*model.ShoppingList, error)
	// GetWithItems returns the list and all of its items, ordered by item id.
	GetWithItems(ctx context.Context, id int64) (*model.ShoppingListWithItems, error)
	List(ctx context.Context, opts ListOptions) ([]model.ShoppingList, error)
	Update(ctx context.Context, id int64, patch model.ShoppingListUpdate) (*model.ShoppingList, error)
	// Delete removes the list and every item it owns in one transaction.
	Delete(ctx context.Context, id int64) error
}

type ShoppingItemRepository interface {
	Create(ctx context.Context, item *model.ShoppingItem) error
	GetByID(ctx context.Context, id int64) (*model.ShoppingItem, error)
	List(ctx context.Context, filter ItemFilter, opts ListOptions) ([]model.ShoppingItem, error)
	Update(ctx context.Context, id int64, patch model.ShoppingItemUpdate) (*model.ShoppingItem, error)
	Delete(ctx context.Context, id int64) error
	// Toggle flips is_completed and returns the updated item.
	Toggle(ctx context.Context, id int64) (*model.ShoppingItem, error)
}
