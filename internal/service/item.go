package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/shopping-list/internal/model"
	"github.com/sakif/shopping-list/internal/repository"
	"github.com/sakif/shopping-list/internal/validation"
)

// CreateItem validates the payload, confirms the parent list exists and
// then inserts the item.
//
// A missing parent is reported as "shopping list not found", never as a
// missing item, and no row is written.
func (s *ShoppingService) CreateItem(ctx context.Context, in model.ShoppingItemCreate) (*model.ShoppingItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	listID := *in.ShoppingListID
	if _, err := s.lists.GetByID(ctx, listID); err != nil {
		return nil, s.storageError(err, "checking shopping list", listID)
	}

	item := in.Item()
	if err := s.items.Create(ctx, item); err != nil {
		s.logger.Error("failed to create shopping item",
			slog.String("name", item.Name),
			slog.Int64("shopping_list_id", listID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating shopping item: %w", err)
	}

	s.logger.Info("shopping item created",
		slog.Int64("id", item.ID),
		slog.Int64("shopping_list_id", item.ShoppingListID),
		slog.String("name", item.Name),
	)
	return item, nil
}

// ListItems returns items ordered by id. A nil listID returns items of
// every list; any other value, including 0, filters by it.
func (s *ShoppingService) ListItems(ctx context.Context, listID *int64, page Page) ([]model.ShoppingItem, error) {
	items, err := s.items.List(ctx, repository.ItemFilter{ShoppingListID: listID}, page.normalize())
	if err != nil {
		s.logger.Error("failed to list shopping items", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing shopping items: %w", err)
	}
	return items, nil
}

func (s *ShoppingService) GetItem(ctx context.Context, id int64) (*model.ShoppingItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageError(err, "getting shopping item", id)
	}
	return item, nil
}

// UpdateItem applies the fields present in patch. unit and notes may be
// cleared with null; the other fields may not.
func (s *ShoppingService) UpdateItem(ctx context.Context, id int64, patch model.ShoppingItemUpdate) (*model.ShoppingItem, error) {
	if patch.Name.Set && !patch.Name.Null {
		patch.Name.Value = strings.TrimSpace(patch.Name.Value)
	}
	if err := s.validator.Rules(
		validation.Optional("name", patch.Name, false, "min=1,max=255"),
		validation.Optional("quantity", patch.Quantity, false, "min=1"),
		validation.Optional("unit", patch.Unit, true, "max=50"),
		validation.Optional("notes", patch.Notes, true, ""),
		validation.Optional("is_completed", patch.IsCompleted, false, ""),
	); err != nil {
		return nil, err
	}

	item, err := s.items.Update(ctx, id, patch)
	if err != nil {
		return nil, s.storageError(err, "updating shopping item", id)
	}

	s.logger.Info("shopping item updated",
		slog.Int64("id", item.ID),
		slog.String("name", item.Name),
	)
	return item, nil
}

func (s *ShoppingService) DeleteItem(ctx context.Context, id int64) (*Confirmation, error) {
	if err := s.items.Delete(ctx, id); err != nil {
		return nil, s.storageError(err, "deleting shopping item", id)
	}

	s.logger.Info("shopping item deleted", slog.Int64("id", id))
	return &Confirmation{Message: ItemDeletedMessage}, nil
}

// ToggleItem flips is_completed and returns the updated item.
func (s *ShoppingService) ToggleItem(ctx context.Context, id int64) (*model.ShoppingItem, error) {
	item, err := s.items.Toggle(ctx, id)
	if err != nil {
		return nil, s.storageError(err, "toggling shopping item", id)
	}

	s.logger.Info("shopping item toggled",
		slog.Int64("id", item.ID),
		slog.Bool("is_completed", item.IsCompleted),
	)
	return item, nil
}
