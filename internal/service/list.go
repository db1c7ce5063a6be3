package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/shopping-list/internal/apperror"
	"github.com/sakif/shopping-list/internal/model"
	"github.com/sakif/shopping-list/internal/validation"
)

// CreateList validates and saves a new shopping list.
//
// The name is trimmed before validation, so "   " is rejected as empty.
// Nothing touches the database until validation passes.
func (s *ShoppingService) CreateList(ctx context.Context, in model.ShoppingListCreate) (*model.ShoppingList, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	list := &model.ShoppingList{
		Name:        in.Name,
		Description: in.Description,
	}
	if err := s.lists.Create(ctx, list); err != nil {
		s.logger.Error("failed to create shopping list",
			slog.String("name", in.Name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating shopping list: %w", err)
	}

	s.logger.Info("shopping list created",
		slog.Int64("id", list.ID),
		slog.String("name", list.Name),
	)
	return list, nil
}

// ListLists returns lists ordered by id.
func (s *ShoppingService) ListLists(ctx context.Context, page Page) ([]model.ShoppingList, error) {
	lists, err := s.lists.List(ctx, page.normalize())
	if err != nil {
		s.logger.Error("failed to list shopping lists", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing shopping lists: %w", err)
	}
	return lists, nil
}

// GetList returns a list together with all of its items.
func (s *ShoppingService) GetList(ctx context.Context, id int64) (*model.ShoppingListWithItems, error) {
	list, err := s.lists.GetWithItems(ctx, id)
	if err != nil {
		return nil, s.storageError(err, "getting shopping list", id)
	}
	return list, nil
}

// UpdateList applies the fields present in patch. A null name is rejected;
// a null description clears it.
func (s *ShoppingService) UpdateList(ctx context.Context, id int64, patch model.ShoppingListUpdate) (*model.ShoppingList, error) {
	if patch.Name.Set && !patch.Name.Null {
		patch.Name.Value = strings.TrimSpace(patch.Name.Value)
	}
	if err := s.validator.Rules(
		validation.Optional("name", patch.Name, false, "min=1,max=255"),
		validation.Optional("description", patch.Description, true, ""),
	); err != nil {
		return nil, err
	}

	list, err := s.lists.Update(ctx, id, patch)
	if err != nil {
		return nil, s.storageError(err, "updating shopping list", id)
	}

	s.logger.Info("shopping list updated",
		slog.Int64("id", list.ID),
		slog.String("name", list.Name),
	)
	return list, nil
}

// DeleteList removes a list and, in the same transaction, all of its items.
func (s *ShoppingService) DeleteList(ctx context.Context, id int64) (*Confirmation, error) {
	if err := s.lists.Delete(ctx, id); err != nil {
		return nil, s.storageError(err, "deleting shopping list", id)
	}

	s.logger.Info("shopping list deleted", slog.Int64("id", id))
	return &Confirmation{Message: ListDeletedMessage}, nil
}

// storageError passes domain errors through untouched and logs everything
// else as an infrastructure failure.
func (s *ShoppingService) storageError(err error, op string, id int64) error {
	if errors.Is(err, apperror.ErrNotFound) || errors.Is(err, apperror.ErrValidation) {
		return err
	}
	s.logger.Error("failed "+op,
		slog.Int64("id", id),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%s %d: %w", op, id, err)
}
