package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/sakif/shopping-list/internal/apperror"
	"github.com/sakif/shopping-list/internal/model"
	"github.com/sakif/shopping-list/internal/repository"
)

var _ repository.ShoppingListRepository = (*ListStore)(nil)

const listColumns = `id, name, description, created_at, updated_at`

// ListStore persists shopping lists.
type ListStore struct {
	db *DB
}

type scanner interface {
	Scan(dest ...any) error
}

// scanList reads one row in listColumns order. Description is a *string and
// database/sql sets it to nil for NULL.
func scanList(s scanner) (*model.ShoppingList, error) {
	var l model.ShoppingList
	if err := s.Scan(&l.ID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts list and fills in its id and timestamps.
// created_at and updated_at come from the same clock reading.
func (s *ListStore) Create(ctx context.Context, list *model.ShoppingList) error {
	now := s.db.now()
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, s.db.rebind(
			`INSERT INTO shopping_lists (name, description, created_at, updated_at)
			 VALUES (?, ?, ?, ?)
			 RETURNING id`),
			list.Name, list.Description, now, now,
		).Scan(&list.ID)
	})
	if err != nil {
		return fmt.Errorf("sqldb: creating shopping list: %w", err)
	}
	list.CreatedAt = now
	list.UpdatedAt = now
	return nil
}

func (s *ListStore) GetByID(ctx context.Context, id int64) (*model.ShoppingList, error) {
	return s.get(ctx, s.db.conn, id)
}

func (s *ListStore) get(ctx context.Context, q queryer, id int64) (*model.ShoppingList, error) {
	l, err := scanList(q.QueryRowContext(ctx, s.db.rebind(
		`SELECT `+listColumns+` FROM shopping_lists WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("shopping list", id)
		}
		return nil, fmt.Errorf("sqldb: getting shopping list %d: %w", id, err)
	}
	return l, nil
}

// GetWithItems reads the list and its items inside one transaction so the
// pair is consistent.
func (s *ListStore) GetWithItems(ctx context.Context, id int64) (*model.ShoppingListWithItems, error) {
	var out *model.ShoppingListWithItems
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		l, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		items, err := listItems(ctx, s.db, tx, repository.ItemFilter{ShoppingListID: &id}, repository.ListOptions{})
		if err != nil {
			return err
		}
		out = &model.ShoppingListWithItems{ShoppingList: *l, Items: items}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns lists ordered by id. A non-positive Limit means no limit.
func (s *ListStore) List(ctx context.Context, opts repository.ListOptions) ([]model.ShoppingList, error) {
	query, args := paginate(`SELECT `+listColumns+` FROM shopping_lists ORDER BY id`, nil, opts)

	rows, err := s.db.conn.QueryContext(ctx, s.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing shopping lists: %w", err)
	}
	defer rows.Close()

	// Start from an empty slice so JSON encodes [] rather than null.
	lists := []model.ShoppingList{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("sqldb: scanning shopping list: %w", err)
		}
		lists = append(lists, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating shopping lists: %w", err)
	}
	return lists, nil
}

// Update loads the list, applies the patch and writes it back in one
// transaction. updated_at is always refreshed.
func (s *ListStore) Update(ctx context.Context, id int64, patch model.ShoppingListUpdate) (*model.ShoppingList, error) {
	var out *model.ShoppingList
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		l, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.ApplyTo(l)
		l.UpdatedAt = s.db.now()

		if _, err := tx.ExecContext(ctx, s.db.rebind(
			`UPDATE shopping_lists SET name = ?, description = ?, updated_at = ? WHERE id = ?`),
			l.Name, l.Description, l.UpdatedAt, l.ID,
		); err != nil {
			return fmt.Errorf("sqldb: updating shopping list %d: %w", id, err)
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the list and its items. Items are deleted explicitly as
// well as through ON DELETE CASCADE, so the result does not depend on the
// engine enforcing foreign keys.
func (s *ListStore) Delete(ctx context.Context, id int64) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.db.rebind(
			`DELETE FROM shopping_items WHERE shopping_list_id = ?`), id,
		); err != nil {
			return fmt.Errorf("sqldb: deleting items of shopping list %d: %w", id, err)
		}

		result, err := tx.ExecContext(ctx, s.db.rebind(`DELETE FROM shopping_lists WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("sqldb: deleting shopping list %d: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqldb: checking delete result: %w", err)
		}
		if affected == 0 {
			return apperror.NotFound("shopping list", id)
		}
		return nil
	})
}

// paginate appends LIMIT/OFFSET. SQLite needs a LIMIT before OFFSET, so an
// offset without a limit gets a limit no table here will reach.
func paginate(query string, args []any, opts repository.ListOptions) (string, []any) {
	switch {
	case opts.Limit > 0:
		query += ` LIMIT ? OFFSET ?`
		args = append(args, opts.Limit, max(opts.Offset, 0))
	case opts.Offset > 0:
		query += ` LIMIT ? OFFSET ?`
		args = append(args, math.MaxInt32, opts.Offset)
	}
	return query, args
}
