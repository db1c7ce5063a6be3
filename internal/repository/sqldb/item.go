package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/shopping-list/internal/apperror"
	"github.com/sakif/shopping-list/internal/model"
	"github.com/sakif/shopping-list/internal/repository"
)

var _ repository.ShoppingItemRepository = (*ItemStore)(nil)

const itemColumns = `id, name, quantity, unit, notes, is_completed, shopping_list_id, created_at, updated_at`

// ItemStore persists shopping items.
type ItemStore struct {
	db *DB
}

func scanItem(s scanner) (*model.ShoppingItem, error) {
	var it model.ShoppingItem
	err := s.Scan(
		&it.ID,
		&it.Name,
		&it.Quantity,
		&it.Unit,
		&it.Notes,
		&it.IsCompleted,
		&it.ShoppingListID,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create inserts item and fills in its id and timestamps. The parent list
// must exist; the foreign key rejects the insert otherwise.
func (s *ItemStore) Create(ctx context.Context, item *model.ShoppingItem) error {
	now := s.db.now()
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, s.db.rebind(
			`INSERT INTO shopping_items
			   (name, quantity, unit, notes, is_completed, shopping_list_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 RETURNING id`),
			item.Name,
			item.Quantity,
			item.Unit,
			item.Notes,
			item.IsCompleted,
			item.ShoppingListID,
			now,
			now,
		).Scan(&item.ID)
	})
	if err != nil {
		return fmt.Errorf("sqldb: creating shopping item: %w", err)
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (s *ItemStore) GetByID(ctx context.Context, id int64) (*model.ShoppingItem, error) {
	return s.get(ctx, s.db.conn, id)
}

func (s *ItemStore) get(ctx context.Context, q queryer, id int64) (*model.ShoppingItem, error) {
	it, err := scanItem(q.QueryRowContext(ctx, s.db.rebind(
		`SELECT `+itemColumns+` FROM shopping_items WHERE id = ?`), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("shopping item", id)
		}
		return nil, fmt.Errorf("sqldb: getting shopping item %d: %w", id, err)
	}
	return it, nil
}

// List returns items ordered by id, optionally restricted to one list.
func (s *ItemStore) List(ctx context.Context, filter repository.ItemFilter, opts repository.ListOptions) ([]model.ShoppingItem, error) {
	return listItems(ctx, s.db, s.db.conn, filter, opts)
}

func listItems(ctx context.Context, db *DB, q queryer, filter repository.ItemFilter, opts repository.ListOptions) ([]model.ShoppingItem, error) {
	query := `SELECT ` + itemColumns + ` FROM shopping_items`
	var args []any
	if filter.ShoppingListID != nil {
		query += ` WHERE shopping_list_id = ?`
		args = append(args, *filter.ShoppingListID)
	}
	query, args = paginate(query+` ORDER BY id`, args, opts)

	rows, err := q.QueryContext(ctx, db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("sqldb: listing shopping items: %w", err)
	}
	defer rows.Close()

	items := []model.ShoppingItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("sqldb: scanning shopping item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqldb: iterating shopping items: %w", err)
	}
	return items, nil
}

// Update applies a partial update in one transaction. shopping_list_id is
// never written.
func (s *ItemStore) Update(ctx context.Context, id int64, patch model.ShoppingItemUpdate) (*model.ShoppingItem, error) {
	var out *model.ShoppingItem
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		it, err := s.get(ctx, tx, id)
		if err != nil {
			return err
		}
		patch.ApplyTo(it)
		it.UpdatedAt = s.db.now()

		if _, err := tx.ExecContext(ctx, s.db.rebind(
			`UPDATE shopping_items
			 SET name = ?, quantity = ?, unit = ?, notes = ?, is_completed = ?, updated_at = ?
			 WHERE id = ?`),
			it.Name, it.Quantity, it.Unit, it.Notes, it.IsCompleted, it.UpdatedAt, it.ID,
		); err != nil {
			return fmt.Errorf("sqldb: updating shopping item %d: %w", id, err)
		}
		out = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ItemStore) Delete(ctx context.Context, id int64) error {
	return s.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, s.db.rebind(`DELETE FROM shopping_items WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("sqldb: deleting shopping item %d: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqldb: checking delete result: %w", err)
		}
		if affected == 0 {
			return apperror.NotFound("shopping item", id)
		}
		return nil
	})
}

// Toggle flips is_completed with a single UPDATE, so the new value is
// computed by the database from the stored one.
func (s *ItemStore) Toggle(ctx context.Context, id int64) (*model.ShoppingItem, error) {
	var out *model.ShoppingItem
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, s.db.rebind(
			`UPDATE shopping_items
			 SET is_completed = NOT is_completed, updated_at = ?
			 WHERE id = ?`),
			s.db.now(), id,
		)
		if err != nil {
			return fmt.Errorf("sqldb: toggling shopping item %d: %w", id, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqldb: checking toggle result: %w", err)
		}
		if affected == 0 {
			return apperror.NotFound("shopping item", id)
		}

		out, err = s.get(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
