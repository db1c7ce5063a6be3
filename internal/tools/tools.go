// Package tools exposes every shopping list operation as a named tool.
//
// Includes:
//   - Definition: name, description, JSON input schema, handler.
//   - GenerateSchema[T](): derive JSON Schema from Go input structs.
//   - Catalog: the eleven tools, looked up and invoked by name.
//
// Tool names match the HTTP operation ids, and each tool returns exactly
// what the matching HTTP route returns.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/sakif/shopping-list/internal/apperror"
	"github.com/sakif/shopping-list/internal/model"
	"github.com/sakif/shopping-list/internal/service"
	"github.com/sakif/shopping-list/internal/validation"
)

// Backend is the set of operations the tools drive.
// *service.ShoppingService satisfies it.
type Backend interface {
	CreateList(ctx context.Context, in model.ShoppingListCreate) (*model.ShoppingList, error)
	ListLists(ctx context.Context, page service.Page) ([]model.ShoppingList, error)
	GetList(ctx context.Context, id int64) (*model.ShoppingListWithItems, error)
	UpdateList(ctx context.Context, id int64, patch model.ShoppingListUpdate) (*model.ShoppingList, error)
	DeleteList(ctx context.Context, id int64) (*service.Confirmation, error)
	CreateItem(ctx context.Context, in model.ShoppingItemCreate) (*model.ShoppingItem, error)
	ListItems(ctx context.Context, listID *int64, page service.Page) ([]model.ShoppingItem, error)
	GetItem(ctx context.Context, id int64) (*model.ShoppingItem, error)
	UpdateItem(ctx context.Context, id int64, patch model.ShoppingItemUpdate) (*model.ShoppingItem, error)
	DeleteItem(ctx context.Context, id int64) (*service.Confirmation, error)
	ToggleItem(ctx context.Context, id int64) (*model.ShoppingItem, error)
}

var _ Backend = (*service.ShoppingService)(nil)

// Definition describes one tool.
type Definition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
	Function    func(ctx context.Context, input json.RawMessage) (any, error) `json:"-"`
}

// Catalog holds the tool definitions in registration order.
type Catalog struct {
	defs   []Definition
	byName map[string]int
}

// NewCatalog builds the catalog over backend. Inputs are checked with v
// before any backend call.
func NewCatalog(backend Backend, v *validation.Validator) *Catalog {
	defs := registry(backend, v)
	byName := make(map[string]int, len(defs))
	for i, d := range defs {
		byName[d.Name] = i
	}
	return &Catalog{defs: defs, byName: byName}
}

// Definitions returns the tools in registration order.
func (c *Catalog) Definitions() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Invoke runs the named tool. An unknown name is a not found error.
func (c *Catalog) Invoke(ctx context.Context, name string, input json.RawMessage) (any, error) {
	i, ok := c.byName[name]
	if !ok {
		return nil, &apperror.AppError{
			Err:      apperror.ErrNotFound,
			Message:  fmt.Sprintf("unknown tool %q", name),
			Resource: "tool",
		}
	}
	return c.defs[i].Function(ctx, input)
}

// decode unmarshals input into dst. An empty input is treated as {}.
func decode(input json.RawMessage, dst any) error {
	if len(bytes.TrimSpace(input)) == 0 {
		input = json.RawMessage("{}")
	}
	if err := json.Unmarshal(input, dst); err != nil {
		return apperror.ValidationFailed("input", fmt.Sprintf("invalid JSON: %s", err.Error()))
	}
	return nil
}

// passthrough adapts a tool whose input the backend validates itself.
func passthrough[In any](fn func(ctx context.Context, in In) (any, error)) func(context.Context, json.RawMessage) (any, error) {
	return func(ctx context.Context, input json.RawMessage) (any, error) {
		var in In
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		return fn(ctx, in)
	}
}

// checked adapts a tool whose input carries its own struct rules (ids,
// paging) and runs them before fn.
func checked[In any](v *validation.Validator, fn func(ctx context.Context, in In) (any, error)) func(context.Context, json.RawMessage) (any, error) {
	return func(ctx context.Context, input json.RawMessage) (any, error) {
		var in In
		if err := decode(input, &in); err != nil {
			return nil, err
		}
		if err := v.Struct(&in); err != nil {
			return nil, err
		}
		return fn(ctx, in)
	}
}
