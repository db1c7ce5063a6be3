package tools

import (
	"context"

	"github.com/sakif/shopping-list/internal/model"
	"github.com/sakif/shopping-list/internal/service"
	"github.com/sakif/shopping-list/internal/validation"
)

type PageInput struct {
	Skip  *int `json:"skip,omitempty" validate:"omitempty,min=0" jsonschema:"minimum=0,default=0" jsonschema_description:"Number of records to skip"`
	Limit *int `json:"limit,omitempty" validate:"omitempty,min=1,max=1000" jsonschema:"minimum=1,maximum=1000,default=100" jsonschema_description:"Maximum number of records to return"`
}

func (p PageInput) page() service.Page {
	var page service.Page
	if p.Skip != nil {
		page.Skip = *p.Skip
	}
	if p.Limit != nil {
		page.Limit = *p.Limit
	}
	return page
}

type ListRefInput struct {
	ShoppingListID *int64 `json:"shopping_list_id" validate:"required" jsonschema:"required" jsonschema_description:"ID of the shopping list"`
}

type ItemRefInput struct {
	ItemID *int64 `json:"item_id" validate:"required" jsonschema:"required" jsonschema_description:"ID of the shopping item"`
}

type UpdateListInput struct {
	ListRefInput
	model.ShoppingListUpdate
}

type ListItemsInput struct {
	PageInput
	ShoppingListID *int64 `json:"shopping_list_id,omitempty" jsonschema_description:"Only return items of this shopping list"`
}

type UpdateItemInput struct {
	ItemRefInput
	model.ShoppingItemUpdate
}

// Tool names. They double as the HTTP operation ids.
const (
	CreateShoppingList   = "create_shopping_list"
	GetShoppingLists     = "get_shopping_lists"
	GetShoppingList      = "get_shopping_list"
	UpdateShoppingList   = "update_shopping_list"
	DeleteShoppingList   = "delete_shopping_list"
	CreateShoppingItem   = "create_shopping_item"
	GetShoppingItems     = "get_shopping_items"
	GetShoppingItem      = "get_shopping_item"
	UpdateShoppingItem   = "update_shopping_item"
	DeleteShoppingItem   = "delete_shopping_item"
	ToggleItemCompletion = "toggle_item_completion"
)

func registry(b Backend, v *validation.Validator) []Definition {
	return []Definition{
		{
			Name:        CreateShoppingList,
			Description: "Create a new shopping list.",
			InputSchema: GenerateSchema[model.ShoppingListCreate](),
			Function: passthrough(func(ctx context.Context, in model.ShoppingListCreate) (any, error) {
				return b.CreateList(ctx, in)
			}),
		},
		{
			Name:        GetShoppingLists,
			Description: "Get all shopping lists, ordered by id. Items are not included.",
			InputSchema: GenerateSchema[PageInput](),
			Function: checked(v, func(ctx context.Context, in PageInput) (any, error) {
				return b.ListLists(ctx, in.page())
			}),
		},
		{
			Name:        GetShoppingList,
			Description: "Get a specific shopping list with all of its items.",
			InputSchema: GenerateSchema[ListRefInput](),
			Function: checked(v, func(ctx context.Context, in ListRefInput) (any, error) {
				return b.GetList(ctx, *in.ShoppingListID)
			}),
		},
		{
			Name:        UpdateShoppingList,
			Description: "Update a shopping list. Only the fields provided are changed; description may be set to null to clear it.",
			InputSchema: GenerateSchema[UpdateListInput](),
			Function: checked(v, func(ctx context.Context, in UpdateListInput) (any, error) {
				return b.UpdateList(ctx, *in.ShoppingListID, in.ShoppingListUpdate)
			}),
		},
		{
			Name:        DeleteShoppingList,
			Description: "Delete a shopping list together with all of its items.",
			InputSchema: GenerateSchema[ListRefInput](),
			Function: checked(v, func(ctx context.Context, in ListRefInput) (any, error) {
				return b.DeleteList(ctx, *in.ShoppingListID)
			}),
		},
		{
			Name:        CreateShoppingItem,
			Description: "Add an item to an existing shopping list. Quantity defaults to 1.",
			InputSchema: GenerateSchema[model.ShoppingItemCreate](),
			Function: passthrough(func(ctx context.Context, in model.ShoppingItemCreate) (any, error) {
				return b.CreateItem(ctx, in)
			}),
		},
		{
			Name:        GetShoppingItems,
			Description: "Get shopping items ordered by id, optionally only those of one shopping list.",
			InputSchema: GenerateSchema[ListItemsInput](),
			Function: checked(v, func(ctx context.Context, in ListItemsInput) (any, error) {
				return b.ListItems(ctx, in.ShoppingListID, in.page())
			}),
		},
		{
			Name:        GetShoppingItem,
			Description: "Get a specific shopping item.",
			InputSchema: GenerateSchema[ItemRefInput](),
			Function: checked(v, func(ctx context.Context, in ItemRefInput) (any, error) {
				return b.GetItem(ctx, *in.ItemID)
			}),
		},
		{
			Name:        UpdateShoppingItem,
			Description: "Update a shopping item. Only the fields provided are changed; unit and notes may be set to null to clear them.",
			InputSchema: GenerateSchema[UpdateItemInput](),
			Function: checked(v, func(ctx context.Context, in UpdateItemInput) (any, error) {
				return b.UpdateItem(ctx, *in.ItemID, in.ShoppingItemUpdate)
			}),
		},
		{
			Name:        DeleteShoppingItem,
			Description: "Delete a shopping item.",
			InputSchema: GenerateSchema[ItemRefInput](),
			Function: checked(v, func(ctx context.Context, in ItemRefInput) (any, error) {
				return b.DeleteItem(ctx, *in.ItemID)
			}),
		},
		{
			Name:        ToggleItemCompletion,
			Description: "Toggle the completion status of a shopping item, e.g. after it has been bought.",
			InputSchema: GenerateSchema[ItemRefInput](),
			Function: checked(v, func(ctx context.Context, in ItemRefInput) (any, error) {
				return b.ToggleItem(ctx, *in.ItemID)
			}),
		},
	}
}
