package model

import "time"

// DefaultQuantity is used when a create payload omits quantity.
const DefaultQuantity = 1

// ShoppingItem is one entry on a shopping list.
//
// ShoppingListID is fixed at creation; no operation moves an item to another list.
type ShoppingItem struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Quantity       int       `json:"quantity"`
	Unit           *string   `json:"unit"`
	Notes          *string   `json:"notes"`
	IsCompleted    bool      `json:"is_completed"`
	ShoppingListID int64     `json:"shopping_list_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ShoppingItemCreate is the body of POST /shopping-items/.
//
// ShoppingListID is a pointer so that "missing" fails `required` while an
// explicit 0 is still looked up (and reported as a missing list).
type ShoppingItemCreate struct {
	Name           string  `json:"name" validate:"required,min=1,max=255" jsonschema:"required,minLength=1,maxLength=255" jsonschema_description:"Name of the item"`
	Quantity       *int    `json:"quantity,omitempty" validate:"omitempty,min=1" jsonschema:"minimum=1,default=1" jsonschema_description:"Quantity of the item"`
	Unit           *string `json:"unit,omitempty" validate:"omitempty,max=50" jsonschema:"maxLength=50" jsonschema_description:"Unit of measurement (e.g., kg, pieces)"`
	Notes          *string `json:"notes,omitempty" jsonschema_description:"Additional notes about the item"`
	IsCompleted    bool    `json:"is_completed,omitempty" jsonschema_description:"Whether the item has been purchased"`
	ShoppingListID *int64  `json:"shopping_list_id" validate:"required" jsonschema:"required" jsonschema_description:"ID of the shopping list this item belongs to"`
}

// Item builds the entity to insert, filling in defaults.
func (c ShoppingItemCreate) Item() *ShoppingItem {
	item := &ShoppingItem{
		Name:        c.Name,
		Quantity:    DefaultQuantity,
		Unit:        c.Unit,
		Notes:       c.Notes,
		IsCompleted: c.IsCompleted,
	}
	if c.Quantity != nil {
		item.Quantity = *c.Quantity
	}
	if c.ShoppingListID != nil {
		item.ShoppingListID = *c.ShoppingListID
	}
	return item
}

// ShoppingItemUpdate is the body of PUT /shopping-items/{id}.
// It has no shopping_list_id field: items never change lists.
type ShoppingItemUpdate struct {
	Name        Optional[string] `json:"name,omitzero" jsonschema:"minLength=1,maxLength=255" jsonschema_description:"New name of the item"`
	Quantity    Optional[int]    `json:"quantity,omitzero" jsonschema:"minimum=1" jsonschema_description:"New quantity"`
	Unit        Optional[string] `json:"unit,omitzero" jsonschema:"nullable,maxLength=50" jsonschema_description:"New unit; null clears it"`
	Notes       Optional[string] `json:"notes,omitzero" jsonschema:"nullable" jsonschema_description:"New notes; null clears them"`
	IsCompleted Optional[bool]   `json:"is_completed,omitzero" jsonschema_description:"New completion state"`
}

// ApplyTo copies every present field onto it. Null is only meaningful for
// unit and notes; validation rejects it for the other fields.
func (u ShoppingItemUpdate) ApplyTo(it *ShoppingItem) {
	if u.Name.Set && !u.Name.Null {
		it.Name = u.Name.Value
	}
	if u.Quantity.Set && !u.Quantity.Null {
		it.Quantity = u.Quantity.Value
	}
	if u.Unit.Set {
		it.Unit = u.Unit.Ptr()
	}
	if u.Notes.Set {
		it.Notes = u.Notes.Ptr()
	}
	if u.IsCompleted.Set && !u.IsCompleted.Null {
		it.IsCompleted = u.IsCompleted.Value
	}
}
