// Package model defines the data structures used throughout the application.
//
// Entities (ShoppingList, ShoppingItem) are what the database stores and the
// API returns. Payload types (…Create, …Update) are what callers send in.
// Keeping them apart means a client can never set id or timestamps.
//
// JSON names are snake_case so the wire format matches the column names.
package model

import "time"

// ShoppingList is a named container of items.
//
// Description is a *string because it is nullable: a missing description
// serializes as null, not as "".
type ShoppingList struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ShoppingListWithItems is the composed read returned by GET /shopping-lists/{id}.
// Items is never nil so it always encodes as an array.
type ShoppingListWithItems struct {
	ShoppingList
	Items []ShoppingItem `json:"items"`
}

// ShoppingListCreate is the body of POST /shopping-lists/.
type ShoppingListCreate struct {
	Name        string  `json:"name" validate:"required,min=1,max=255" jsonschema:"required,minLength=1,maxLength=255" jsonschema_description:"Name of the shopping list"`
	Description *string `json:"description,omitempty" jsonschema_description:"Optional description of the shopping list"`
}

// ShoppingListUpdate is the body of PUT /shopping-lists/{id}.
// Only fields present in the request are applied.
type ShoppingListUpdate struct {
	Name        Optional[string] `json:"name,omitzero" jsonschema:"minLength=1,maxLength=255" jsonschema_description:"New name of the shopping list"`
	Description Optional[string] `json:"description,omitzero" jsonschema:"nullable" jsonschema_description:"New description; null clears it"`
}

// ApplyTo copies every present field onto l. Name is never cleared; a null
// name is rejected by validation before this runs.
func (u ShoppingListUpdate) ApplyTo(l *ShoppingList) {
	if u.Name.Set && !u.Name.Null {
		l.Name = u.Name.Value
	}
	if u.Description.Set {
		l.Description = u.Description.Ptr()
	}
}
