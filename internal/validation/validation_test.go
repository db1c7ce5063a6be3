package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/shopping-list/internal/apperror"
	"github.com/sakif/shopping-list/internal/model"
)

func ptr[T any](v T) *T { return &v }

func details(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	require.True(t, errors.Is(err, apperror.ErrValidation), "expected validation error, got %v", err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	return appErr.Details
}

func TestStruct_ShoppingListCreate(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		in        model.ShoppingListCreate
		wantField string
		wantMsg   string
	}{
		{name: "valid", in: model.ShoppingListCreate{Name: "Groceries"}},
		{name: "empty name", in: model.ShoppingListCreate{Name: ""}, wantField: "name", wantMsg: "is required"},
		{
			name:      "name too long",
			in:        model.ShoppingListCreate{Name: strings.Repeat("a", 256)},
			wantField: "name",
			wantMsg:   "must be at most 255 characters",
		},
		{name: "name at limit", in: model.ShoppingListCreate{Name: strings.Repeat("a", 255)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantMsg, details(t, err)[tt.wantField])
		})
	}
}

func TestStruct_ShoppingItemCreate(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		in        model.ShoppingItemCreate
		wantField string
		wantMsg   string
	}{
		{
			name: "valid with defaults",
			in:   model.ShoppingItemCreate{Name: "Milk", ShoppingListID: ptr(int64(1))},
		},
		{
			name:      "missing list id",
			in:        model.ShoppingItemCreate{Name: "Milk"},
			wantField: "shopping_list_id",
			wantMsg:   "is required",
		},
		{
			name:      "zero quantity",
			in:        model.ShoppingItemCreate{Name: "Milk", Quantity: ptr(0), ShoppingListID: ptr(int64(1))},
			wantField: "quantity",
			wantMsg:   "must be at least 1",
		},
		{
			name:      "unit too long",
			in:        model.ShoppingItemCreate{Name: "Milk", Unit: ptr(strings.Repeat("l", 51)), ShoppingListID: ptr(int64(1))},
			wantField: "unit",
			wantMsg:   "must be at most 50 characters",
		},
		{
			name: "list id zero is present",
			in:   model.ShoppingItemCreate{Name: "Milk", ShoppingListID: ptr(int64(0))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantMsg, details(t, err)[tt.wantField])
		})
	}
}

func TestRules_SkipsAbsentFields(t *testing.T) {
	v := New()

	var u model.ShoppingItemUpdate
	err := v.Rules(
		Optional("name", u.Name, false, "min=1,max=255"),
		Optional("quantity", u.Quantity, false, "min=1"),
	)
	assert.NoError(t, err)
}

func TestRules_ChecksPresentZeroValues(t *testing.T) {
	v := New()

	err := v.Rules(
		Optional("quantity", model.Some(0), false, "min=1"),
		Optional("name", model.Some(""), false, "min=1,max=255"),
	)

	d := details(t, err)
	assert.Equal(t, "must be at least 1", d["quantity"])
	assert.Equal(t, "must be at least 1 characters", d["name"])
}

func TestRules_Null(t *testing.T) {
	v := New()

	err := v.Rules(
		Optional("notes", model.Null[string](), true, ""),
		Optional("unit", model.Null[string](), true, "max=50"),
	)
	assert.NoError(t, err)

	err = v.Rules(Optional("is_completed", model.Null[bool](), false, ""))
	assert.Equal(t, "must not be null", details(t, err)["is_completed"])
}

func TestRules_EmptyStringAllowedWithoutTag(t *testing.T) {
	v := New()

	err := v.Rules(Optional("notes", model.Some(""), true, ""))
	assert.NoError(t, err)
}
