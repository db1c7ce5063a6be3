package model

import (
	"bytes"
	"encoding/json"
	"reflect"
)

// Optional carries one field of a partial update.
//
// A plain pointer cannot tell "field omitted" from "field sent as null", and
// a plain value cannot tell "omitted" from "sent as the zero value". Optional
// records both facts:
//
//	{}                 -> Set=false             (leave the column alone)
//	{"notes": null}    -> Set=true,  Null=true  (clear the column)
//	{"notes": ""}      -> Set=true,  Value=""   (store the empty string)
//
// encoding/json never calls UnmarshalJSON for a missing key, which is what
// keeps Set false for omitted fields.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some returns a present, non-null Optional.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a present Optional holding JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// IsZero lets `json:",omitzero"` drop fields that were never set.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// Ptr returns nil for null, otherwise a pointer to a copy of Value.
func (o Optional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// ElemType reports T. Schema generation uses it to describe the wrapped type.
func (Optional[T]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}
