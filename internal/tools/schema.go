package tools

import (
	"reflect"

	"github.com/invopop/jsonschema"
)

// optionalType is implemented by model.Optional[T].
type optionalType interface {
	ElemType() reflect.Type
}

var optionalIface = reflect.TypeFor[optionalType]()

// GenerateSchema derives the input schema of a tool from its Go input type.
//
// Only fields tagged `jsonschema:"required"` are required, so optional
// update fields stay optional whatever their json tags say.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Anonymous:                  true,
		Mapper:                     mapOptional,
	}
	var v T
	schema := reflector.Reflect(v)
	flattenNullable(schema)
	return schema
}

// flattenNullable rewrites the reflector's `oneOf: [T, {type: null}]` for
// fields tagged `nullable` into a single schema typed `[T, "null"]`, keeping
// T's constraints and description.
func flattenNullable(schema *jsonschema.Schema) {
	if schema == nil || schema.Properties == nil {
		return
	}
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop := pair.Value
		if prop == nil || len(prop.OneOf) != 2 || prop.OneOf[1].Type != "null" || prop.OneOf[0].Type == "" {
			continue
		}
		inner := *prop.OneOf[0]
		extras := make(map[string]any, len(inner.Extras)+1)
		for k, v := range inner.Extras {
			extras[k] = v
		}
		extras["type"] = []string{inner.Type, "null"}
		inner.Type = ""
		inner.Extras = extras
		pair.Value = &inner
	}
}

// mapOptional describes Optional[T] as plain T; tags on the field still
// add constraints on top.
func mapOptional(t reflect.Type) *jsonschema.Schema {
	if t.Kind() != reflect.Struct || !t.Implements(optionalIface) {
		return nil
	}
	elem := reflect.Zero(t).Interface().(optionalType).ElemType()
	switch elem.Kind() {
	case reflect.String:
		return &jsonschema.Schema{Type: "string"}
	case reflect.Bool:
		return &jsonschema.Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &jsonschema.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &jsonschema.Schema{Type: "number"}
	}
	return nil
}
