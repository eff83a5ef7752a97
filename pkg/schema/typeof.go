package schema

import (
	"encoding/json"
	"reflect"
)

// Primitive type tags understood by scalar schemas.
const (
	TypeString   = "string"
	TypeNumber   = "number"
	TypeBoolean  = "boolean"
	TypeObject   = "object"
	TypeFunction = "function"
)

// TypeOf reports the primitive type tag of a decoded value.
//
// Every numeric kind (and json.Number) is a "number". Maps, slices, structs and
// nil all report "object", so a scalar "object" schema accepts any composite
// value including nil. Funcs report "function". Pointers are followed; a cyclic
// pointer chain reports "object".
func TypeOf(v any) string {
	switch v.(type) {
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case json.Number:
		return TypeNumber
	case nil:
		return TypeObject
	}

	rv := reflect.ValueOf(v)
	var seen map[uintptr]struct{}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return TypeObject
		}
		if seen == nil {
			seen = make(map[uintptr]struct{})
		}
		// A pointer that leads back to itself never reaches a primitive.
		if _, loop := seen[rv.Pointer()]; loop {
			return TypeObject
		}
		seen[rv.Pointer()] = struct{}{}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return TypeNumber
	case reflect.Func:
		return TypeFunction
	default:
		return TypeObject
	}
}
