package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the variant of a schema node.
type Kind string

const (
	KindArray     Kind = "array"
	KindObject    Kind = "object"
	KindScalar    Kind = "scalar"
	KindMalformed Kind = "malformed"
)

// Schema describes the expected shape of a value.
// It is a closed set: ArraySchema, ObjectSchema, Scalar and Malformed.
type Schema interface {
	// Kind returns the variant tag of the node.
	Kind() Kind
	// String returns a compact, human-readable rendering of the node.
	String() string

	sealed()
}

// --- Variants ---

// ArraySchema describes a sequence whose every element conforms to Item.
type ArraySchema struct {
	Item Schema
}

func (ArraySchema) Kind() Kind { return KindArray }
func (ArraySchema) sealed()    {}

func (s ArraySchema) String() string {
	return "[" + render(s.Item) + "]"
}

// ObjectSchema describes a record with an exact, closed set of fields.
type ObjectSchema struct {
	Fields map[string]Schema
}

func (ObjectSchema) Kind() Kind { return KindObject }
func (ObjectSchema) sealed()    {}

func (s ObjectSchema) String() string {
	keys := s.Keys()
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, render(s.Fields[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Keys returns the declared field names in lexical order.
func (s ObjectSchema) Keys() []string {
	keys := make([]string, 0, len(s.Fields))
	for k := range s.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Scalar is a leaf node holding a primitive type tag such as "string".
type Scalar string

func (Scalar) Kind() Kind { return KindScalar }
func (Scalar) sealed()    {}

func (s Scalar) String() string { return string(s) }

// Malformed marks a node that could not be understood.
// Lenient parsing keeps these in the tree so validation fails closed on them.
type Malformed struct {
	Raw    any
	Reason string
}

func (Malformed) Kind() Kind { return KindMalformed }
func (Malformed) sealed()    {}

func (s Malformed) String() string {
	return fmt.Sprintf("<malformed: %s>", s.Reason)
}

func render(s Schema) string {
	if s == nil {
		return "<nil>"
	}
	return s.String()
}

// --- Factory Functions ---

// Array creates an array schema for elements of the given schema.
func Array(item Schema) Schema { return ArraySchema{Item: item} }

// Object creates an object schema with exactly the given fields.
func Object(fields map[string]Schema) Schema {
	if fields == nil {
		fields = map[string]Schema{}
	}
	return ObjectSchema{Fields: fields}
}

// String creates a "string" scalar.
func String() Schema { return Scalar(TypeString) }

// Number creates a "number" scalar.
func Number() Schema { return Scalar(TypeNumber) }

// Boolean creates a "boolean" scalar.
func Boolean() Schema { return Scalar(TypeBoolean) }

// Depth returns the height of the schema tree. Scalars and malformed leaves have depth 1.
func Depth(s Schema) int {
	switch n := s.(type) {
	case ArraySchema:
		return 1 + Depth(n.Item)
	case ObjectSchema:
		deepest := 0
		for _, f := range n.Fields {
			if d := Depth(f); d > deepest {
				deepest = d
			}
		}
		return 1 + deepest
	case nil:
		return 0
	default:
		return 1
	}
}
