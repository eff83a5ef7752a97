package schema

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// envelope is the declarative form of a composite node.
// "type" and "struct" are accepted as aliases of "kind" and "fields".
type envelope struct {
	Kind   string         `mapstructure:"kind"`
	Type   string         `mapstructure:"type"`
	Item   any            `mapstructure:"item"`
	Fields map[string]any `mapstructure:"fields"`
	Struct map[string]any `mapstructure:"struct"`
}

// Parse builds a Schema from its declarative form, typically decoded JSON or YAML.
//
// A string is a scalar type tag. A map selects its variant with "kind":
//
//	{"kind": "array", "item": <schema>}
//	{"kind": "object", "fields": {"name": <schema>, ...}}
//	{"kind": "string"}
//
// Any problem is reported as a *ParseError wrapping ErrMalformedSchema.
func Parse(raw any) (Schema, error) {
	b := &builder{strict: true, ancestors: make(map[uintptr]bool)}
	return b.build(raw, "$")
}

// MustParse is like Parse but panics on error. Intended for static schemas.
func MustParse(raw any) Schema {
	s, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Lenient builds a Schema without rejecting anything.
// Nodes that Parse would reject become Malformed leaves, so a validator
// fails closed on exactly the parts of the tree that are broken.
func Lenient(raw any) Schema {
	b := &builder{strict: false, ancestors: make(map[uintptr]bool)}
	s, _ := b.build(raw, "$")
	return s
}

type builder struct {
	strict    bool
	ancestors map[uintptr]bool
}

func (b *builder) fail(path, reason string, raw any) (Schema, error) {
	if b.strict {
		return nil, &ParseError{Path: path, Reason: reason, Value: raw}
	}
	return Malformed{Raw: raw, Reason: fmt.Sprintf("%s: %s", path, reason)}, nil
}

func (b *builder) build(raw any, path string) (Schema, error) {
	switch v := raw.(type) {
	case nil:
		return b.fail(path, "missing schema", nil)
	case Malformed:
		return b.fail(path, v.Reason, v.Raw)
	case Schema:
		return v, nil
	case string:
		return b.scalar(v, path)
	}

	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Map {
		return b.fail(path, "expected a type tag or a schema object", raw)
	}
	return b.node(rv, path)
}

func (b *builder) scalar(tag, path string) (Schema, error) {
	switch tag {
	case "":
		return b.fail(path, "empty type tag", nil)
	case string(KindArray), string(KindObject):
		return b.fail(path, fmt.Sprintf("%q must be declared with its definition", tag), tag)
	}
	return Scalar(tag), nil
}

func (b *builder) node(rv reflect.Value, path string) (Schema, error) {
	raw := rv.Interface()
	if rv.IsNil() {
		return b.fail(path, "missing schema", nil)
	}

	ptr := rv.Pointer()
	if b.ancestors[ptr] {
		return b.fail(path, "schema references itself", raw)
	}
	b.ancestors[ptr] = true
	defer delete(b.ancestors, ptr)

	var env envelope
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: &md,
		Result:   &env,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return b.fail(path, err.Error(), raw)
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return b.fail(path, "unknown keys: "+strings.Join(md.Unused, ", "), raw)
	}

	has := func(key string) bool { return slices.Contains(md.Keys, key) }

	tag := env.Kind
	if has("type") {
		if has("kind") && env.Kind != env.Type {
			return b.fail(path, fmt.Sprintf("conflicting kind %q and type %q", env.Kind, env.Type), raw)
		}
		tag = env.Type
	}

	switch tag {
	case "":
		return b.fail(path, "missing kind", raw)

	case string(KindArray):
		if has("fields") || has("struct") {
			return b.fail(path, "array schema cannot declare fields", raw)
		}
		if !has("item") {
			return b.fail(path, "array schema requires item", raw)
		}
		item, err := b.build(env.Item, path+".item")
		if err != nil {
			return nil, err
		}
		return ArraySchema{Item: item}, nil

	case string(KindObject):
		if has("item") {
			return b.fail(path, "object schema cannot declare item", raw)
		}
		fields, key := env.Fields, "fields"
		switch {
		case has("fields") && has("struct"):
			return b.fail(path, "object schema declares both fields and struct", raw)
		case has("struct"):
			fields, key = env.Struct, "struct"
		case !has("fields"):
			return b.fail(path, "object schema requires fields", raw)
		}
		if fields == nil {
			return b.fail(path, key+" must be a map", nil)
		}
		out := make(map[string]Schema, len(fields))
		for name, sub := range fields {
			s, err := b.build(sub, path+"."+key+"."+name)
			if err != nil {
				return nil, err
			}
			out[name] = s
		}
		return ObjectSchema{Fields: out}, nil

	default:
		if has("item") || has("fields") || has("struct") {
			return b.fail(path, fmt.Sprintf("scalar %q cannot declare item or fields", tag), raw)
		}
		return Scalar(tag), nil
	}
}
