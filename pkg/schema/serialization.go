package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Declare converts a schema back into its declarative form
// (strings for scalars, maps for composite nodes).
func Declare(s Schema) (any, error) {
	switch n := s.(type) {
	case Scalar:
		return string(n), nil
	case ArraySchema:
		item, err := Declare(n.Item)
		if err != nil {
			return nil, fmt.Errorf("item: %w", err)
		}
		return map[string]any{"kind": string(KindArray), "item": item}, nil
	case ObjectSchema:
		fields := make(map[string]any, len(n.Fields))
		for key, sub := range n.Fields {
			d, err := Declare(sub)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", key, err)
			}
			fields[key] = d
		}
		return map[string]any{"kind": string(KindObject), "fields": fields}, nil
	case Malformed:
		return nil, fmt.Errorf("%w: %s", ErrMalformedSchema, n.Reason)
	case nil:
		return nil, fmt.Errorf("%w: schema is nil", ErrMalformedSchema)
	default:
		return nil, fmt.Errorf("%w: unknown node %T", ErrMalformedSchema, s)
	}
}

// MarshalJSON serializes the node in its declarative form.
func (s ArraySchema) MarshalJSON() ([]byte, error) { return marshalJSON(s) }

// MarshalJSON serializes the node in its declarative form.
func (s ObjectSchema) MarshalJSON() ([]byte, error) { return marshalJSON(s) }

// MarshalYAML serializes the node in its declarative form.
func (s ArraySchema) MarshalYAML() (any, error) { return Declare(s) }

// MarshalYAML serializes the node in its declarative form.
func (s ObjectSchema) MarshalYAML() (any, error) { return Declare(s) }

func marshalJSON(s Schema) ([]byte, error) {
	d, err := Declare(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(d)
}

// ParseJSON decodes a JSON schema document.
func ParseJSON(data []byte) (Schema, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	return Parse(raw)
}

// ParseYAML decodes a YAML schema document. JSON is valid YAML, so this accepts both.
func ParseYAML(data []byte) (Schema, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	return Parse(raw)
}

// Document wraps a Schema so it can be embedded in JSON or YAML structures.
type Document struct {
	Schema Schema
}

// MarshalJSON serializes the wrapped schema in its declarative form.
func (d Document) MarshalJSON() ([]byte, error) {
	if d.Schema == nil {
		return []byte("null"), nil
	}
	return marshalJSON(d.Schema)
}

// UnmarshalJSON parses the declarative form into the wrapped schema.
func (d *Document) UnmarshalJSON(data []byte) error {
	if d == nil {
		return fmt.Errorf("schema: UnmarshalJSON on nil pointer")
	}
	if string(data) == "null" {
		d.Schema = nil
		return nil
	}
	s, err := ParseJSON(data)
	if err != nil {
		return err
	}
	d.Schema = s
	return nil
}

// MarshalYAML serializes the wrapped schema in its declarative form.
func (d Document) MarshalYAML() (any, error) {
	if d.Schema == nil {
		return nil, nil
	}
	return Declare(d.Schema)
}

// UnmarshalYAML parses the declarative form into the wrapped schema.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	s, err := Parse(raw)
	if err != nil {
		return err
	}
	d.Schema = s
	return nil
}
