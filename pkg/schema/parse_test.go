package schema

import (
	"errors"
	"testing"
)

func TestParse_Scalar(t *testing.T) {
	s, err := Parse("string")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s != Scalar("string") {
		t.Errorf("Parse() = %v, want string", s)
	}
}

func TestParse_ObjectAndArray(t *testing.T) {
	raw := map[string]any{
		"kind": "array",
		"item": map[string]any{
			"kind": "object",
			"fields": map[string]any{
				"id":   "number",
				"tags": map[string]any{"kind": "array", "item": "string"},
			},
		},
	}

	s, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	arr, ok := s.(ArraySchema)
	if !ok {
		t.Fatalf("Parse() = %T, want ArraySchema", s)
	}
	obj, ok := arr.Item.(ObjectSchema)
	if !ok {
		t.Fatalf("item = %T, want ObjectSchema", arr.Item)
	}
	if got := obj.Fields["id"]; got != Number() {
		t.Errorf("id = %v, want number", got)
	}
	if got := obj.Fields["tags"].String(); got != "[string]" {
		t.Errorf("tags = %q, want [string]", got)
	}
	if Depth(s) != 3 {
		t.Errorf("Depth() = %d, want 3", Depth(s))
	}
}

func TestParse_LegacyKeys(t *testing.T) {
	raw := map[string]any{
		"type": "object",
		"struct": map[string]any{
			"name": "string",
		},
	}

	s, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.String() != "{name: string}" {
		t.Errorf("Parse() = %q, want {name: string}", s.String())
	}
}

func TestParse_ScalarMap(t *testing.T) {
	s, err := Parse(map[string]any{"kind": "boolean"})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s != Boolean() {
		t.Errorf("Parse() = %v, want boolean", s)
	}
}

func TestParse_EmptyObject(t *testing.T) {
	s, err := Parse(map[string]any{"kind": "object", "fields": map[string]any{}})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	obj := s.(ObjectSchema)
	if len(obj.Fields) != 0 {
		t.Errorf("Fields = %v, want empty", obj.Fields)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		raw      any
		wantPath string
	}{
		{"nil", nil, "$"},
		{"empty tag", "", "$"},
		{"bare array tag", "array", "$"},
		{"number", 42, "$"},
		{"missing kind", map[string]any{"item": "string"}, "$"},
		{"array without item", map[string]any{"kind": "array"}, "$"},
		{"object without fields", map[string]any{"kind": "object"}, "$"},
		{"object with nil fields", map[string]any{"kind": "object", "fields": nil}, "$"},
		{"unknown key", map[string]any{"kind": "array", "item": "string", "min": 1}, "$"},
		{"conflicting kind", map[string]any{"kind": "array", "type": "object"}, "$"},
		{"scalar with item", map[string]any{"kind": "string", "item": "string"}, "$"},
		{"nested", map[string]any{
			"kind":   "object",
			"fields": map[string]any{"tags": map[string]any{"kind": "array"}},
		}, "$.fields.tags"},
		{"nested nil item", map[string]any{"kind": "array", "item": nil}, "$.item"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			if err == nil {
				t.Fatal("Parse() should return error")
			}
			if !errors.Is(err, ErrMalformedSchema) {
				t.Errorf("error should wrap ErrMalformedSchema, got %v", err)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error should be *ParseError, got %T", err)
			}
			if pe.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", pe.Path, tt.wantPath)
			}
		})
	}
}

func TestParse_RejectsCycles(t *testing.T) {
	node := map[string]any{"kind": "array"}
	node["item"] = node

	if _, err := Parse(node); err == nil {
		t.Fatal("Parse() should reject a self-referencing schema")
	}
}

func TestParse_SharedSubtreeIsNotACycle(t *testing.T) {
	shared := map[string]any{"kind": "array", "item": "string"}
	raw := map[string]any{
		"kind":   "object",
		"fields": map[string]any{"a": shared, "b": shared},
	}

	if _, err := Parse(raw); err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
}

func TestLenient_KeepsBrokenNodes(t *testing.T) {
	raw := map[string]any{
		"kind": "object",
		"fields": map[string]any{
			"name": "string",
			"tags": map[string]any{"kind": "array"},
		},
	}

	s := Lenient(raw)
	obj, ok := s.(ObjectSchema)
	if !ok {
		t.Fatalf("Lenient() = %T, want ObjectSchema", s)
	}
	if obj.Fields["name"] != String() {
		t.Errorf("name = %v, want string", obj.Fields["name"])
	}
	if obj.Fields["tags"].Kind() != KindMalformed {
		t.Errorf("tags kind = %v, want malformed", obj.Fields["tags"].Kind())
	}
}

func TestLenient_Nil(t *testing.T) {
	if got := Lenient(nil).Kind(); got != KindMalformed {
		t.Errorf("Lenient(nil).Kind() = %v, want malformed", got)
	}
}

func TestMustParse_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustParse() should panic on malformed input")
		}
	}()
	MustParse(map[string]any{"kind": "array"})
}
