package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseYAML(t *testing.T) {
	data := `
kind: object
fields:
  name: string
  age: number
  tags:
    kind: array
    item: string
`
	s, err := ParseYAML([]byte(data))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}

	want := "{age: number, name: string, tags: [string]}"
	if s.String() != want {
		t.Errorf("ParseYAML() = %q, want %q", s.String(), want)
	}
}

func TestParseJSON_Invalid(t *testing.T) {
	_, err := ParseJSON([]byte(`{"kind":`))
	if !errors.Is(err, ErrMalformedSchema) {
		t.Errorf("ParseJSON() error = %v, want ErrMalformedSchema", err)
	}
}

func TestSchema_JSONRoundTrip(t *testing.T) {
	original := Array(Object(map[string]Schema{
		"id":     Number(),
		"active": Boolean(),
	}))

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	if !strings.Contains(string(data), `"kind":"array"`) {
		t.Errorf("Marshal() = %s, want declarative kind", data)
	}

	decoded, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round trip = %q, want %q", decoded.String(), original.String())
	}
}

func TestDocument_EmbeddedInYAML(t *testing.T) {
	type file struct {
		Name   string   `yaml:"name"`
		Schema Document `yaml:"schema"`
	}

	in := file{Name: "user", Schema: Document{Schema: Object(map[string]Schema{"name": String()})}}
	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}

	var out file
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if out.Schema.Schema.String() != "{name: string}" {
		t.Errorf("decoded schema = %q", out.Schema.Schema.String())
	}
}

func TestDocument_JSONNull(t *testing.T) {
	var d Document
	if err := json.Unmarshal([]byte("null"), &d); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if d.Schema != nil {
		t.Errorf("Schema = %v, want nil", d.Schema)
	}
}

func TestDocument_RejectsMalformed(t *testing.T) {
	var d Document
	err := json.Unmarshal([]byte(`{"kind":"array"}`), &d)
	if !errors.Is(err, ErrMalformedSchema) {
		t.Errorf("Unmarshal() error = %v, want ErrMalformedSchema", err)
	}
}

func TestDeclare_Malformed(t *testing.T) {
	_, err := Declare(Object(map[string]Schema{"x": Malformed{Reason: "broken"}}))
	if !errors.Is(err, ErrMalformedSchema) {
		t.Errorf("Declare() error = %v, want ErrMalformedSchema", err)
	}
}
