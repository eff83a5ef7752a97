package schema

import (
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// FromOpenAPI converts an OpenAPI schema into a structural schema.
//
// Every declared property becomes a required field because object schemas are
// closed records. "integer" maps to "number". Composition keywords (oneOf, anyOf,
// allOf) and recursive references are rejected.
func FromOpenAPI(s *openapi3.Schema) (Schema, error) {
	return fromOpenAPI(s, "$", make(map[*openapi3.Schema]bool))
}

func fromOpenAPI(s *openapi3.Schema, path string, ancestors map[*openapi3.Schema]bool) (Schema, error) {
	if s == nil {
		return nil, &ParseError{Path: path, Reason: "missing schema"}
	}
	if ancestors[s] {
		return nil, &ParseError{Path: path, Reason: "recursive reference"}
	}
	ancestors[s] = true
	defer delete(ancestors, s)

	if len(s.OneOf) > 0 || len(s.AnyOf) > 0 || len(s.AllOf) > 0 {
		return nil, &ParseError{Path: path, Reason: "composition keywords are not supported"}
	}

	typ := ""
	if types := s.Type.Slice(); len(types) == 1 {
		typ = types[0]
	} else if len(types) > 1 {
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("multiple types %v are not supported", types)}
	} else if len(s.Properties) > 0 {
		typ = openapi3.TypeObject
	}

	switch typ {
	case openapi3.TypeObject:
		fields := make(map[string]Schema, len(s.Properties))
		for name, ref := range s.Properties {
			if ref == nil {
				return nil, &ParseError{Path: path + ".fields." + name, Reason: "missing schema"}
			}
			sub, err := fromOpenAPI(ref.Value, path+".fields."+name, ancestors)
			if err != nil {
				return nil, err
			}
			fields[name] = sub
		}
		return ObjectSchema{Fields: fields}, nil

	case openapi3.TypeArray:
		if s.Items == nil {
			return nil, &ParseError{Path: path, Reason: "array schema requires items"}
		}
		item, err := fromOpenAPI(s.Items.Value, path+".item", ancestors)
		if err != nil {
			return nil, err
		}
		return ArraySchema{Item: item}, nil

	case openapi3.TypeString:
		return String(), nil
	case openapi3.TypeNumber, openapi3.TypeInteger:
		return Number(), nil
	case openapi3.TypeBoolean:
		return Boolean(), nil
	case "":
		return nil, &ParseError{Path: path, Reason: "schema has no type"}
	default:
		return nil, &ParseError{Path: path, Reason: fmt.Sprintf("unsupported type %q", typ)}
	}
}

// LoadOpenAPIComponents reads an OpenAPI document and converts every schema
// under components.schemas. Conversion failures are collected, not fatal.
func LoadOpenAPIComponents(path string) (map[string]Schema, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document %s: %w", path, err)
	}
	return ComponentsFromOpenAPI(doc)
}

// ComponentsFromOpenAPI converts the component schemas of a loaded document.
// The returned map holds every component that converted; the error aggregates the rest.
func ComponentsFromOpenAPI(doc *openapi3.T) (map[string]Schema, error) {
	result := make(map[string]Schema)
	if doc == nil || doc.Components == nil {
		return result, nil
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		ref := doc.Components.Schemas[name]
		if ref == nil {
			continue
		}
		s, err := FromOpenAPI(ref.Value)
		if err != nil {
			errs = append(errs, fmt.Errorf("component %s: %w", name, err))
			continue
		}
		result[name] = s
	}

	if len(errs) > 0 {
		return result, &AggregateError{Errors: errs}
	}
	return result, nil
}
