// Package schema defines the structural schema model used by the validator.
//
// A schema is a finite tree of three node kinds: arrays with a single item
// schema, objects with an exact closed set of fields, and scalars holding a
// primitive type tag ("string", "number", "boolean", ...).
//
// Schemas can be built programmatically:
//
//	user := schema.Object(map[string]schema.Schema{
//	    "name": schema.String(),
//	    "age":  schema.Number(),
//	    "tags": schema.Array(schema.String()),
//	})
//
// or parsed from their declarative form, as found in JSON or YAML documents:
//
//	s, err := schema.ParseYAML([]byte(`
//	kind: object
//	fields:
//	  name: string
//	  age: number
//	  tags: {kind: array, item: string}
//	`))
//
// Parse rejects malformed declarations with a *ParseError. Lenient never fails:
// it keeps broken nodes as Malformed leaves so the validator can fail closed on them.
//
// FromOpenAPI and LoadOpenAPIComponents import component schemas from an
// OpenAPI 3 document.
package schema
