/*
Package shapeguard is a recursive structural validator for untrusted, loosely typed input.

A schema describes the exact shape expected from decoded data: arrays with a
single item schema, objects with a closed set of fields, and scalar type tags.
Given a schema and a value, the validator returns one verdict: invalid or not.
It never coerces input, never reports which field failed, and never panics.

# Usage

	s := schema.MustParse(map[string]any{
		"kind": "object",
		"fields": map[string]any{
			"name": "string",
			"age":  "number",
		},
	})

	guard := shapeguard.New(shapeguard.WithLogger(logger))
	if guard.InvalidStructure(s, input) {
		// reject the request
	}

Named schemas live in a ports.SchemaStore (memory, file or Redis) and are resolved
through the registry:

	_ = guard.Registry().Register(ctx, "user", s)
	invalid, err := guard.CheckJSON(ctx, "user", body)

# Adapters

  - HTTP (internal/adapters/http): schema management API, validation endpoint and a body gate middleware.
  - MCP (pkg/adapters/mcp): exposes validation as tools for AI agents.
  - CLI (cmd/shapeguard): check files from the terminal, or run either server.
*/
package shapeguard
