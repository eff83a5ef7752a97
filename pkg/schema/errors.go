package schema

import (
	"errors"
	"fmt"
)

// ErrMalformedSchema is wrapped by every error describing a schema that cannot be used.
var ErrMalformedSchema = errors.New("malformed schema")

// ParseError reports a single problem found while building a schema from its declarative form.
type ParseError struct {
	Path   string // Location of the offending node, e.g. "$.fields.tags.item"
	Reason string // Human-readable reason for failure
	Value  any    // The raw value that could not be parsed
}

func (e *ParseError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("schema %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("schema %s: %s (got %T)", e.Path, e.Reason, e.Value)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedSchema
}

// AggregateError represents multiple independent failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d schema errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
