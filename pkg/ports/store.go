package ports

import (
	"context"
	"errors"
	"regexp"

	"github.com/aretw0/shapeguard/pkg/schema"
)

// ErrSchemaNotFound is returned when a schema name cannot be found in the store.
var ErrSchemaNotFound = errors.New("schema not found")

// ErrInvalidName is returned when a schema name is empty or not a safe identifier.
var ErrInvalidName = errors.New("invalid schema name")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateName checks that a schema name can be used as a store key and file name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

// SchemaStore defines the interface for persisting named schemas.
type SchemaStore interface {
	// Save persists the schema under the given name, replacing any previous one.
	Save(ctx context.Context, name string, s schema.Schema) error

	// Load retrieves the schema for a given name.
	// Returns ErrSchemaNotFound if the schema does not exist.
	Load(ctx context.Context, name string) (schema.Schema, error)

	// Delete removes the schema. Deleting an unknown name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored schemas in lexical order.
	List(ctx context.Context) ([]string, error)
}
