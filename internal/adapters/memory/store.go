package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/shapeguard/pkg/ports"
	"github.com/aretw0/shapeguard/pkg/schema"
)

// Store implements ports.SchemaStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]any
	mu   sync.RWMutex
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		data: make(map[string]any),
	}
}

// Save persists the schema in memory.
func (s *Store) Save(ctx context.Context, name string, sch schema.Schema) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}

	// Keep the declarative form so callers can't mutate stored fields through shared maps.
	decl, err := schema.Declare(sch)
	if err != nil {
		return fmt.Errorf("failed to declare schema %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = decl
	return nil
}

// Load rebuilds the schema from its stored declaration.
func (s *Store) Load(ctx context.Context, name string) (schema.Schema, error) {
	s.mu.RLock()
	decl, ok := s.data[name]
	s.mu.RUnlock()

	if !ok {
		return nil, ports.ErrSchemaNotFound
	}
	return schema.Parse(decl)
}

// Delete removes the schema.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns stored schema names.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.data))
	for name := range s.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
