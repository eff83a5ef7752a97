package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/shapeguard/pkg/ports"
	"github.com/aretw0/shapeguard/pkg/schema"
)

// Registry resolves schema names through a SchemaStore, caching parsed schemas.
// Safe for concurrent use.
type Registry struct {
	store ports.SchemaStore

	mu    sync.RWMutex
	cache map[string]schema.Schema
	// gen counts writes and invalidations per name, epoch counts full
	// invalidations. A Lookup only caches what it loaded when neither moved
	// while it was reading the store.
	gen   map[string]uint64
	epoch uint64
}

// New creates a registry backed by store.
func New(store ports.SchemaStore) *Registry {
	return &Registry{
		store: store,
		cache: make(map[string]schema.Schema),
		gen:   make(map[string]uint64),
	}
}

// Register persists a schema under name and caches it.
// If a schema with the same name exists, it is overwritten.
func (r *Registry) Register(ctx context.Context, name string, s schema.Schema) error {
	if err := r.store.Save(ctx, name, s); err != nil {
		return fmt.Errorf("register %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen[name]++
	r.cache[name] = s
	return nil
}

// Lookup returns the schema registered under name.
// Returns an error wrapping ports.ErrSchemaNotFound if it is unknown.
func (r *Registry) Lookup(ctx context.Context, name string) (schema.Schema, error) {
	r.mu.RLock()
	s, ok := r.cache[name]
	gen, epoch := r.gen[name], r.epoch
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := r.store.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen[name] == gen && r.epoch == epoch {
		r.cache[name] = s
	}
	return s, nil
}

// Remove deletes the schema from the store and the cache.
func (r *Registry) Remove(ctx context.Context, name string) error {
	err := r.store.Delete(ctx, name)

	// Drop the entry even on failure; the store state is unknown.
	r.mu.Lock()
	r.gen[name]++
	delete(r.cache, name)
	r.mu.Unlock()

	if err != nil {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// Names lists the registered schema names as seen by the store.
func (r *Registry) Names(ctx context.Context) ([]string, error) {
	return r.store.List(ctx)
}

// Invalidate drops cached schemas so the next lookup reads the store again.
// With no names, the whole cache is cleared.
func (r *Registry) Invalidate(names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(names) == 0 {
		r.epoch++
		r.cache = make(map[string]schema.Schema)
		return
	}
	for _, name := range names {
		r.gen[name]++
		delete(r.cache, name)
	}
}
