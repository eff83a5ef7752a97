package shapeguard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/shapeguard/internal/adapters/memory"
	"github.com/aretw0/shapeguard/internal/logging"
	"github.com/aretw0/shapeguard/pkg/observability"
	"github.com/aretw0/shapeguard/pkg/ports"
	"github.com/aretw0/shapeguard/pkg/registry"
	"github.com/aretw0/shapeguard/pkg/schema"
	"github.com/aretw0/shapeguard/pkg/validator"
)

// Guard is the high-level entry point for the shapeguard library.
// It combines the validator with a registry of named schemas and optional metrics.
type Guard struct {
	validator *validator.Validator
	registry  *registry.Registry
	store     ports.SchemaStore
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Guard.
type Option func(*Guard)

// WithLogger sets the structured logger that receives fault diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// WithStore injects the SchemaStore backing named schemas (default: in memory).
func WithStore(store ports.SchemaStore) Option {
	return func(g *Guard) {
		g.store = store
	}
}

// WithMetrics records every check on the given collectors.
func WithMetrics(m *observability.Metrics) Option {
	return func(g *Guard) {
		g.metrics = m
	}
}

// New initializes a Guard.
func New(opts ...Option) *Guard {
	g := &Guard{}
	for _, opt := range opts {
		opt(g)
	}

	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	if g.store == nil {
		g.store = memory.New()
	}

	g.validator = validator.New(validator.WithLogger(g.logger))
	g.registry = registry.New(g.store)
	return g
}

// Registry exposes the named schema registry.
func (g *Guard) Registry() *registry.Registry {
	return g.registry
}

// Logger returns the logger the guard reports to.
func (g *Guard) Logger() *slog.Logger {
	return g.logger
}

// InvalidStructure reports whether input does NOT conform to s.
// It never panics; internal faults are logged and count as invalid.
func (g *Guard) InvalidStructure(s schema.Schema, input any) bool {
	return g.evaluate("", s, input) != validator.Valid
}

// Check validates input against the schema registered under name.
// The error is only set when the schema cannot be resolved; the verdict is then true.
func (g *Guard) Check(ctx context.Context, name string, input any) (bool, error) {
	s, err := g.registry.Lookup(ctx, name)
	if err != nil {
		return true, err
	}
	return g.evaluate(name, s, input) != validator.Valid, nil
}

// CheckJSON decodes data and validates it against the schema registered under name.
// Undecodable JSON is invalid, not an error.
func (g *Guard) CheckJSON(ctx context.Context, name string, data []byte) (bool, error) {
	s, err := g.registry.Lookup(ctx, name)
	if err != nil {
		return true, err
	}

	input, err := DecodeJSON(data)
	if err != nil {
		g.logger.Debug("Rejected undecodable input", "schema", name, "error", err)
		g.metrics.Observe(name, validator.Invalid, 0)
		return true, nil
	}
	return g.evaluate(name, s, input) != validator.Valid, nil
}

func (g *Guard) evaluate(name string, s schema.Schema, input any) validator.Outcome {
	start := time.Now()
	outcome := g.validator.Evaluate(s, input)
	g.metrics.Observe(name, outcome, time.Since(start))
	return outcome
}

// ErrTrailingData is returned by DecodeJSON when more than one JSON value is present.
var ErrTrailingData = errors.New("unexpected data after JSON value")

// DecodeJSON decodes a single JSON value, keeping numbers as json.Number.
func DecodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return v, nil
}
