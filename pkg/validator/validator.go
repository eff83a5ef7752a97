package validator

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/shapeguard/internal/logging"
	"github.com/aretw0/shapeguard/pkg/schema"
)

// Outcome classifies a single evaluation.
// Both Invalid and Fault produce the verdict "invalid".
type Outcome string

const (
	Valid   Outcome = "valid"
	Invalid Outcome = "invalid"
	Fault   Outcome = "fault"
)

// ErrPanic is wrapped by faults recovered from a panic during evaluation.
var ErrPanic = errors.New("panic during evaluation")

// FaultError describes an internal fault: the schema itself could not be evaluated.
// It is reported to the logger and never returned by InvalidStructure.
type FaultError struct {
	Path string // Location in the input where evaluation broke, e.g. "$.items[2].id"
	Err  error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("at %s: %v", e.Path, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

// Validator decides whether values conform to structural schemas.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	logger  *slog.Logger
	onFault func(*FaultError)
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger that receives fault diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithFaultHandler registers a callback invoked for every internal fault, after logging.
// The handler must not panic.
func WithFaultHandler(fn func(*FaultError)) Option {
	return func(v *Validator) {
		v.onFault = fn
	}
}

// New creates a Validator. Without WithLogger, fault diagnostics are discarded.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = logging.NewNop()
	}
	return v
}

var defaultValidator = New()

// InvalidStructure reports whether input does NOT conform to s, using a validator
// that discards diagnostics. See Validator.InvalidStructure.
func InvalidStructure(s schema.Schema, input any) bool {
	return defaultValidator.InvalidStructure(s, input)
}

// InvalidStructure reports whether input does NOT conform to s.
//
// It returns false only when input matches the schema exactly. Structural
// mismatches and internal faults (malformed schema nodes, unexpected panics)
// both return true; faults are logged. It never panics and never mutates its
// arguments.
func (v *Validator) InvalidStructure(s schema.Schema, input any) bool {
	return v.Evaluate(s, input) != Valid
}

// Evaluate classifies input against s as Valid, Invalid or Fault.
func (v *Validator) Evaluate(s schema.Schema, input any) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			v.report(s, &FaultError{Path: "$", Err: fmt.Errorf("%w: %v", ErrPanic, r)})
			outcome = Fault
		}
	}()

	mismatch, err := match(s, input)
	if err != nil {
		fe := &FaultError{Err: err}
		var located *FaultError
		if errors.As(err, &located) {
			fe = located
		}
		fe.Path = "$" + fe.Path
		v.report(s, fe)
		return Fault
	}
	if mismatch {
		return Invalid
	}
	return Valid
}

func (v *Validator) report(s schema.Schema, fe *FaultError) {
	kind := "nil"
	if s != nil {
		kind = string(s.Kind())
	}
	v.logger.Error("Exception in structural validation",
		"error", fe.Err,
		"path", fe.Path,
		"schema_kind", kind,
		"schema_depth", schema.Depth(s),
	)
	if v.onFault != nil {
		v.onFault(fe)
	}
}
