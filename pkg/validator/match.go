package validator

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/aretw0/shapeguard/pkg/schema"
)

// match is the recursive step. A true result is a clean structural mismatch;
// a non-nil error is an internal fault and short-circuits the walk.
// Nodes are only checked when evaluation reaches them.
func match(s schema.Schema, input any) (bool, error) {
	switch n := s.(type) {
	case schema.ArraySchema:
		return matchArray(n, input)
	case schema.ObjectSchema:
		return matchObject(n, input)
	case schema.Scalar:
		if n == "" {
			return true, fmt.Errorf("%w: empty type tag", schema.ErrMalformedSchema)
		}
		return schema.TypeOf(input) != string(n), nil
	case schema.Malformed:
		return true, fmt.Errorf("%w: %s", schema.ErrMalformedSchema, n.Reason)
	case nil:
		return true, fmt.Errorf("%w: missing schema node", schema.ErrMalformedSchema)
	default:
		return true, fmt.Errorf("%w: unknown node type %T", schema.ErrMalformedSchema, s)
	}
}

func matchArray(n schema.ArraySchema, input any) (bool, error) {
	if items, ok := input.([]any); ok {
		for i, item := range items {
			mismatch, err := match(n.Item, item)
			if err != nil {
				return true, at(err, "["+strconv.Itoa(i)+"]")
			}
			if mismatch {
				return true, nil
			}
		}
		return false, nil
	}

	rv, ok := deref(input)
	if !ok || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return true, nil
	}
	for i := 0; i < rv.Len(); i++ {
		mismatch, err := match(n.Item, rv.Index(i).Interface())
		if err != nil {
			return true, at(err, "["+strconv.Itoa(i)+"]")
		}
		if mismatch {
			return true, nil
		}
	}
	return false, nil
}

func matchObject(n schema.ObjectSchema, input any) (bool, error) {
	entries, ok := record(input)
	if !ok {
		return true, nil
	}

	// Key sets must be equal. Input keys are unique, so equal size plus
	// containment is set equality regardless of enumeration order.
	if len(entries) != len(n.Fields) {
		return true, nil
	}
	for _, e := range entries {
		if _, declared := n.Fields[e.key]; !declared {
			return true, nil
		}
	}

	for _, e := range entries {
		mismatch, err := match(n.Fields[e.key], e.value)
		if err != nil {
			return true, at(err, "."+e.key)
		}
		if mismatch {
			return true, nil
		}
	}
	return false, nil
}

type entry struct {
	key   string
	value any
}

// record returns the entries of a keyed, non-nil, non-sequence value sorted by key.
// Maps whose keys are not all strings are not records.
func record(input any) ([]entry, bool) {
	if m, ok := input.(map[string]any); ok {
		entries := make([]entry, 0, len(m))
		for k, v := range m {
			entries = append(entries, entry{key: k, value: v})
		}
		sortEntries(entries)
		return entries, true
	}

	rv, ok := deref(input)
	if !ok || rv.Kind() != reflect.Map {
		return nil, false
	}

	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		if k.Kind() == reflect.Interface {
			k = k.Elem()
		}
		if k.Kind() != reflect.String {
			return nil, false
		}
		entries = append(entries, entry{key: k.String(), value: iter.Value().Interface()})
	}
	sortEntries(entries)
	return entries, true
}

func sortEntries(entries []entry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
}

// deref unwraps pointers. It reports false for nil values, nil pointers and
// pointer chains that loop back on themselves.
func deref(input any) (reflect.Value, bool) {
	rv := reflect.ValueOf(input)
	var seen map[uintptr]struct{}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		if seen == nil {
			seen = make(map[uintptr]struct{})
		}
		addr := rv.Pointer()
		if _, loop := seen[addr]; loop {
			return reflect.Value{}, false
		}
		seen[addr] = struct{}{}
		rv = rv.Elem()
	}
	return rv, rv.IsValid()
}

// at prefixes the location of a fault as the recursion unwinds.
func at(err error, segment string) error {
	var fe *FaultError
	if errors.As(err, &fe) {
		fe.Path = segment + fe.Path
		return fe
	}
	return &FaultError{Path: segment, Err: err}
}
