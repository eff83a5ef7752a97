package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/aretw0/shapeguard/pkg/schema"
	"gopkg.in/yaml.v3"
)

// ListSchemas prints the registered schema names, one per line.
func ListSchemas(ctx context.Context, svc *Services, w io.Writer) error {
	names, err := svc.Guard.Registry().Names(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(w, name)
	}
	return nil
}

// ShowSchema prints the declarative form of a registered schema as YAML.
func ShowSchema(ctx context.Context, svc *Services, name string, w io.Writer) error {
	sch, err := svc.Guard.Registry().Lookup(ctx, name)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(schema.Document{Schema: sch}); err != nil {
		return err
	}
	return enc.Close()
}

// PutSchema registers the declaration file at path under name.
func PutSchema(ctx context.Context, svc *Services, name, path string) error {
	sch, err := LoadSchemaFile(path)
	if err != nil {
		return err
	}
	if err := svc.Guard.Registry().Register(ctx, name, sch); err != nil {
		return err
	}
	svc.Logger.Info("Schema registered", "schema", name, "kind", sch.Kind())
	return nil
}

// RemoveSchema deletes a registered schema.
func RemoveSchema(ctx context.Context, svc *Services, name string) error {
	if err := svc.Guard.Registry().Remove(ctx, name); err != nil {
		return err
	}
	svc.Logger.Info("Schema removed", "schema", name)
	return nil
}

// ImportOpenAPI registers the component schemas of an OpenAPI document.
// With a non-empty only list, other components are skipped. Components that
// cannot be expressed structurally are reported in the returned error while
// the rest are still imported.
func ImportOpenAPI(ctx context.Context, svc *Services, path string, only []string) ([]string, error) {
	components, convErr := schema.LoadOpenAPIComponents(path)
	if components == nil {
		return nil, convErr
	}

	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = true
	}

	names := make([]string, 0, len(components))
	for name := range components {
		if len(wanted) > 0 && !wanted[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	if convErr != nil {
		errs = append(errs, convErr)
	}

	imported := make([]string, 0, len(names))
	for _, name := range names {
		if err := svc.Guard.Registry().Register(ctx, name, components[name]); err != nil {
			errs = append(errs, err)
			continue
		}
		svc.Logger.Debug("Imported component", "schema", name)
		imported = append(imported, name)
	}
	return imported, errors.Join(errs...)
}
