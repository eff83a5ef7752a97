package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/shapeguard/pkg/ports"
	"github.com/aretw0/shapeguard/pkg/schema"
	"gopkg.in/yaml.v3"
)

// extensions are tried in order when loading. Saves always write YAML.
var extensions = []string{".yaml", ".yml", ".json"}

// tmpPrefix marks in-flight writes. Valid names cannot start with a dot.
const tmpPrefix = ".tmp-"

// Store implements ports.SchemaStore using the local filesystem.
// It stores each schema as a declarative YAML document in a configured directory.
// Hand-written .yml and .json documents in the same directory are read too.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".shapeguard/schemas".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".shapeguard", "schemas")
	}
	return &Store{BasePath: basePath}
}

// Save persists the schema to a YAML file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, name string, sch schema.Schema) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}

	decl, err := schema.Declare(sch)
	if err != nil {
		return fmt.Errorf("failed to declare schema %s: %w", name, err)
	}
	data, err := yaml.Marshal(decl)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure schema directory: %w", err)
	}

	// Same directory keeps the rename on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, tmpPrefix+name+"-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Drop stale documents with other extensions so Load sees the new one.
	for _, ext := range extensions[1:] {
		if err := os.Remove(filepath.Join(s.BasePath, name+ext)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale schema file: %w", err)
		}
	}

	destPath := filepath.Join(s.BasePath, name+extensions[0])
	if _, err := os.Stat(destPath); err == nil {
		// os.Rename fails on Windows if dest exists.
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing schema file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to schema file: %w", err)
	}
	return nil
}

// Load reads and parses the schema document for name.
func (s *Store) Load(ctx context.Context, name string) (schema.Schema, error) {
	if err := ports.ValidateName(name); err != nil {
		return nil, ports.ErrSchemaNotFound
	}

	for _, ext := range extensions {
		data, err := os.ReadFile(filepath.Join(s.BasePath, name+ext))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read schema file: %w", err)
		}

		sch, err := schema.ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		return sch, nil
	}
	return nil, ports.ErrSchemaNotFound
}

// Delete removes every document stored for name.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}

	var errs []error
	for _, ext := range extensions {
		err := os.Remove(filepath.Join(s.BasePath, name+ext))
		if err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to delete schema file: %w", errors.Join(errs...))
	}
	return nil
}

// List returns the names of all schema documents in the directory.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), tmpPrefix) {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isSchemaExt(ext) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)
		if ports.ValidateName(name) != nil || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func isSchemaExt(ext string) bool {
	for _, e := range extensions {
		if e == ext {
			return true
		}
	}
	return false
}
