package ports_test

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/aretw0/shapeguard/pkg/ports"
	"github.com/aretw0/shapeguard/pkg/schema"
)

// mockStore keeps schemas in their declarative form to simulate serialization.
type mockStore struct {
	data map[string]any
}

func (m *mockStore) Save(ctx context.Context, name string, s schema.Schema) error {
	if err := ports.ValidateName(name); err != nil {
		return err
	}
	decl, err := schema.Declare(s)
	if err != nil {
		return fmt.Errorf("failed to declare schema: %w", err)
	}
	m.data[name] = decl
	return nil
}

func (m *mockStore) Load(ctx context.Context, name string) (schema.Schema, error) {
	decl, ok := m.data[name]
	if !ok {
		return nil, ports.ErrSchemaNotFound
	}
	return schema.Parse(decl)
}

func (m *mockStore) Delete(ctx context.Context, name string) error {
	delete(m.data, name)
	return nil
}

func (m *mockStore) List(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func TestSchemaStore_Contract(t *testing.T) {
	ports.RunSchemaStoreContract(t, &mockStore{data: make(map[string]any)})
}

func TestValidateName(t *testing.T) {
	for _, ok := range []string{"user", "user.v2", "Order_Item-1"} {
		if err := ports.ValidateName(ok); err != nil {
			t.Errorf("ValidateName(%q) = %v, want nil", ok, err)
		}
	}
	for _, bad := range []string{"", ".hidden", "a/b", "../x", "with space"} {
		if err := ports.ValidateName(bad); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", bad)
		}
	}
}
