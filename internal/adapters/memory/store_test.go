package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/shapeguard/internal/adapters/memory"
	"github.com/aretw0/shapeguard/pkg/ports"
	"github.com/aretw0/shapeguard/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.New()
	ports.RunSchemaStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	fields := map[string]schema.Schema{"name": schema.String()}
	require.NoError(t, store.Save(ctx, "user", schema.Object(fields)))

	fields["extra"] = schema.Number()

	loaded, err := store.Load(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, "{name: string}", loaded.String())
}
