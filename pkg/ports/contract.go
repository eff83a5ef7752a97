package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/shapeguard/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSchemaStoreContract runs a suite of tests to verify that a SchemaStore implementation
// adheres to the defined interface contract.
func RunSchemaStoreContract(t *testing.T, store SchemaStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	user := schema.Object(map[string]schema.Schema{
		"name": schema.String(),
		"age":  schema.Number(),
		"tags": schema.Array(schema.String()),
	})

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, name, user)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, user.String(), loaded.String())
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, schema.Array(schema.Number())))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, "[number]", loaded.String())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, ErrSchemaNotFound)
	})

	t.Run("Invalid Name", func(t *testing.T) {
		assert.ErrorIs(t, store.Save(ctx, "", user), ErrInvalidName)
		assert.ErrorIs(t, store.Save(ctx, "../escape", user), ErrInvalidName)
	})

	t.Run("Malformed Schema Rejected", func(t *testing.T) {
		err := store.Save(ctx, name+"-broken", schema.Malformed{Reason: "broken"})
		assert.ErrorIs(t, err, schema.ErrMalformedSchema)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, user))

		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, ErrSchemaNotFound, "Load after Delete should return ErrSchemaNotFound")

		assert.NoError(t, store.Delete(ctx, name), "Delete of unknown name should succeed")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-b"
		id2 := name + "-a"
		id3 := "tmp-" + name
		for _, id := range []string{id1, id2, id3} {
			require.NoError(t, store.Save(ctx, id, user))
		}

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
			_ = store.Delete(ctx, id3)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.Contains(t, names, id3, "every valid name is listed")
		assert.IsIncreasing(t, names)
	})
}
