package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/aretw0/shapeguard/pkg/ports"
	"github.com/aretw0/shapeguard/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstore = `
openapi: 3.0.3
info:
  title: pets
  version: "1"
paths: {}
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
        tags:
          type: array
          items:
            type: string
    Age:
      type: integer
    Choice:
      oneOf:
        - type: string
        - type: number
`

func TestSchemaCommands(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()

	require.NoError(t, PutSchema(ctx, svc, "user", writeTemp(t, "user.yaml", userSchemaYAML)))

	var buf bytes.Buffer
	require.NoError(t, ListSchemas(ctx, svc, &buf))
	assert.Equal(t, "user\n", buf.String())

	buf.Reset()
	require.NoError(t, ShowSchema(ctx, svc, "user", &buf))
	parsed, err := schema.ParseYAML(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "{age: number, name: string}", parsed.String())

	require.NoError(t, RemoveSchema(ctx, svc, "user"))
	err = ShowSchema(ctx, svc, "user", &buf)
	assert.ErrorIs(t, err, ports.ErrSchemaNotFound)
}

func TestPutSchema_InvalidName(t *testing.T) {
	svc := newServices(t)
	err := PutSchema(context.Background(), svc, "../escape", writeTemp(t, "s.yaml", "string"))
	assert.ErrorIs(t, err, ports.ErrInvalidName)
}

func TestImportOpenAPI(t *testing.T) {
	svc := newServices(t)
	ctx := context.Background()
	path := writeTemp(t, "openapi.yaml", petstore)

	imported, err := ImportOpenAPI(ctx, svc, path, nil)
	assert.ErrorIs(t, err, schema.ErrMalformedSchema, "oneOf cannot be expressed")
	assert.Equal(t, []string{"Age", "Pet"}, imported)

	pet, err := svc.Guard.Registry().Lookup(ctx, "Pet")
	require.NoError(t, err)
	assert.Equal(t, "{name: string, tags: [string]}", pet.String())
}

func TestImportOpenAPI_Only(t *testing.T) {
	svc := newServices(t)
	imported, err := ImportOpenAPI(context.Background(), svc, writeTemp(t, "openapi.yaml", petstore), []string{"Pet"})
	assert.Error(t, err)
	assert.Equal(t, []string{"Pet"}, imported)
}

func TestImportOpenAPI_MissingFile(t *testing.T) {
	svc := newServices(t)
	imported, err := ImportOpenAPI(context.Background(), svc, "does-not-exist.yaml", nil)
	assert.Error(t, err)
	assert.Empty(t, imported)
}
