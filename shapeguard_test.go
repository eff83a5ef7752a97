package shapeguard_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/shapeguard"
	"github.com/aretw0/shapeguard/pkg/observability"
	"github.com/aretw0/shapeguard/pkg/ports"
	"github.com/aretw0/shapeguard/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var user = schema.Object(map[string]schema.Schema{
	"name": schema.String(),
	"age":  schema.Number(),
})

func TestGuard_CheckJSON(t *testing.T) {
	ctx := context.Background()
	guard := shapeguard.New()
	require.NoError(t, guard.Registry().Register(ctx, "user", user))

	tests := []struct {
		name string
		body string
		want bool
	}{
		{"conforms", `{"name":"Al","age":30}`, false},
		{"reordered keys", `{"age":30,"name":"Al"}`, false},
		{"missing key", `{"name":"Al"}`, true},
		{"wrong type", `{"name":"Al","age":"30"}`, true},
		{"null", `null`, true},
		{"not json", `{"name":`, true},
		{"trailing data", `{"name":"Al","age":30} {}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invalid, err := guard.CheckJSON(ctx, "user", []byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, invalid)
		})
	}
}

func TestGuard_UnknownSchema(t *testing.T) {
	guard := shapeguard.New()
	invalid, err := guard.Check(context.Background(), "nope", map[string]any{})
	assert.True(t, invalid)
	assert.ErrorIs(t, err, ports.ErrSchemaNotFound)
}

func TestGuard_FaultsAreLoggedAndMeasured(t *testing.T) {
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	guard := shapeguard.New(
		shapeguard.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		shapeguard.WithMetrics(metrics),
	)

	broken := schema.Object(map[string]schema.Schema{"a": nil})
	assert.True(t, guard.InvalidStructure(broken, map[string]any{"a": 1}))
	assert.False(t, guard.InvalidStructure(user, map[string]any{"name": "Al", "age": 1}))

	assert.Contains(t, buf.String(), "Exception in structural validation")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Verdicts.WithLabelValues("inline", "fault")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Verdicts.WithLabelValues("inline", "valid")))
}

func TestDecodeJSON_KeepsNumbers(t *testing.T) {
	v, err := shapeguard.DecodeJSON([]byte(`{"big": 12345678901234567890}`))
	require.NoError(t, err)
	assert.Equal(t, schema.TypeNumber, schema.TypeOf(v.(map[string]any)["big"]))
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, shapeguard.Version)
}
