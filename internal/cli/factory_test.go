package cli

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/shapeguard/internal/adapters/file"
	"github.com/aretw0/shapeguard/internal/adapters/memory"
	"github.com/aretw0/shapeguard/internal/adapters/redis"
	"github.com/aretw0/shapeguard/internal/config"
	"github.com/aretw0/shapeguard/internal/logging"
	"github.com/aretw0/shapeguard/pkg/observability"
	"github.com/aretw0/shapeguard/pkg/ports"
	"github.com/aretw0/shapeguard/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, driver string) *config.Config {
	t.Helper()
	return &config.Config{
		LogLevel: "info",
		Store: config.StoreConfig{
			Driver: driver,
			Dir:    t.TempDir(),
			Redis:  config.RedisConfig{Prefix: "test:"},
		},
		HTTP:    config.HTTPConfig{Port: 8080},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

func TestBootstrap_Drivers(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		driver string
		check  func(t *testing.T, svc *Services)
	}{
		{config.DriverMemory, func(t *testing.T, svc *Services) {
			assert.IsType(t, &memory.Store{}, svc.Store)
		}},
		{config.DriverFile, func(t *testing.T, svc *Services) {
			assert.IsType(t, &file.Store{}, svc.Store)
		}},
		{config.DriverRedis, func(t *testing.T, svc *Services) {
			assert.IsType(t, &redis.Store{}, svc.Store)
			assert.True(t, mr.Exists("test:tags"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := testConfig(t, tt.driver)
			cfg.Store.Redis.Addr = mr.Addr()

			svc, err := Bootstrap(cfg, logging.NewNop())
			require.NoError(t, err)
			defer svc.Close()

			ctx := context.Background()
			require.NoError(t, svc.Guard.Registry().Register(ctx, "tags", schema.Array(schema.String())))

			invalid, err := svc.Guard.CheckJSON(ctx, "tags", []byte(`["a"]`))
			require.NoError(t, err)
			assert.False(t, invalid)

			tt.check(t, svc)
		})
	}
}

func TestBootstrap_RedisTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t, config.DriverRedis)
	cfg.Store.Redis.Addr = mr.Addr()
	cfg.Store.Redis.TTL = time.Minute

	svc, err := Bootstrap(cfg, logging.NewNop())
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.Store.Save(context.Background(), "flag", schema.Boolean()))
	assert.Equal(t, time.Minute, mr.TTL("test:flag"))
}

func TestBootstrap_Metrics(t *testing.T) {
	cfg := testConfig(t, config.DriverMemory)
	svc, err := Bootstrap(cfg, logging.NewNop())
	require.NoError(t, err)
	require.NotNil(t, svc.Metrics)

	svc.Guard.InvalidStructure(schema.Number(), 1)

	families, err := svc.Metrics.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "shapeguard_verdicts_total" {
			found = true
		}
	}
	assert.True(t, found)

	cfg.Metrics.Enabled = false
	svc, err = Bootstrap(cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, svc.Metrics)
}

type closeRecorder struct{ closed bool }

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestBootstrap_MetricsFailureClosesStore(t *testing.T) {
	rec := &closeRecorder{}
	origStore, origRegistry := openStore, newRegistry
	t.Cleanup(func() { openStore, newRegistry = origStore, origRegistry })

	openStore = func(config.StoreConfig) (ports.SchemaStore, io.Closer, error) {
		return memory.New(), rec, nil
	}
	newRegistry = func() *prometheus.Registry {
		reg := prometheus.NewRegistry()
		// Taken names make the second registration fail.
		_, err := observability.NewMetrics(reg)
		require.NoError(t, err)
		return reg
	}

	svc, err := Bootstrap(testConfig(t, config.DriverMemory), logging.NewNop())
	require.Error(t, err)
	assert.Nil(t, svc)
	assert.True(t, rec.closed, "store must be closed when bootstrap fails")
}

func TestCreateStore_UnknownDriver(t *testing.T) {
	_, _, err := createStore(config.StoreConfig{Driver: "sqlite"})
	assert.Error(t, err)
}
