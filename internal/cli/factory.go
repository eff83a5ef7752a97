package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/shapeguard"
	"github.com/aretw0/shapeguard/internal/adapters/file"
	"github.com/aretw0/shapeguard/internal/adapters/memory"
	"github.com/aretw0/shapeguard/internal/adapters/redis"
	"github.com/aretw0/shapeguard/internal/config"
	"github.com/aretw0/shapeguard/pkg/observability"
	"github.com/aretw0/shapeguard/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Services bundles everything a command needs, built from one Config.
type Services struct {
	Config  *config.Config
	Logger  *slog.Logger
	Store   ports.SchemaStore
	Guard   *shapeguard.Guard
	Metrics *prometheus.Registry // nil when metrics are disabled

	closers []io.Closer
}

// Swapped in tests.
var (
	openStore   = createStore
	newRegistry = prometheus.NewRegistry
)

// Bootstrap initializes the store, metrics and guard described by cfg.
func Bootstrap(cfg *config.Config, logger *slog.Logger) (*Services, error) {
	svc := &Services{Config: cfg, Logger: logger}

	store, closer, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	svc.Store = store
	if closer != nil {
		svc.closers = append(svc.closers, closer)
	}

	guardOpts := []shapeguard.Option{
		shapeguard.WithLogger(logger),
		shapeguard.WithStore(store),
	}

	if cfg.Metrics.Enabled {
		reg := newRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics, err := observability.NewMetrics(reg)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("error registering metrics: %w", err)
		}
		svc.Metrics = reg
		guardOpts = append(guardOpts, shapeguard.WithMetrics(metrics))
	}

	svc.Guard = shapeguard.New(guardOpts...)
	logger.Debug("Services ready", "store", cfg.Store.Driver, "metrics", cfg.Metrics.Enabled)
	return svc, nil
}

// Close releases store connections.
func (s *Services) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// createStore selects the SchemaStore implementation for the configured driver.
func createStore(cfg config.StoreConfig) (ports.SchemaStore, io.Closer, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.New(), nil, nil
	case config.DriverFile:
		return file.New(cfg.Dir), nil, nil
	case config.DriverRedis:
		opts := []redis.Option{redis.WithTTL(cfg.Redis.TTL)}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
