package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no config file is given explicitly.
const DefaultPath = "shapeguard.yaml"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config is the runtime configuration shared by every command.
type Config struct {
	LogLevel string        `mapstructure:"log_level"`
	Store    StoreConfig   `mapstructure:"store"`
	HTTP     HTTPConfig    `mapstructure:"http"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
}

// StoreConfig selects and configures the schema store.
type StoreConfig struct {
	Driver string      `mapstructure:"driver"`
	Dir    string      `mapstructure:"dir"`
	Redis  RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the Redis schema store.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

// MetricsConfig toggles Prometheus instrumentation.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func defaults() map[string]any {
	return map[string]any{
		"log_level": "info",
		"store": map[string]any{
			"driver": DriverFile,
			"dir":    filepath.Join(".shapeguard", "schemas"),
			"redis": map[string]any{
				"addr":   "localhost:6379",
				"db":     0,
				"prefix": "shapeguard:schema:",
				"ttl":    "0s",
			},
		},
		"http": map[string]any{
			"port": 8080,
		},
		"metrics": map[string]any{
			"enabled": true,
		},
	}
}

// envBindings maps environment variables to config keys.
var envBindings = map[string][]string{
	"SHAPEGUARD_LOG_LEVEL":       {"log_level"},
	"SHAPEGUARD_STORE_DRIVER":    {"store", "driver"},
	"SHAPEGUARD_STORE_DIR":       {"store", "dir"},
	"SHAPEGUARD_REDIS_ADDR":      {"store", "redis", "addr"},
	"SHAPEGUARD_REDIS_PASSWORD":  {"store", "redis", "password"},
	"SHAPEGUARD_REDIS_DB":        {"store", "redis", "db"},
	"SHAPEGUARD_REDIS_PREFIX":    {"store", "redis", "prefix"},
	"SHAPEGUARD_REDIS_TTL":       {"store", "redis", "ttl"},
	"SHAPEGUARD_HTTP_PORT":       {"http", "port"},
	"SHAPEGUARD_METRICS_ENABLED": {"metrics", "enabled"},
}

// Load reads configuration from path (YAML or JSON), then applies SHAPEGUARD_*
// environment overrides. An empty path reads DefaultPath if it exists.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	raw := defaults()

	file, err := readFile(path)
	if err != nil {
		return nil, err
	}
	merge(raw, file)

	for env, keys := range envBindings {
		if val, ok := lookup(env); ok {
			set(raw, keys, val)
		}
	}

	var cfg Config
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that decoding alone cannot.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		return fmt.Errorf("invalid config: unknown store driver %q", c.Store.Driver)
	}
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid config: http port %d out of range", c.HTTP.Port)
	}
	if c.Store.Redis.TTL < 0 {
		return fmt.Errorf("invalid config: negative redis ttl")
	}
	return nil
}

func readFile(path string) (map[string]any, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	out := map[string]any{}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// merge copies src into dst, descending into nested maps.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			if existing, ok := dst[k].(map[string]any); ok {
				merge(existing, sub)
				continue
			}
		}
		dst[k] = v
	}
}

func set(m map[string]any, keys []string, val any) {
	for _, k := range keys[:len(keys)-1] {
		next, ok := m[k].(map[string]any)
		if !ok {
			next = map[string]any{}
			m[k] = next
		}
		m = next
	}
	m[keys[len(keys)-1]] = val
}
