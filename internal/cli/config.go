package cli

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config is the host configuration for the braid CLI.
type Config struct {
	// Listen is the HTTP bind address for serve mode.
	Listen string `mapstructure:"listen"`

	// MetricsListen is the Prometheus bind address. Empty disables metrics.
	MetricsListen string `mapstructure:"metrics_listen"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// Backend selects the snapshot store: "memory" or "redis".
	Backend string `mapstructure:"backend"`

	Redis      RedisConfig      `mapstructure:"redis"`
	Encryption EncryptionConfig `mapstructure:"encryption"`
}

// RedisConfig configures the redis snapshot store and locker.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// TTLSeconds expires sessions. Zero keeps them forever.
	TTLSeconds int `mapstructure:"ttl_seconds"`
	// Lock enables the distributed session locker.
	Lock bool `mapstructure:"lock"`
}

// EncryptionConfig configures snapshot encryption at rest.
type EncryptionConfig struct {
	// Key is the base64-encoded 32-byte active key. Empty disables encryption.
	Key string `mapstructure:"key"`
	// FallbackKeys are base64-encoded previous keys tried on decrypt.
	FallbackKeys []string `mapstructure:"fallback_keys"`
}

// DefaultConfig returns the zero-dependency defaults: in-memory snapshots,
// info logging, loopback HTTP.
func DefaultConfig() Config {
	return Config{
		Listen:        ":8080",
		MetricsListen: "",
		LogLevel:      "info",
		Backend:       "memory",
		Redis: RedisConfig{
			Address: "localhost:6379",
		},
	}
}

// LoadConfig reads a YAML config file and decodes it over the defaults.
// The YAML is unmarshalled into a generic map first and bound to the typed
// struct with mapstructure, so unknown keys are tolerated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	if err := mapstructure.Decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config %q: %w", path, err)
	}
	return cfg, nil
}

// DecodeKeys turns the base64 key material into raw bytes.
func (e EncryptionConfig) DecodeKeys() (active []byte, fallbacks [][]byte, err error) {
	if e.Key == "" {
		return nil, nil, nil
	}
	active, err = base64.StdEncoding.DecodeString(e.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid encryption key: %w", err)
	}
	for i, fk := range e.FallbackKeys {
		raw, err := base64.StdEncoding.DecodeString(fk)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid fallback key %d: %w", i, err)
		}
		fallbacks = append(fallbacks, raw)
	}
	return active, fallbacks, nil
}
