// Package config loads the strips.yaml settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"github.com/aretw0/strips/internal/logging"
	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "strips.yaml"

var (
	// ErrConfigNotFound is returned when an explicit config path does not exist.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrInvalidConfig is returned for unparsable or out-of-range settings.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrMissingEnvVar is returned when a required ${VAR:?} reference is unset.
	ErrMissingEnvVar = errors.New("missing environment variable")
)

// Config is the full settings tree.
type Config struct {
	Search    SearchConfig    `yaml:"search"`
	Grounding GroundingConfig `yaml:"grounding"`
	Log       LogConfig       `yaml:"log"`
	Cache     CacheConfig     `yaml:"cache"`
	Server    ServerConfig    `yaml:"server"`
}

// SearchConfig bounds a search. Zero values mean unlimited.
type SearchConfig struct {
	MaxExpansions int           `yaml:"max_expansions"`
	Timeout       time.Duration `yaml:"timeout"`
	Workers       int           `yaml:"workers"`
	Generator     string        `yaml:"generator"`
}

type GroundingConfig struct {
	PruneStatic bool `yaml:"prune_static"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// CacheConfig selects where solved plans are kept.
type CacheConfig struct {
	Backend string        `yaml:"backend"`
	LockTTL time.Duration `yaml:"lock_ttl"`
	File    FileConfig    `yaml:"file"`
	Redis   RedisConfig   `yaml:"redis"`

	Encryption EncryptionConfig `yaml:"encryption"`
}

// EncryptionConfig seals stored plans with AES-256-GCM. Keys are base64
// encoded 32-byte values; an empty key disables encryption.
type EncryptionConfig struct {
	Key          string   `yaml:"key"`
	FallbackKeys []string `yaml:"fallback_keys"`
}

type FileConfig struct {
	Dir string `yaml:"dir"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Search: SearchConfig{Workers: 1, Generator: "indexed"},
		Log:    LogConfig{Level: "info", Format: "text"},
		Cache: CacheConfig{
			Backend: CacheMemory,
			LockTTL: 30 * time.Second,
			File:    FileConfig{Dir: ".strips/plans"},
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "strips:plan:"},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads path. With an empty path it reads DefaultFile if present and
// falls back to Default otherwise.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return Default(), nil
		}
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse expands environment references in data and decodes it over Default.
func Parse(data []byte) (*Config, error) {
	expanded, err := expandEnv(string(data))
	if err != nil {
		return nil, err
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Search.MaxExpansions < 0 {
		errs = append(errs, fmt.Errorf("search.max_expansions must not be negative"))
	}
	if c.Search.Timeout < 0 {
		errs = append(errs, fmt.Errorf("search.timeout must not be negative"))
	}
	if c.Search.Workers < 0 {
		errs = append(errs, fmt.Errorf("search.workers must not be negative"))
	}
	if !slices.Contains([]string{"", "indexed", "linear"}, c.Search.Generator) {
		errs = append(errs, fmt.Errorf("search.generator %q is not indexed or linear", c.Search.Generator))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if !slices.Contains([]string{"", "text", "json"}, c.Log.Format) {
		errs = append(errs, fmt.Errorf("log.format %q is not text or json", c.Log.Format))
	}
	if !slices.Contains([]string{"", CacheNone, CacheMemory, CacheFile, CacheRedis}, c.Cache.Backend) {
		errs = append(errs, fmt.Errorf("cache.backend %q is not one of none, memory, file, redis", c.Cache.Backend))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
