package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"primeexplorer/internal/engine"
	"primeexplorer/internal/primes"
)

// Config is the server configuration. Values come from an optional YAML
// file named by PRIME_CONFIG, then from PRIME_* environment variables,
// which take precedence.
type Config struct {
	HTTPAddr        string        `yaml:"http_addr"`
	MaxCount        int           `yaml:"max_count"`
	MaxBound        int           `yaml:"max_bound"`
	MaxCachedPrimes int           `yaml:"max_cached_primes"`
	QueueDepth      int           `yaml:"queue_depth"`
	EnqueueTimeout  time.Duration `yaml:"enqueue_timeout"`
	SnapshotPath    string        `yaml:"snapshot_path"`
}

var ErrInvalid = errors.New("invalid config")

func Default() Config {
	return Config{
		HTTPAddr:        "127.0.0.1:8080",
		MaxCount:        5_000_000,
		MaxBound:        200_000_000,
		MaxCachedPrimes: 1_000_000,
		QueueDepth:      64,
		EnqueueTimeout:  2 * time.Second,
	}
}

// Load builds the configuration from defaults, the YAML file and lookup.
// lookup is usually os.LookupEnv.
func Load(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path, ok := lookup("PRIME_CONFIG"); ok && path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("yaml unmarshal: %w", err)
		}
	}

	if v, ok := lookup("PRIME_HTTP_ADDR"); ok && v != "" {
		cfg.HTTPAddr = v
	}
	if v, ok := lookup("PRIME_SNAPSHOT_PATH"); ok && v != "" {
		cfg.SnapshotPath = v
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"PRIME_MAX_COUNT", &cfg.MaxCount},
		{"PRIME_MAX_BOUND", &cfg.MaxBound},
		{"PRIME_MAX_CACHED", &cfg.MaxCachedPrimes},
		{"PRIME_QUEUE_DEPTH", &cfg.QueueDepth},
	}
	for _, f := range ints {
		v, ok := lookup(f.key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s=%q: %w", f.key, v, ErrInvalid)
		}
		*f.dst = n
	}
	if v, ok := lookup("PRIME_ENQUEUE_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("PRIME_ENQUEUE_TIMEOUT=%q: %w", v, ErrInvalid)
		}
		cfg.EnqueueTimeout = d
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.HTTPAddr == "":
		return fmt.Errorf("http_addr is empty: %w", ErrInvalid)
	case c.MaxCount <= 0:
		return fmt.Errorf("max_count %d: %w", c.MaxCount, ErrInvalid)
	case c.MaxBound < 2 || c.MaxBound > primes.MaxBound:
		return fmt.Errorf("max_bound %d outside [2, %d]: %w", c.MaxBound, primes.MaxBound, ErrInvalid)
	case c.MaxCachedPrimes <= 0:
		return fmt.Errorf("max_cached_primes %d: %w", c.MaxCachedPrimes, ErrInvalid)
	case c.QueueDepth <= 0:
		return fmt.Errorf("queue_depth %d: %w", c.QueueDepth, ErrInvalid)
	case c.EnqueueTimeout <= 0:
		return fmt.Errorf("enqueue_timeout %s: %w", c.EnqueueTimeout, ErrInvalid)
	}
	return nil
}

func (c Config) Engine() engine.Cfg {
	return engine.Cfg{
		MaxBound:        c.MaxBound,
		MaxCachedPrimes: c.MaxCachedPrimes,
		MaxEnqueuing:    c.QueueDepth,
		EnqueueTimeout:  c.EnqueueTimeout,
		SnapshotPath:    c.SnapshotPath,
	}
}
