package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(mapLookup(nil))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prime.yaml")
	body := []byte("http_addr: 0.0.0.0:9000\nmax_count: 1000\nmax_bound: 50000\nenqueue_timeout: 750ms\nsnapshot_path: /tmp/primes.snap\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(mapLookup(map[string]string{
		"PRIME_CONFIG":    path,
		"PRIME_MAX_COUNT": "2000",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != "0.0.0.0:9000" {
		t.Fatalf("http addr from file: got %q", cfg.HTTPAddr)
	}
	if cfg.MaxCount != 2000 {
		t.Fatalf("env should override file max_count: got %d", cfg.MaxCount)
	}
	if cfg.MaxBound != 50000 {
		t.Fatalf("max bound from file: got %d", cfg.MaxBound)
	}
	if cfg.EnqueueTimeout != 750*time.Millisecond {
		t.Fatalf("enqueue timeout from file: got %s", cfg.EnqueueTimeout)
	}
	if cfg.QueueDepth != Default().QueueDepth {
		t.Fatalf("queue depth should keep its default: got %d", cfg.QueueDepth)
	}

	ec := cfg.Engine()
	if ec.MaxBound != 50000 || ec.SnapshotPath != "/tmp/primes.snap" || ec.MaxEnqueuing != cfg.QueueDepth {
		t.Fatalf("engine cfg not derived from config: %+v", ec)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"non numeric":   {"PRIME_MAX_COUNT": "lots"},
		"bad duration":  {"PRIME_ENQUEUE_TIMEOUT": "soon"},
		"zero count":    {"PRIME_MAX_COUNT": "0"},
		"bound too big": {"PRIME_MAX_BOUND": "4294967296"},
		"tiny bound":    {"PRIME_MAX_BOUND": "1"},
	}
	for name, env := range cases {
		if _, err := Load(mapLookup(env)); !errors.Is(err, ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(mapLookup(map[string]string{"PRIME_CONFIG": filepath.Join(t.TempDir(), "nope.yaml")}))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}
