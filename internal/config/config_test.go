//go:build !integration

// File: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadConfig(t *testing.T) {
	p := writeConfig(t, `
log:
  level: debug
  format: console
api:
  base_url: https://api.minerva.example
  timeout: 10s
auth:
  token: abc.def.ghi
  leeway: 2m
storage:
  base_url: https://upload.minerva.example
beacon:
  context_token_budget: 8000
  analysis_cache_ttl: 1m
debug:
  addr: 127.0.0.1:6171
`)
	cfg, err := LoadConfig(p, true)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
		t.Fatalf("log: %+v", cfg.Log)
	}
	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("api timeout: %v", cfg.API.Timeout)
	}
	if cfg.Auth.Leeway != 2*time.Minute {
		t.Fatalf("leeway: %v", cfg.Auth.Leeway)
	}
	if cfg.Beacon.ContextTokenBudget != 8000 || cfg.Beacon.AnalysisCacheTTL != time.Minute {
		t.Fatalf("beacon: %+v", cfg.Beacon)
	}
	if cfg.Debug.Addr != "127.0.0.1:6171" {
		t.Fatalf("debug: %+v", cfg.Debug)
	}
	if !cfg.Runtime.Dev {
		t.Fatal("dev flag not carried into runtime config")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeConfig(t, `
api:
  base_url: https://api.minerva.example
`)
	cfg, err := LoadConfig(p, false)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Fatalf("log defaults: %+v", cfg.Log)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Fatalf("api timeout default: %v", cfg.API.Timeout)
	}
	if cfg.Storage.Timeout != 2*time.Minute {
		t.Fatalf("storage timeout default: %v", cfg.Storage.Timeout)
	}
	if cfg.Auth.Leeway != 30*time.Second {
		t.Fatalf("leeway default: %v", cfg.Auth.Leeway)
	}
	if cfg.Beacon.ContextTokenBudget != 12000 || cfg.Beacon.AnalysisCacheTTL != 5*time.Minute {
		t.Fatalf("beacon defaults: %+v", cfg.Beacon)
	}
	if cfg.Debug.Addr != "" {
		t.Fatalf("debug server should default off, got %q", cfg.Debug.Addr)
	}
}

func TestLoadConfigMissingBaseURL(t *testing.T) {
	p := writeConfig(t, `
log:
  level: info
`)
	if _, err := LoadConfig(p, false); err == nil {
		t.Fatal("missing api.base_url should fail")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), false); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestLoadConfigBadYAML(t *testing.T) {
	p := writeConfig(t, "log: [not a map")
	if _, err := LoadConfig(p, false); err == nil {
		t.Fatal("malformed YAML should fail")
	}
}