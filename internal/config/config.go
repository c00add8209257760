// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"` // Minerva backend, e.g. https://api.minerva.example
	Timeout time.Duration `yaml:"timeout"`  // non-streaming request timeout
}

type AuthConfig struct {
	Token      string        `yaml:"token"`       // static bearer token (dev)
	RefreshURL string        `yaml:"refresh_url"` // token refresh endpoint
	APIKey     string        `yaml:"api_key"`     // key presented to the refresh endpoint
	Leeway     time.Duration `yaml:"leeway"`      // refresh this long before expiry
}

type StorageConfig struct {
	BaseURL string        `yaml:"base_url"` // upload gateway for attachment objects
	Timeout time.Duration `yaml:"timeout"`
}

type BeaconConfig struct {
	ContextTokenBudget int           `yaml:"context_token_budget"` // warn threshold for pinned payloads
	AnalysisCacheTTL   time.Duration `yaml:"analysis_cache_ttl"`
}

type DebugConfig struct {
	Addr string `yaml:"addr"` // e.g. 127.0.0.1:6171; empty disables the server
}

type Config struct {
	Log     LogConfig     `yaml:"log"`
	API     APIConfig     `yaml:"api"`
	Auth    AuthConfig    `yaml:"auth"`
	Storage StorageConfig `yaml:"storage"`
	Beacon  BeaconConfig  `yaml:"beacon"`
	Debug   DebugConfig   `yaml:"debug"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Runtime.Dev = dev
	cfg.applyDefaults()

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is required")
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = 30 * time.Second
	}
	if cfg.Storage.Timeout <= 0 {
		cfg.Storage.Timeout = 2 * time.Minute
	}
	if cfg.Auth.Leeway <= 0 {
		cfg.Auth.Leeway = 30 * time.Second
	}
	if cfg.Beacon.ContextTokenBudget <= 0 {
		cfg.Beacon.ContextTokenBudget = 12000
	}
	if cfg.Beacon.AnalysisCacheTTL <= 0 {
		cfg.Beacon.AnalysisCacheTTL = 5 * time.Minute
	}
}
