package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP: HTTPConfig{Port: 8080},
		Datasets: []DatasetConfig{
			{Name: "heroes", File: "data/heroes.json"},
		},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_Datasets(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing name",
			mutate:  func(c *Config) { c.Datasets[0].Name = "" },
			wantErr: "datasets[0].name is required",
		},
		{
			name: "duplicate name",
			mutate: func(c *Config) {
				c.Datasets = append(c.Datasets, DatasetConfig{Name: "heroes", File: "other.json"})
			},
			wantErr: "datasets.heroes: duplicate name",
		},
		{
			name:    "no source",
			mutate:  func(c *Config) { c.Datasets[0].File = "" },
			wantErr: "exactly one of file or redis_key",
		},
		{
			name:    "two sources",
			mutate:  func(c *Config) { c.Datasets[0].RedisKey = "heroes" },
			wantErr: "exactly one of file or redis_key",
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.Datasets[0].DelayMs = -1 },
			wantErr: "delay_ms must not be negative",
		},
		{
			name:    "redis format",
			mutate:  func(c *Config) { c.Datasets[0].RedisFormat = "hash" },
			wantErr: `redis_format must be "string" or "json"`,
		},
		{
			name: "redis without addrs",
			mutate: func(c *Config) {
				c.Datasets[0].File = ""
				c.Datasets[0].RedisKey = "heroes"
			},
			wantErr: "database.addrs is required",
		},
		{
			name:    "page sizes",
			mutate:  func(c *Config) { c.Query.DefaultPageSize = c.Query.MaxPageSize + 1 },
			wantErr: "exceeds query.max_page_size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("unexpected error message:\ngot:  %q\nwant: %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Query.DefaultPageSize != 20 {
		t.Errorf("expected DefaultPageSize=20, got %d", cfg.Query.DefaultPageSize)
	}
	if cfg.Query.MaxPageSize != 1000 {
		t.Errorf("expected MaxPageSize=1000, got %d", cfg.Query.MaxPageSize)
	}
	if cfg.Storage.KeyPrefix != "sieve:" {
		t.Errorf("expected KeyPrefix='sieve:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{ReadinessTimeout: 15},
		Query:    QueryConfig{DefaultPageSize: 50, MaxPageSize: 500},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Query.MaxPageSize != 500 {
		t.Errorf("expected MaxPageSize=500, got %d", cfg.Query.MaxPageSize)
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
}

func TestParse(t *testing.T) {
	t.Setenv("SIEVE_TEST_PORT", "9090")

	doc := []byte(`
http:
  port: ${SIEVE_TEST_PORT}
logging:
  level: ${SIEVE_TEST_LEVEL:-debug}
datasets:
  - name: heroes
    file: data/heroes.json
    search_fields: [name, alias]
    delay_ms: 50
    scope:
      op: isNotNull
      subject: alias
`)
	cfg, err := Parse(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	if len(cfg.Datasets) != 1 {
		t.Fatalf("len(Datasets) = %d", len(cfg.Datasets))
	}
	d := cfg.Datasets[0]
	if d.DelayMs != 50 || len(d.SearchFields) != 2 {
		t.Errorf("unexpected dataset %+v", d)
	}
	if d.Scope == nil || d.Scope.Op != "isNotNull" || d.Scope.Subject != "alias" {
		t.Errorf("unexpected scope %+v", d.Scope)
	}
}

func TestParse_InvalidScope(t *testing.T) {
	doc := []byte(`
http:
  port: 8080
datasets:
  - name: heroes
    file: heroes.json
    scope:
      op: between
`)
	_, err := Parse(doc)
	if err == nil || !strings.Contains(err.Error(), "datasets.heroes.scope") {
		t.Errorf("error = %v", err)
	}
}
