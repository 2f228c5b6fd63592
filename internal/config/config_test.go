package config

import (
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
	if cfg.RequestTimeout() != 120*time.Second {
		t.Errorf("RequestTimeout = %v, want 120s", cfg.RequestTimeout())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid defaults", func(c *Config) {}, false},
		{"Empty server URL", func(c *Config) { c.ServerURL = "" }, true},
		{"Empty model", func(c *Config) { c.DefaultModel = "" }, true},
		{"Zero timeout", func(c *Config) { c.RequestTimeoutSeconds = 0 }, true},
		{"Negative timeout", func(c *Config) { c.RequestTimeoutSeconds = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestConfigYAMLRoundTrip(t *testing.T) {
	cfg := &Config{
		ServerURL:             "http://localhost:9000",
		DefaultModel:          "gemini-2.5-flash",
		RequestTimeoutSeconds: 30,
		DataDir:               "/tmp/gemchat-db",
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if loaded != *cfg {
		t.Errorf("Round trip mismatch: %+v != %+v", loaded, *cfg)
	}
}

func TestDatabasePathHonorsOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/tmp/custom-db"

	path, err := cfg.DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath failed: %v", err)
	}
	if path != "/tmp/custom-db" {
		t.Errorf("DatabasePath = %q, want override", path)
	}
}
