package cliconfig

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want 5s", cfg.HTTPTimeout)
	}
	if cfg.ResolveTimeout != 2*time.Second {
		t.Errorf("ResolveTimeout = %v, want 2s", cfg.ResolveTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		cfg := DefaultConfig()
		cfg.Endpoint = "https://example.org/piwik.php"
		cfg.SiteID = "1"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid minimal config", mutate: func(*Config) {}},
		{name: "missing endpoint", mutate: func(c *Config) { c.Endpoint = "" }, wantErr: true},
		{name: "endpoint without collector script", mutate: func(c *Config) { c.Endpoint = "https://example.org/" }, wantErr: true},
		{name: "endpoint is trimmed", mutate: func(c *Config) { c.Endpoint = " https://example.org/matomo.php " }},
		{name: "missing site id", mutate: func(c *Config) { c.SiteID = "" }, wantErr: true},
		{name: "non numeric site id", mutate: func(c *Config) { c.SiteID = "abc" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.HTTPTimeout = 0 }, wantErr: true},
		{name: "negative resolve timeout", mutate: func(c *Config) { c.ResolveTimeout = -time.Second }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "empty log level defaults", mutate: func(c *Config) { c.LogLevel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if cfg.LogLevel == "" {
					t.Error("LogLevel not defaulted")
				}
				if cfg.Endpoint[0] == ' ' {
					t.Errorf("Endpoint not trimmed: %q", cfg.Endpoint)
				}
			}
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	if got := NewLogger("debug").GetLevel().String(); got != "debug" {
		t.Errorf("NewLogger(debug) level = %s", got)
	}
	if got := NewLogger("nonsense").GetLevel().String(); got != "info" {
		t.Errorf("NewLogger(nonsense) level = %s, want info", got)
	}
}
