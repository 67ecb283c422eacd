package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL http://localhost:8000, got %s", cfg.API.BaseURL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Expected API timeout 30s, got %v", cfg.API.Timeout)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected output format text, got %s", cfg.Output.DefaultFormat)
	}
	if len(cfg.Watch.Include) != 3 {
		t.Errorf("Expected 3 watch patterns, got %d", len(cfg.Watch.Include))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:   "https base url with path",
			mutate: func(c *Config) { c.API.BaseURL = "https://bugs.example.com/api" },
		},
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: true,
			errMsg:  `invalid api.base_url: failed "required" check`,
		},
		{
			name:    "malformed base url",
			mutate:  func(c *Config) { c.API.BaseURL = "not a url" },
			wantErr: true,
			errMsg:  `invalid api.base_url: failed "url" check`,
		},
		{
			name:    "non-http base url",
			mutate:  func(c *Config) { c.API.BaseURL = "ftp://example.com" },
			wantErr: true,
			errMsg:  "must use http or https",
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.API.Timeout = -time.Second },
			wantErr: true,
			errMsg:  "invalid api.timeout",
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "invalid" },
			wantErr: true,
			errMsg:  "invalid output format: invalid (must be one of: json, text, markdown, csv)",
		},
		{
			name:    "invalid color mode",
			mutate:  func(c *Config) { c.Output.ColorMode = "invalid" },
			wantErr: true,
			errMsg:  "invalid color mode: invalid (must be one of: auto, always, never)",
		},
		{
			name:    "invalid theme",
			mutate:  func(c *Config) { c.Output.Theme = "neon" },
			wantErr: true,
			errMsg:  "invalid theme: neon",
		},
		{
			name:    "negative settle",
			mutate:  func(c *Config) { c.Watch.Settle = -time.Millisecond },
			wantErr: true,
			errMsg:  "watch.settle must be non-negative",
		},
		{
			name:    "empty include pattern",
			mutate:  func(c *Config) { c.Watch.Include = []string{"*.log", " "} },
			wantErr: true,
			errMsg:  "watch.include must not contain empty patterns",
		},
		{
			name:    "malformed include pattern",
			mutate:  func(c *Config) { c.Watch.Include = []string{"logs/[a-"} },
			wantErr: true,
			errMsg:  "invalid watch.include pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Error("Expected validation error, but got none")
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no validation error, but got: %v", err)
			}
		})
	}
}
