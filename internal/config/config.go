package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
)

// Config holds the complete application configuration
type Config struct {
	Version string       `yaml:"version" json:"version"`
	API     APIConfig    `yaml:"api" json:"api"`
	Output  OutputConfig `yaml:"output" json:"output"`
	Watch   WatchConfig  `yaml:"watch" json:"watch"`
}

// APIConfig points the client at the analysis service
type APIConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url" validate:"required,url"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" validate:"gte=0s"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat   string `yaml:"default_format" json:"default_format"`     // json|text|markdown|csv
	ColorMode       string `yaml:"color_mode" json:"color_mode"`             // auto|always|never
	Verbose         bool   `yaml:"verbose" json:"verbose"`                   // default verbosity
	TimestampFormat string `yaml:"timestamp_format" json:"timestamp_format"` // time format string
	Theme           string `yaml:"theme" json:"theme"`                       // default|high-contrast|minimal
}

// WatchConfig configures directory auto-upload
type WatchConfig struct {
	Include []string      `yaml:"include" json:"include"` // doublestar globs, relative to the watched dir
	Settle  time.Duration `yaml:"settle" json:"settle"`   // quiet period before a new file is submitted
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		API: APIConfig{
			BaseURL:   "http://localhost:8000",
			Timeout:   30 * time.Second,
			UserAgent: "logtrack",
		},
		Output: OutputConfig{
			DefaultFormat:   "text",
			ColorMode:       "auto",
			Verbose:         false,
			TimestampFormat: "2006-01-02 15:04:05",
			Theme:           "default",
		},
		Watch: WatchConfig{
			Include: []string{"**/*.log", "**/*.txt", "**/*.json"},
			Settle:  500 * time.Millisecond,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateAPIConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateWatchConfig(); err != nil {
		return err
	}
	return nil
}

// validateAPIConfig runs the struct tags on the API section
func (c *Config) validateAPIConfig() error {
	validate := validator.New()
	if err := validate.Struct(c.API); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid api.%s: failed %q check (got %v)", yamlName(fe.Field()), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid api config: %w", err)
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("invalid api.base_url: %s (must use http or https)", c.API.BaseURL)
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.Output.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	return nil
}

func (c *Config) validateWatchConfig() error {
	if c.Watch.Settle < 0 {
		return fmt.Errorf("watch.settle must be non-negative")
	}
	for _, pattern := range c.Watch.Include {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("watch.include must not contain empty patterns")
		}
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid watch.include pattern: %s", pattern)
		}
	}
	return nil
}

func yamlName(field string) string {
	switch field {
	case "BaseURL":
		return "base_url"
	case "UserAgent":
		return "user_agent"
	default:
		return strings.ToLower(field)
	}
}
