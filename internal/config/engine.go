package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

const (
	EnvEngineBaseURL = "METARV_ENGINE_BASE_URL"
)

// EngineConfig holds connection settings for the external verification engine.
//
// Submissions intentionally carry no client-side timeout. The engine does its
// own long-running computation and the caller cancels via context when a run
// is superseded or reset.
type EngineConfig struct {
	BaseURL string `toml:"base_url"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:5000"
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEngineBaseURL); v != "" {
		c.BaseURL = v
	}
}

func (c *EngineConfig) validate() error {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https: %s", c.BaseURL)
	}
	return nil
}
