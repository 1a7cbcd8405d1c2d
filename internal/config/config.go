package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL       = "http://localhost:8000"
	DefaultErrorDuration = 5 * time.Second
)

type Config struct {
	Server struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"server"`
	UI struct {
		ErrorDuration time.Duration `yaml:"error_duration"`
	} `yaml:"ui"`
	Upload struct {
		Preflight         *bool    `yaml:"preflight"`
		AllowedExtensions []string `yaml:"allowed_extensions"`
	} `yaml:"upload"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) PreflightEnabled() bool {
	return c.Upload.Preflight == nil || *c.Upload.Preflight
}

func (c *Config) Validate() error {
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return fmt.Errorf("server.base_url must be an http(s) URL, got %q", c.Server.BaseURL)
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("server.timeout must not be negative")
	}
	if c.UI.ErrorDuration <= 0 {
		return fmt.Errorf("ui.error_duration must be positive")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = DefaultBaseURL
	}
	c.Server.BaseURL = strings.TrimRight(c.Server.BaseURL, "/")
	if c.UI.ErrorDuration == 0 {
		c.UI.ErrorDuration = DefaultErrorDuration
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		c.Upload.AllowedExtensions = []string{"pdf", "txt"}
	}
	for i, ext := range c.Upload.AllowedExtensions {
		c.Upload.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
	}
}
