package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/glowstarlabs/alttext-audit/internal/crawler"
	"github.com/glowstarlabs/alttext-audit/internal/wcag"
	"github.com/glowstarlabs/alttext-audit/internal/webclient"
)

// Config aggregates the per-package runtime configuration.
type Config struct {
	// ListenAddr is the HTTP listen address for the API server.
	ListenAddr string `yaml:"listen_addr"`

	WebClient webclient.Config `yaml:"webclient"`
	Crawler   crawler.Config   `yaml:"crawler"`
	Scan      wcag.Config      `yaml:"scan"`

	// DBPath is the SQLite file for audit history.
	DBPath string `yaml:"db_path"`
}

// DefaultConfig returns a Config populated with the per-package defaults.
func DefaultConfig() *Config {
	return &Config{
		ListenAddr: ":8080",
		WebClient:  webclient.DefaultConfig(),
		Crawler:    crawler.DefaultConfig(),
		Scan:       wcag.DefaultConfig(),
		DBPath:     "alttext-audit.db",
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults; environment overrides apply either way.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv maps a small set of deployment-facing environment variables over
// the file config.
func (c *Config) applyEnv() {
	if v := os.Getenv("ALTTEXT_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("ALTTEXT_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("ALTTEXT_WEBCLIENT_BACKEND"); v != "" {
		c.WebClient.Backend = webclient.Backend(v)
	}
	if v := os.Getenv("ALTTEXT_REDIS_ADDR"); v != "" {
		c.WebClient.Cache.Addr = v
	}
}
