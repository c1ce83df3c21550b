package infra

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every setting of the relay. Loaded from yaml once at startup
// and handed to the components that need it; nothing reads it from globals.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Server struct {
		ListenAddr      string `yaml:"listen_addr"`
		ReadTimeoutSec  int    `yaml:"read_timeout_sec"`
		WriteTimeoutSec int    `yaml:"write_timeout_sec"`
	} `yaml:"server"`

	Remote struct {
		URL        string `yaml:"url"`
		TimeoutSec int    `yaml:"timeout_sec"`
	} `yaml:"remote"`

	Journal struct {
		Path       string `yaml:"path"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"journal"`

	History struct {
		DBPath       string `yaml:"db_path"`
		DefaultLimit int    `yaml:"default_limit"`
	} `yaml:"history"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the config file, applies env overrides and
// fills defaults for anything left unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// fillDefaults keeps the original deployment shape: port 5000 and a 10s
// forwarding timeout unless configured otherwise.
func (c *Config) fillDefaults() {
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = ":5000"
	}
	if c.Server.ReadTimeoutSec <= 0 {
		c.Server.ReadTimeoutSec = 15
	}
	if c.Remote.TimeoutSec <= 0 {
		c.Remote.TimeoutSec = 10
	}
	if c.Server.WriteTimeoutSec <= 0 {
		// Must outlive the forwarding timeout or the caller loses the response
		c.Server.WriteTimeoutSec = c.Remote.TimeoutSec + 5
	}
	if c.Journal.Path == "" {
		c.Journal.Path = "logs/webhook.log"
	}
	if c.Journal.MaxSizeMB <= 0 {
		c.Journal.MaxSizeMB = 50
	}
	if c.Journal.MaxBackups <= 0 {
		c.Journal.MaxBackups = 5
	}
	if c.Journal.MaxAgeDays <= 0 {
		c.Journal.MaxAgeDays = 90
	}
	if c.History.DBPath == "" {
		c.History.DBPath = "data/relay.db"
	}
	if c.History.DefaultLimit <= 0 {
		c.History.DefaultLimit = 50
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	if c.Remote.URL == "" || (!hasPrefix(c.Remote.URL, "http://") && !hasPrefix(c.Remote.URL, "https://")) {
		return fmt.Errorf("invalid remote URL: %q", c.Remote.URL)
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.Remote.TimeoutSec <= 0 {
		return fmt.Errorf("remote timeout must be positive")
	}
	return nil
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv applies environment overrides for deploy-varying values.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("RELAY_REMOTE_URL"); url != "" {
		cfg.Remote.URL = url
	}
	if addr := os.Getenv("RELAY_LISTEN_ADDR"); addr != "" {
		cfg.Server.ListenAddr = addr
	}
	if path := os.Getenv("RELAY_JOURNAL_PATH"); path != "" {
		cfg.Journal.Path = path
	}
}
