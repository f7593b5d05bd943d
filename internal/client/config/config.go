package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the NEXO client.
//
// Units: all intervals are time.Duration values.
type Config struct {
	APIURL              string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	DatabasePath        string
	LogFormat           string

	AnalyticsWriteKey string
	AnalyticsURL      string

	ConsentVersion  string
	InstallCooldown time.Duration
	PromptDelay     time.Duration

	// UserAgent feeds the platform hint of the install prompt.
	UserAgent string
	// Standalone reports the client as already installed.
	Standalone bool
	Locale     string
	// LaunchURL is handled once at start, e.g. ".../?install=true".
	LaunchURL string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIURL = "http://127.0.0.1:8000/api"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "nexo.db"
	c.LogFormat = "text"
	c.ConsentVersion = "1.0"
	c.InstallCooldown = 4 * time.Hour
	c.PromptDelay = 3 * time.Second
	c.UserAgent = "nexo-cli"
	c.Locale = "en"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// .env files and the environment, a JSON or YAML file (if -c is given) and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	loadDotEnv(".env", ".env.local")
	parseEnv(cfg, lookupEnv)

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("config: api url is empty")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("config: online check interval must be positive, got %s", c.OnlineCheckInterval)
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("config: database path is empty")
	}
	return nil
}
