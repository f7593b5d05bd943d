package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/nexo/internal/flagx"
	"github.com/dmitrijs2005/nexo/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used for JSON and YAML unmarshalling. Intervals use
// timex.Duration, so files may write "3s" or integer nanoseconds. Only
// fields present in the file override the runtime Config.
type FileConfig struct {
	APIURL              string          `json:"api_url" yaml:"api_url"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	RequestTimeout      *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	DatabasePath        string          `json:"database_path" yaml:"database_path"`
	LogFormat           string          `json:"log_format" yaml:"log_format"`
	AnalyticsWriteKey   string          `json:"analytics_write_key" yaml:"analytics_write_key"`
	AnalyticsURL        string          `json:"analytics_url" yaml:"analytics_url"`
	ConsentVersion      string          `json:"consent_version" yaml:"consent_version"`
	InstallCooldown     *timex.Duration `json:"install_cooldown" yaml:"install_cooldown"`
	PromptDelay         *timex.Duration `json:"prompt_delay" yaml:"prompt_delay"`
	UserAgent           string          `json:"user_agent" yaml:"user_agent"`
	Standalone          *bool           `json:"standalone" yaml:"standalone"`
	Locale              string          `json:"locale" yaml:"locale"`
	LaunchURL           string          `json:"launch_url" yaml:"launch_url"`
}

// parseFile overlays cfg with the file named by -c/--config, if any. Files
// ending in .yaml or .yml are read as YAML, everything else as JSON.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	str := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	dur := func(dst *time.Duration, v *timex.Duration) {
		if v != nil {
			*dst = v.Duration
		}
	}

	str(&cfg.APIURL, fc.APIURL)
	dur(&cfg.OnlineCheckInterval, fc.OnlineCheckInterval)
	dur(&cfg.RequestTimeout, fc.RequestTimeout)
	str(&cfg.DatabasePath, fc.DatabasePath)
	str(&cfg.LogFormat, fc.LogFormat)
	str(&cfg.AnalyticsWriteKey, fc.AnalyticsWriteKey)
	str(&cfg.AnalyticsURL, fc.AnalyticsURL)
	str(&cfg.ConsentVersion, fc.ConsentVersion)
	dur(&cfg.InstallCooldown, fc.InstallCooldown)
	dur(&cfg.PromptDelay, fc.PromptDelay)
	str(&cfg.UserAgent, fc.UserAgent)
	if fc.Standalone != nil {
		cfg.Standalone = *fc.Standalone
	}
	str(&cfg.Locale, fc.Locale)
	str(&cfg.LaunchURL, fc.LaunchURL)
}
