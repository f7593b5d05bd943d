package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables. All are optional.
const (
	EnvAPIURL            = "NEXO_API_URL"
	EnvAnalyticsWriteKey = "NEXO_ANALYTICS_WRITE_KEY"
	EnvAnalyticsURL      = "NEXO_ANALYTICS_URL"
	EnvDatabasePath      = "NEXO_DB"
	EnvLocale            = "NEXO_LOCALE"
	EnvStandalone        = "NEXO_STANDALONE"
)

var lookupEnv = os.LookupEnv

// loadDotEnv reads each file that exists. Variables already set in the
// environment are not overwritten.
func loadDotEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	set(&cfg.APIURL, EnvAPIURL)
	set(&cfg.AnalyticsWriteKey, EnvAnalyticsWriteKey)
	set(&cfg.AnalyticsURL, EnvAnalyticsURL)
	set(&cfg.DatabasePath, EnvDatabasePath)
	set(&cfg.Locale, EnvLocale)

	if v, ok := lookup(EnvStandalone); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Standalone = b
		}
	}
}
