// Package config loads runtime configuration for the NEXO client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. .env and .env.local in the working directory, then the process
//     environment: NEXO_API_URL, NEXO_ANALYTICS_WRITE_KEY,
//     NEXO_ANALYTICS_URL, NEXO_DB, NEXO_LOCALE, NEXO_STANDALONE.
//  3. Optional JSON or YAML file selected via -c, -config or --config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a, --api string       base URL of the NEXO API
//	-i, --interval int     online status check interval (seconds)
//	-d, --db string        local database path
//	-l, --log string       log format (text, json, console)
//
// # File schema
//
// Intervals use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds:
//
//	{
//	  "api_url": "https://api.nexo.chat",
//	  "online_check_interval": "3s",
//	  "install_cooldown": "4h",
//	  "analytics_write_key": "wk_..."
//	}
//
// The same keys are accepted in YAML.
package config
