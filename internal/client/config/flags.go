package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/nexo/internal/flagx"
)

// Flag names handled here; each has a short and a long form.
var knownFlags = []string{
	"-a", "--api",
	"-i", "--interval",
	"-d", "--db",
	"-l", "--log",
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a, --api string       base URL of the NEXO API
//	-i, --interval int     online check interval in seconds
//	-d, --db string        path of the local database
//	-l, --log string       log format: text, json or console
//
// args is filtered with flagx.FilterArgs first so flags that belong to
// other components (subcommands, --config) do not cause parse errors.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("nexo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIURL, "a", cfg.APIURL, "base URL of the NEXO API")
	fs.StringVar(&cfg.APIURL, "api", cfg.APIURL, "base URL of the NEXO API")
	seconds := int(cfg.OnlineCheckInterval.Seconds())
	fs.IntVar(&seconds, "i", seconds, "online check interval (in seconds)")
	fs.IntVar(&seconds, "interval", seconds, "online check interval (in seconds)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "path of the local database")
	fs.StringVar(&cfg.LogFormat, "l", cfg.LogFormat, "log format: text, json or console")
	fs.StringVar(&cfg.LogFormat, "log", cfg.LogFormat, "log format: text, json or console")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	intervalSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" || f.Name == "interval" {
			intervalSet = true
		}
	})
	if intervalSet {
		cfg.OnlineCheckInterval = time.Duration(seconds) * time.Second
	}
	return nil
}
