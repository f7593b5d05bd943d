// Package flagx picks a subset of flags out of a command line that also
// carries subcommands and flags owned by other parsers.
package flagx

import (
	"slices"
	"strings"
)

// FilterArgs keeps only the flags named in allowed, together with their
// values, preserving order. A flag's value is either joined with '='
// (--config=nexo.yaml) or the next token, unless that token starts with '-'.
// Parsing stops at a bare "--".
func FilterArgs(args []string, allowed []string) []string {
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, joined := strings.Cut(arg, "=")
		if !slices.Contains(allowed, name) {
			continue
		}
		out = append(out, arg)

		if !joined && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// Value returns the value of the last occurrence of any of names in args,
// or "" when none is present.
func Value(args []string, names ...string) string {
	var value string

	filtered := FilterArgs(args, names)
	for i := 0; i < len(filtered); i++ {
		if _, v, ok := strings.Cut(filtered[i], "="); ok {
			value = v
			continue
		}
		if i+1 < len(filtered) && !strings.HasPrefix(filtered[i+1], "-") {
			value = filtered[i+1]
			i++
		}
	}

	return value
}

// ConfigFileFlag returns the path given with -c, -config or --config.
func ConfigFileFlag(args []string) string {
	return Value(args, "-c", "-config", "--config")
}
