// Package flagx lets independent config stages pick their own flags out of
// the shared command line without tripping over each other.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps only the flags named in allowed, together with their
// values. Both "-f value" and "-f=value" forms are recognised; a following
// token that starts with "-" is never taken as a value.
func FilterArgs(args []string, allowed []string) []string {
	names := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		names[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := names[name]; keep {
				out = append(out, arg)
			}
			continue
		}

		if _, keep := names[arg]; !keep {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// ConfigFile returns the path given with -c or -config, or "" if neither
// is present. When both appear the last one wins.
func ConfigFile(args []string) string {
	return stringFlag(args, "config", "c", "path to JSON config file")
}

// EnvFile returns the path given with -env, or "".
func EnvFile(args []string) string {
	return stringFlag(args, "env", "", "path to .env file")
}

func stringFlag(args []string, long, short, usage string) string {
	allowed := []string{"-" + long}
	if short != "" {
		allowed = append(allowed, "-"+short)
	}

	var v string
	fs := flag.NewFlagSet(long, flag.ContinueOnError)
	fs.StringVar(&v, long, "", usage)
	if short != "" {
		fs.StringVar(&v, short, "", usage)
	}
	_ = fs.Parse(FilterArgs(args, allowed))

	return v
}
