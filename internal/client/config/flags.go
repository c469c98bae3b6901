package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophmobile/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. Only the flags handled
// here are passed to the FlagSet, so -c/-env do not cause parse errors.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-s", "-p", "-l"})

	fs := flag.NewFlagSet("gophmobile", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.SecureStoreBackend, "s", cfg.SecureStoreBackend, "secure store backend (sqlite|keyring|memory)")
	fs.StringVar(&cfg.PushURL, "p", cfg.PushURL, "push websocket URL")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
