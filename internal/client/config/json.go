package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophmobile/internal/flagx"
	"github.com/dmitrijs2005/gophmobile/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Zero values leave the
// corresponding Config field untouched.
type JsonConfig struct {
	APIBaseURL         string         `json:"api_base_url"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	DataDir            string         `json:"data_dir"`
	SecureStoreBackend string         `json:"secure_store"`
	SecureStoreSecret  string         `json:"secure_store_secret"`
	PushURL            string         `json:"push_url"`
	LogLevel           string         `json:"log_level"`
	Platform           string         `json:"platform"`
	PlatformVersion    int            `json:"platform_version"`
	CrashReporting     *bool          `json:"crash_reporting"`
	SentryDSN          string         `json:"sentry_dsn"`
	SentryEnvironment  string         `json:"sentry_environment"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.SecureStoreBackend, jc.SecureStoreBackend)
	setString(&cfg.SecureStoreSecret, jc.SecureStoreSecret)
	setString(&cfg.PushURL, jc.PushURL)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.Platform, jc.Platform)
	setString(&cfg.SentryDSN, jc.SentryDSN)
	setString(&cfg.SentryEnvironment, jc.SentryEnvironment)
	if jc.CrashReporting != nil {
		cfg.CrashReporting = *jc.CrashReporting
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PlatformVersion > 0 {
		cfg.PlatformVersion = jc.PlatformVersion
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
