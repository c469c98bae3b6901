package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophmobile/internal/flagx"
	"github.com/joho/godotenv"
)

const defaultEnvFile = ".env"

// parseEnv loads the .env file (from -env, else ./.env when present) into
// the process environment and overlays cfg with the known variables.
func parseEnv(cfg *Config, args []string) error {
	envFile := flagx.EnvFile(args)
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", defaultEnvFile, err)
	}

	setString(&cfg.APIBaseURL, os.Getenv("API_BASE_URL"))
	setString(&cfg.DataDir, os.Getenv("APP_DATA_DIR"))
	setString(&cfg.SecureStoreBackend, os.Getenv("SECURE_STORE"))
	setString(&cfg.SecureStoreSecret, os.Getenv("SECURE_STORE_SECRET"))
	setString(&cfg.PushURL, os.Getenv("PUSH_URL"))
	setString(&cfg.LogLevel, os.Getenv("LOG_LEVEL"))
	setString(&cfg.Platform, os.Getenv("PLATFORM"))

	if v := os.Getenv("API_TIMEOUT"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return fmt.Errorf("invalid API_TIMEOUT %q", v)
		}
		cfg.RequestTimeout = time.Duration(ms) * time.Millisecond
	}
	setString(&cfg.SentryDSN, os.Getenv("SENTRY_DSN"))
	setString(&cfg.SentryEnvironment, os.Getenv("SENTRY_ENVIRONMENT"))
	if v := os.Getenv("ENABLE_CRASH_REPORTING"); v != "" {
		cfg.CrashReporting = v == "true"
	}
	if v := os.Getenv("SENTRY_TRACES_SAMPLE_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil || rate < 0 || rate > 1 {
			return fmt.Errorf("invalid SENTRY_TRACES_SAMPLE_RATE %q", v)
		}
		cfg.SentryTracesSampleRate = rate
	}
	if v := os.Getenv("PLATFORM_VERSION"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PLATFORM_VERSION %q", v)
		}
		cfg.PlatformVersion = n
	}
	return nil
}
