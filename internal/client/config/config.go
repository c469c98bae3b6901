package config

import (
	"os"
	"regexp"
	"strings"
	"time"
)

// Secure storage backends.
const (
	SecureBackendSQLite  = "sqlite"
	SecureBackendKeyring = "keyring"
	// SecureBackendMemory keeps tokens for the life of the process only.
	SecureBackendMemory = "memory"
)

// Platforms that select a notification permission flow.
const (
	PlatformGeneric = "generic"
	PlatformAndroid = "android"
)

// DefaultAPIBaseURL is used when no base URL is configured.
const DefaultAPIBaseURL = "http://localhost:3000/api/v1"

// Config holds runtime settings for the gophmobile client.
type Config struct {
	// APIBaseURL is the versioned REST root, always ending in /api/vN.
	APIBaseURL string
	// RequestTimeout bounds every HTTP call made by the transport.
	RequestTimeout time.Duration

	// DataDir holds the local SQLite database.
	DataDir string
	// SecureStoreBackend is one of the SecureBackend* values.
	SecureStoreBackend string
	// SecureStoreSecret seeds the key of the encrypted SQLite store. The
	// default is derived from the host name, so anyone who can read the
	// database file can rebuild the key: without SECURE_STORE_SECRET the
	// sqlite backend only obfuscates tokens. See WeakSecret.
	SecureStoreSecret string

	// PushURL is the websocket endpoint for remote messages; empty disables it.
	PushURL string

	LogLevel string

	Platform        string
	PlatformVersion int

	// CrashReporting turns on error reporting; it also needs SentryDSN.
	CrashReporting    bool
	SentryDSN         string
	SentryEnvironment string
	// SentryTracesSampleRate is in [0, 1].
	SentryTracesSampleRate float64

	// Version is the build version, set by the binary rather than loaded.
	Version string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.RequestTimeout = 30 * time.Second
	c.DataDir = ".gophmobile"
	c.SecureStoreBackend = SecureBackendSQLite
	c.SecureStoreSecret = defaultSecret()
	c.LogLevel = "info"
	c.Platform = PlatformGeneric
	c.SentryEnvironment = "development"
	c.SentryTracesSampleRate = 0.2
}

// Load builds a Config from defaults, then the JSON file named by -c/-config,
// then environment variables (optionally seeded from a .env file), then
// flags. Later sources take precedence over earlier ones. The base URL is
// normalized last.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	cfg.APIBaseURL = NormalizeBaseURL(cfg.APIBaseURL)
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

var (
	apiVersionSuffix = regexp.MustCompile(`(?i)/api/v\d+$`)
	versionSuffix    = regexp.MustCompile(`(?i)/v(\d+)$`)
)

// NormalizeBaseURL makes sure the URL ends in a versioned API root:
// trailing slashes are dropped, "/api/vN" is kept, a bare "/vN" becomes
// "/api/vN" and anything else gets "/api/v1" appended.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimRight(strings.TrimSpace(raw), "/")
	if u == "" {
		u = DefaultAPIBaseURL
	}

	if apiVersionSuffix.MatchString(u) {
		return u
	}
	if versionSuffix.MatchString(u) {
		return versionSuffix.ReplaceAllString(u, "/api/v$1")
	}
	return u + "/api/v1"
}

// WeakSecret reports whether the encrypted SQLite store would be keyed by
// the host-derived default secret.
func (c *Config) WeakSecret() bool {
	return c.SecureStoreBackend == SecureBackendSQLite &&
		(c.SecureStoreSecret == "" || c.SecureStoreSecret == defaultSecret())
}

func defaultSecret() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return "gophmobile:" + host
}
