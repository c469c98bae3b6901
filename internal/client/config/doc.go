// Package config loads runtime configuration for the gophmobile client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Environment variables, after loading a .env file if one exists
//     (-env path, or ./.env). Variables already set in the process win
//     over the file.
//  4. Command-line flags.
//
// Supported flags
//
//	-a string   API base URL
//	-t int      request timeout (seconds)
//	-d string   data directory for the local database
//	-s string   secure store backend: sqlite | keyring | memory
//	-p string   push websocket URL
//	-l string   log level
//
// Environment
//
//	API_BASE_URL, API_TIMEOUT (milliseconds), APP_DATA_DIR, SECURE_STORE,
//	SECURE_STORE_SECRET, PUSH_URL, LOG_LEVEL, PLATFORM, PLATFORM_VERSION,
//	ENABLE_CRASH_REPORTING ("true" to enable), SENTRY_DSN,
//	SENTRY_ENVIRONMENT, SENTRY_TRACES_SAMPLE_RATE
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://api.example.com",
//	  "request_timeout": "30s",
//	  "data_dir": ".gophmobile",
//	  "secure_store": "keyring",
//	  "push_url": "wss://push.example.com/ws",
//	  "log_level": "debug",
//	  "platform": "android",
//	  "platform_version": 34,
//	  "crash_reporting": true,
//	  "sentry_dsn": "https://key@o0.ingest.sentry.io/0",
//	  "sentry_environment": "production"
//	}
package config
