// Package common contains shared constants and sentinel errors used across
// gophmobile components.
package common

// Secure storage keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// Plain storage keys.
const (
	KeyUser               = "user"
	KeyTokenExpiresIn     = "token_expires_in"
	KeyTheme              = "theme"
	KeyLanguage           = "language"
	KeyOnboardingComplete = "onboarding_complete"
	KeyNotificationsOn    = "notifications_enabled"
	KeyDeviceID           = "device_id"
)

// AuthorizationHeaderName carries the bearer access token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName correlates a request with client-side log lines.
const RequestIDHeaderName = "X-Request-ID"
