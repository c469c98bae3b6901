// Package common defines shared constants and sentinel errors used across
// the client layers of gophmobile. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// ErrSessionInvalid means the refresh token was rejected or missing; the
	// caller must treat the user as logged out.
	ErrSessionInvalid = errors.New("session invalid")

	// ErrUnsupportedEndpoint is raised before any network I/O for features
	// that have no backing server route. Callers must not retry it.
	ErrUnsupportedEndpoint = errors.New("unsupported endpoint")

	// Storage errors.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Notification errors.
	ErrNotificationsDisabled = errors.New("notifications disabled")
	ErrDuplicateNotification = errors.New("duplicate notification")
)
