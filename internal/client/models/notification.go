package models

import "time"

type NotificationType string

const (
	NotificationSystem   NotificationType = "system"
	NotificationMessage  NotificationType = "message"
	NotificationReminder NotificationType = "reminder"
	NotificationSecurity NotificationType = "security"
)

// ParseNotificationType coerces anything unknown to NotificationSystem.
func ParseNotificationType(s string) NotificationType {
	switch t := NotificationType(s); t {
	case NotificationSystem, NotificationMessage, NotificationReminder, NotificationSecurity:
		return t
	default:
		return NotificationSystem
	}
}

// Notification is the canonical record held in the notification list.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Body      string           `json:"body"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// RemotePushMessage is a provider payload after normalization.
type RemotePushMessage struct {
	ID       string
	Title    string
	Body     string
	Type     NotificationType
	SentTime time.Time
	Data     map[string]string
}

type PermissionStatus string

const (
	PermissionUnknown     PermissionStatus = "unknown"
	PermissionGranted     PermissionStatus = "granted"
	PermissionDenied      PermissionStatus = "denied"
	PermissionUnavailable PermissionStatus = "unavailable"
)
