// Package state holds the in-process application state: the session, the
// notification list and UI preferences. Every change goes through
// Store.Dispatch so subscribers always observe consistent snapshots.
package state

import (
	"github.com/dmitrijs2005/gophmobile/internal/client/models"
)

// SessionStatus is the three-way session state. Guest and Authenticated are
// mutually exclusive; leaving either lands in Unauthenticated.
type SessionStatus string

const (
	Unauthenticated SessionStatus = "unauthenticated"
	Guest           SessionStatus = "guest"
	Authenticated   SessionStatus = "authenticated"
)

type Auth struct {
	User    *models.User
	Status  SessionStatus
	Loading bool
	Error   string
}

func (a Auth) IsAuthenticated() bool { return a.Status == Authenticated }

func (a Auth) IsGuest() bool { return a.Status == Guest }

type Notifications struct {
	Enabled bool
	// Pending is set while a permission request started by an enable
	// toggle is outstanding.
	Pending          bool
	PermissionStatus models.PermissionStatus
	DeviceToken      string
	Items            []models.Notification
	// Badge is derived: unread items while enabled, otherwise zero.
	Badge int
}

type App struct {
	Loading            bool
	NetworkConnected   bool
	Theme              string
	Language           string
	OnboardingComplete bool
}

type State struct {
	Auth          Auth
	Notifications Notifications
	App           App
}

// Initial returns the state a fresh process starts with.
func Initial() State {
	return State{
		Auth: Auth{Status: Unauthenticated},
		Notifications: Notifications{
			PermissionStatus: models.PermissionUnknown,
		},
		App: App{
			NetworkConnected: true,
			Theme:            "system",
			Language:         "en",
		},
	}
}

func (s State) clone() State {
	out := s
	if s.Auth.User != nil {
		u := *s.Auth.User
		if u.Preferences != nil {
			p := *u.Preferences
			u.Preferences = &p
		}
		out.Auth.User = &u
	}
	if s.Notifications.Items != nil {
		out.Notifications.Items = append([]models.Notification(nil), s.Notifications.Items...)
	}
	return out
}

// HasNotification reports whether an item with id is held.
func (n Notifications) HasNotification(id string) bool {
	for _, it := range n.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// Unread counts items with Read == false regardless of the enabled flag.
func (n Notifications) Unread() int {
	c := 0
	for _, it := range n.Items {
		if !it.Read {
			c++
		}
	}
	return c
}

func (n *Notifications) recomputeBadge() {
	if !n.Enabled {
		n.Badge = 0
		return
	}
	n.Badge = n.Unread()
}
