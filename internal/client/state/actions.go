package state

import "github.com/dmitrijs2005/gophmobile/internal/client/models"

// Action is a state transition. The set is closed: only types in this
// package implement it.
type Action interface {
	apply(s *State)
}

// Auth actions.

type LoginStarted struct{}

type LoginSucceeded struct{ User models.User }

type LoginFailed struct{ Error string }

type GuestEntered struct{}

type RegisterStarted struct{}

type RegisterSucceeded struct{ User models.User }

type RegisterFailed struct{ Error string }

type LogoutStarted struct{}

type LogoutSucceeded struct{}

type LogoutFailed struct{ Error string }

// UserUpdated replaces the held user. It is ignored when nobody is signed in.
type UserUpdated struct{ User models.User }

type ErrorCleared struct{}

type SessionRestored struct{ User models.User }

func (LoginStarted) apply(s *State) {
	s.Auth.Loading = true
	s.Auth.Error = ""
}

func (a LoginSucceeded) apply(s *State) {
	u := a.User
	s.Auth = Auth{User: &u, Status: Authenticated}
	seedPreferences(s, &u)
}

func (a LoginFailed) apply(s *State) {
	s.Auth = Auth{Status: Unauthenticated, Error: a.Error}
}

func (GuestEntered) apply(s *State) {
	s.Auth = Auth{Status: Guest}
}

func (RegisterStarted) apply(s *State) {
	s.Auth.Loading = true
	s.Auth.Error = ""
}

func (a RegisterSucceeded) apply(s *State) {
	u := a.User
	s.Auth = Auth{User: &u, Status: Authenticated}
	seedPreferences(s, &u)
}

func (a RegisterFailed) apply(s *State) {
	s.Auth.Loading = false
	s.Auth.Error = a.Error
}

func (LogoutStarted) apply(s *State) {
	s.Auth.Loading = true
}

func (LogoutSucceeded) apply(s *State) {
	s.Auth = Auth{Status: Unauthenticated}
}

// LogoutFailed still ends the session: local credentials are gone even
// when the server call failed.
func (a LogoutFailed) apply(s *State) {
	s.Auth = Auth{Status: Unauthenticated, Error: a.Error}
}

func (a UserUpdated) apply(s *State) {
	if s.Auth.User == nil {
		return
	}
	u := a.User
	s.Auth.User = &u
	seedPreferences(s, &u)
}

func (ErrorCleared) apply(s *State) {
	s.Auth.Error = ""
}

func (a SessionRestored) apply(s *State) {
	u := a.User
	s.Auth.User = &u
	s.Auth.Status = Authenticated
	s.Auth.Loading = false
	seedPreferences(s, &u)
}

// seedPreferences copies the account's theme and language into the app
// settings. Empty values leave the local choice alone.
func seedPreferences(s *State, u *models.User) {
	if u.Preferences == nil {
		return
	}
	if u.Preferences.Theme != "" {
		s.App.Theme = u.Preferences.Theme
	}
	if u.Preferences.Language != "" {
		s.App.Language = u.Preferences.Language
	}
}

// Notification actions.

type NotificationsEnabledSet struct{ Enabled bool }

type NotificationsPendingSet struct{ Pending bool }

type PermissionStatusSet struct{ Status models.PermissionStatus }

type DeviceTokenSet struct{ Token string }

// NotificationAdded prepends a record. A record whose id is already held
// is dropped without touching the list.
type NotificationAdded struct{ Notification models.Notification }

type NotificationRead struct{ ID string }

type AllNotificationsRead struct{}

type NotificationsCleared struct{}

func (a NotificationsEnabledSet) apply(s *State) {
	s.Notifications.Enabled = a.Enabled
	s.Notifications.Pending = false
}

func (a NotificationsPendingSet) apply(s *State) {
	s.Notifications.Pending = a.Pending
}

func (a PermissionStatusSet) apply(s *State) {
	s.Notifications.PermissionStatus = a.Status
}

func (a DeviceTokenSet) apply(s *State) {
	s.Notifications.DeviceToken = a.Token
}

func (a NotificationAdded) apply(s *State) {
	if s.Notifications.HasNotification(a.Notification.ID) {
		return
	}
	items := make([]models.Notification, 0, len(s.Notifications.Items)+1)
	items = append(items, a.Notification)
	s.Notifications.Items = append(items, s.Notifications.Items...)
}

func (a NotificationRead) apply(s *State) {
	for i := range s.Notifications.Items {
		if s.Notifications.Items[i].ID == a.ID {
			s.Notifications.Items[i].Read = true
			return
		}
	}
}

func (AllNotificationsRead) apply(s *State) {
	for i := range s.Notifications.Items {
		s.Notifications.Items[i].Read = true
	}
}

func (NotificationsCleared) apply(s *State) {
	s.Notifications.Items = nil
}

// App actions.

type LoadingSet struct{ Loading bool }

type NetworkStatusSet struct{ Connected bool }

type ThemeSet struct{ Theme string }

type LanguageSet struct{ Language string }

type OnboardingSet struct{ Complete bool }

func (a LoadingSet) apply(s *State) { s.App.Loading = a.Loading }

func (a NetworkStatusSet) apply(s *State) { s.App.NetworkConnected = a.Connected }

func (a ThemeSet) apply(s *State) { s.App.Theme = a.Theme }

func (a LanguageSet) apply(s *State) { s.App.Language = a.Language }

func (a OnboardingSet) apply(s *State) { s.App.OnboardingComplete = a.Complete }
