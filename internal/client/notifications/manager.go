package notifications

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/state"
	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/common"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
)

// Enablement is the user-facing notification switch state.
type Enablement string

const (
	Disabled          Enablement = "disabled"
	PendingPermission Enablement = "pending-permission"
	Enabled           Enablement = "enabled"
)

type ToggleResult struct {
	Enabled          bool
	PermissionStatus models.PermissionStatus
}

// CreateParams describes a locally created notification. Empty ID,
// CreatedAt and Type are filled in.
type CreateParams struct {
	ID        string
	CreatedAt time.Time
	Title     string
	Body      string
	Type      models.NotificationType
}

// Manager owns notification enablement and the notification list held in
// the state store.
//
// Transitions:
//   - disabled -> pending-permission: Toggle(true) without granted permission
//   - pending-permission -> enabled/disabled: the permission answer
//   - pending-permission -> disabled: Toggle(false) while the prompt is open;
//     a later grant then leaves the switch off
//   - enabled -> disabled: Toggle(false), or RefreshPermission finding
//     permission revoked
//
// Entering disabled drops the device token; entering enabled registers one.
type Manager struct {
	store *state.Store
	perms PermissionProvider
	push  PushProvider
	prefs storage.Store
	log   logging.Logger
	now   func() time.Time

	// mu serializes check-then-dispatch sequences.
	mu          sync.Mutex
	initialSeen bool
}

// NewManager builds a Manager. prefs, when non-nil, persists the enabled
// flag across restarts.
func NewManager(store *state.Store, perms PermissionProvider, push PushProvider, prefs storage.Store, log logging.Logger) *Manager {
	return &Manager{
		store: store,
		perms: perms,
		push:  push,
		prefs: prefs,
		log:   log.With("service", "notifications"),
		now:   time.Now,
	}
}

// Enablement reports the current switch state.
func (m *Manager) Enablement() Enablement {
	n := m.store.GetState().Notifications
	switch {
	case n.Enabled:
		return Enabled
	case n.Pending:
		return PendingPermission
	default:
		return Disabled
	}
}

// Load restores the persisted enabled flag. Permission is re-checked so a
// flag saved before a revoke does not re-enable delivery.
func (m *Manager) Load(ctx context.Context) {
	if m.prefs == nil {
		return
	}
	v, ok, err := m.prefs.Get(ctx, common.KeyNotificationsOn)
	if err != nil {
		m.log.Warn(ctx, "read notification preference", "error", err)
		return
	}
	on, _ := strconv.ParseBool(v)
	if !ok || !on {
		return
	}

	m.mu.Lock()
	m.store.Dispatch(state.NotificationsEnabledSet{Enabled: true})
	m.mu.Unlock()

	m.RefreshPermission(ctx)
}

// Toggle switches notifications on or off. Turning on without granted
// permission asks for it first.
func (m *Manager) Toggle(ctx context.Context, on bool) ToggleResult {
	if !on {
		m.mu.Lock()
		current := m.store.GetState().Notifications.PermissionStatus
		m.setEnabled(ctx, false)
		m.mu.Unlock()
		m.clearDeviceToken(ctx)
		return ToggleResult{Enabled: false, PermissionStatus: current}
	}

	m.mu.Lock()
	if m.store.GetState().Notifications.PermissionStatus == models.PermissionGranted {
		m.setEnabled(ctx, true)
		m.mu.Unlock()
		m.registerDeviceToken(ctx)
		return ToggleResult{Enabled: true, PermissionStatus: models.PermissionGranted}
	}
	m.store.Dispatch(state.NotificationsPendingSet{Pending: true})
	m.mu.Unlock()

	status, enabled := m.requestPermission(ctx, true)
	return ToggleResult{Enabled: enabled, PermissionStatus: status}
}

// RequestPermission asks for permission and enables notifications iff it
// was granted.
func (m *Manager) RequestPermission(ctx context.Context) models.PermissionStatus {
	status, _ := m.requestPermission(ctx, false)
	return status
}

// requestPermission asks the provider and applies the answer. When
// fromToggle is set, a grant only enables notifications if the switch is
// still pending; a Toggle(false) made while the prompt was open wins.
func (m *Manager) requestPermission(ctx context.Context, fromToggle bool) (models.PermissionStatus, bool) {
	status := m.perms.Request(ctx)
	m.log.Info(ctx, "notification permission requested", "status", status)

	granted := status == models.PermissionGranted
	m.mu.Lock()
	m.store.Dispatch(state.PermissionStatusSet{Status: status})
	enable := granted
	if fromToggle && !m.store.GetState().Notifications.Pending {
		enable = false
	}
	withdrawn := granted && !enable
	if withdrawn {
		m.log.Info(ctx, "permission granted after notifications were switched off")
	} else {
		m.setEnabled(ctx, enable)
	}
	m.mu.Unlock()

	switch {
	case enable:
		m.registerDeviceToken(ctx)
	case !withdrawn:
		m.clearDeviceToken(ctx)
	}
	return status, enable
}

// RefreshPermission re-reads the permission, typically when the app
// returns to the foreground. A revoked permission disables notifications.
func (m *Manager) RefreshPermission(ctx context.Context) models.PermissionStatus {
	status := m.perms.Status(ctx)

	m.mu.Lock()
	m.store.Dispatch(state.PermissionStatusSet{Status: status})
	n := m.store.GetState().Notifications
	revoked := status != models.PermissionGranted && n.Enabled
	if revoked {
		m.log.Info(ctx, "notification permission revoked", "status", status)
		m.setEnabled(ctx, false)
	}
	m.mu.Unlock()

	switch {
	case status == models.PermissionGranted && n.Enabled:
		m.registerDeviceToken(ctx)
	case status != models.PermissionGranted:
		m.clearDeviceToken(ctx)
	}
	return status
}

// HandleRemote normalizes raw and stores it. It reports false when
// notifications are off or the id is already held; neither is an error.
func (m *Manager) HandleRemote(ctx context.Context, raw RawRemoteMessage) (models.Notification, bool) {
	return m.HandleMessage(ctx, Normalize(raw, m.now()))
}

func (m *Manager) HandleMessage(ctx context.Context, msg models.RemotePushMessage) (models.Notification, bool) {
	rec := ToNotification(msg)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.store.GetState().Notifications
	if !n.Enabled {
		m.log.Debug(ctx, "notification dropped, disabled", "id", rec.ID)
		return rec, false
	}
	if n.HasNotification(rec.ID) {
		m.log.Debug(ctx, "notification dropped, duplicate", "id", rec.ID)
		return rec, false
	}

	m.store.Dispatch(state.NotificationAdded{Notification: rec})
	m.log.Info(ctx, "notification received", "id", rec.ID, "type", rec.Type)
	return rec, true
}

// Create adds a local notification regardless of the enabled flag.
func (m *Manager) Create(ctx context.Context, p CreateParams) models.Notification {
	now := m.now()
	rec := models.Notification{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		Type:      p.Type,
		CreatedAt: p.CreatedAt,
	}
	if rec.ID == "" {
		rec.ID = makeID(localIDPrefix, now)
	}
	if rec.Type == "" {
		rec.Type = models.NotificationSystem
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now.UTC()
	}

	m.mu.Lock()
	m.store.Dispatch(state.NotificationAdded{Notification: rec})
	m.mu.Unlock()

	m.log.Debug(ctx, "notification created", "id", rec.ID)
	return rec
}

// CreateTest adds the sample notification used to check delivery.
func (m *Manager) CreateTest(ctx context.Context) models.Notification {
	return m.Create(ctx, CreateParams{
		Title: "Test notification",
		Body:  "Your notifications are working correctly.",
		Type:  models.NotificationSystem,
	})
}

func (m *Manager) MarkRead(id string) {
	m.store.Dispatch(state.NotificationRead{ID: id})
}

func (m *Manager) MarkAllRead() {
	m.store.Dispatch(state.AllNotificationsRead{})
}

func (m *Manager) ClearAll() {
	m.store.Dispatch(state.NotificationsCleared{})
}

// List returns held notifications, newest first.
func (m *Manager) List() []models.Notification {
	items := m.store.GetState().Notifications.Items
	slices.SortStableFunc(items, func(a, b models.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return items
}

// Badge is the unread count shown to the user; zero while disabled.
func (m *Manager) Badge() int {
	return m.store.GetState().Notifications.Badge
}

// Run feeds push deliveries into the list until ctx is done. Only the
// first cold-start message is processed.
func (m *Manager) Run(ctx context.Context) error {
	m.log.Info(ctx, "listening for push messages")
	return m.push.Listen(ctx, func(d Delivery) {
		if d.Kind == KindInitial {
			m.mu.Lock()
			seen := m.initialSeen
			m.initialSeen = true
			m.mu.Unlock()
			if seen {
				return
			}
		}
		m.HandleRemote(ctx, d.Message)
	})
}

// setEnabled must be called with m.mu held.
func (m *Manager) setEnabled(ctx context.Context, on bool) {
	m.store.Dispatch(state.NotificationsEnabledSet{Enabled: on})
	if m.prefs == nil {
		return
	}
	if err := m.prefs.Set(ctx, common.KeyNotificationsOn, strconv.FormatBool(on)); err != nil {
		m.log.Warn(ctx, "save notification preference", "error", err)
	}
}

func (m *Manager) registerDeviceToken(ctx context.Context) {
	tok, err := m.push.DeviceToken(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to register notification token", "error", err)
		tok = ""
	}
	m.store.Dispatch(state.DeviceTokenSet{Token: tok})
}

func (m *Manager) clearDeviceToken(ctx context.Context) {
	if err := m.push.DeleteDeviceToken(ctx); err != nil {
		m.log.Warn(ctx, "failed to delete notification token", "error", err)
	}
	m.store.Dispatch(state.DeviceTokenSet{Token: ""})
}
