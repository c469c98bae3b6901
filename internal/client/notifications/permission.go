package notifications

import (
	"context"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
)

// AuthorizationStatus is the messaging SDK's permission code.
type AuthorizationStatus int

const (
	NotDetermined AuthorizationStatus = -1
	Denied        AuthorizationStatus = 0
	Authorized    AuthorizationStatus = 1
	Provisional   AuthorizationStatus = 2
	Ephemeral     AuthorizationStatus = 3
)

// AndroidNotificationPermission is the runtime permission required from
// API level 33.
const AndroidNotificationPermission = "android.permission.POST_NOTIFICATIONS"

const androidRuntimePermissionLevel = 33

// PermissionBackend is the platform hook that actually asks the OS or SDK.
type PermissionBackend interface {
	HasPermission(ctx context.Context) (AuthorizationStatus, error)
	RequestPermission(ctx context.Context) (AuthorizationStatus, error)
}

// PermissionProvider reports and requests notification permission. Errors
// never escape; they read as PermissionUnavailable.
type PermissionProvider interface {
	Status(ctx context.Context) models.PermissionStatus
	Request(ctx context.Context) models.PermissionStatus
}

// MapAuthorizationStatus converts an SDK status code.
func MapAuthorizationStatus(s AuthorizationStatus) models.PermissionStatus {
	switch s {
	case Authorized, Provisional, Ephemeral:
		return models.PermissionGranted
	case Denied:
		return models.PermissionDenied
	case NotDetermined:
		return models.PermissionUnknown
	default:
		return models.PermissionUnavailable
	}
}

// MessagingPermissionProvider delegates to the messaging SDK permission API.
type MessagingPermissionProvider struct {
	backend PermissionBackend
}

func NewMessagingPermissionProvider(b PermissionBackend) *MessagingPermissionProvider {
	return &MessagingPermissionProvider{backend: b}
}

func (p *MessagingPermissionProvider) Status(ctx context.Context) models.PermissionStatus {
	s, err := p.backend.HasPermission(ctx)
	if err != nil {
		return models.PermissionUnavailable
	}
	return MapAuthorizationStatus(s)
}

func (p *MessagingPermissionProvider) Request(ctx context.Context) models.PermissionStatus {
	s, err := p.backend.RequestPermission(ctx)
	if err != nil {
		return models.PermissionUnavailable
	}
	return MapAuthorizationStatus(s)
}

// AndroidPermissionProvider treats API levels below 33 as always granted;
// newer levels need the runtime permission, which is either granted or
// denied.
type AndroidPermissionProvider struct {
	apiLevel int
	backend  PermissionBackend
}

func NewAndroidPermissionProvider(apiLevel int, b PermissionBackend) *AndroidPermissionProvider {
	return &AndroidPermissionProvider{apiLevel: apiLevel, backend: b}
}

func (p *AndroidPermissionProvider) Status(ctx context.Context) models.PermissionStatus {
	if p.apiLevel < androidRuntimePermissionLevel {
		return models.PermissionGranted
	}
	s, err := p.backend.HasPermission(ctx)
	if err != nil {
		return models.PermissionUnavailable
	}
	return grantedOrDenied(s)
}

func (p *AndroidPermissionProvider) Request(ctx context.Context) models.PermissionStatus {
	if p.apiLevel < androidRuntimePermissionLevel {
		return models.PermissionGranted
	}
	s, err := p.backend.RequestPermission(ctx)
	if err != nil {
		return models.PermissionUnavailable
	}
	return grantedOrDenied(s)
}

func grantedOrDenied(s AuthorizationStatus) models.PermissionStatus {
	if s == Authorized {
		return models.PermissionGranted
	}
	return models.PermissionDenied
}

// ParseAPILevel reads a platform version string; anything unparsable is 0.
func ParseAPILevel(version string) int {
	n, err := strconv.Atoi(strings.TrimSpace(version))
	if err != nil {
		return 0
	}
	return n
}

// NewPermissionProvider picks the implementation for platform.
func NewPermissionProvider(platform, version string, b PermissionBackend) PermissionProvider {
	if strings.EqualFold(platform, "android") {
		return NewAndroidPermissionProvider(ParseAPILevel(version), b)
	}
	return NewMessagingPermissionProvider(b)
}

// StoredPermissionBackend remembers the user's answer in a store, asking
// through Ask only while no answer is recorded. It serves hosts without an
// OS-level permission prompt.
type StoredPermissionBackend struct {
	Store storage.Store
	Key   string
	Ask   func(ctx context.Context) (bool, error)
}

const DefaultPermissionKey = "notification_permission"

func (b *StoredPermissionBackend) key() string {
	if b.Key == "" {
		return DefaultPermissionKey
	}
	return b.Key
}

func (b *StoredPermissionBackend) HasPermission(ctx context.Context) (AuthorizationStatus, error) {
	v, ok, err := b.Store.Get(ctx, b.key())
	if err != nil {
		return NotDetermined, err
	}
	if !ok {
		return NotDetermined, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return NotDetermined, nil
	}
	return AuthorizationStatus(n), nil
}

func (b *StoredPermissionBackend) RequestPermission(ctx context.Context) (AuthorizationStatus, error) {
	if s, err := b.HasPermission(ctx); err == nil && s == Authorized {
		return s, nil
	}
	if b.Ask == nil {
		return Denied, nil
	}

	yes, err := b.Ask(ctx)
	if err != nil {
		return NotDetermined, err
	}
	s := Denied
	if yes {
		s = Authorized
	}
	if err := b.Store.Set(ctx, b.key(), strconv.Itoa(int(s))); err != nil {
		return NotDetermined, err
	}
	return s, nil
}
