package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
)

type fakeBackend struct {
	has      AuthorizationStatus
	req      AuthorizationStatus
	err      error
	requests int
}

func (f *fakeBackend) HasPermission(context.Context) (AuthorizationStatus, error) {
	return f.has, f.err
}

func (f *fakeBackend) RequestPermission(context.Context) (AuthorizationStatus, error) {
	f.requests++
	return f.req, f.err
}

func TestMapAuthorizationStatus(t *testing.T) {
	tests := []struct {
		in   AuthorizationStatus
		want models.PermissionStatus
	}{
		{Authorized, models.PermissionGranted},
		{Provisional, models.PermissionGranted},
		{Ephemeral, models.PermissionGranted},
		{Denied, models.PermissionDenied},
		{NotDetermined, models.PermissionUnknown},
		{AuthorizationStatus(99), models.PermissionUnavailable},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapAuthorizationStatus(tt.in), "status %d", tt.in)
	}
}

func TestMessagingPermissionProvider(t *testing.T) {
	ctx := context.Background()

	p := NewMessagingPermissionProvider(&fakeBackend{has: Provisional, req: Denied})
	assert.Equal(t, models.PermissionGranted, p.Status(ctx))
	assert.Equal(t, models.PermissionDenied, p.Request(ctx))

	broken := NewMessagingPermissionProvider(&fakeBackend{err: errors.New("sdk down")})
	assert.Equal(t, models.PermissionUnavailable, broken.Status(ctx))
	assert.Equal(t, models.PermissionUnavailable, broken.Request(ctx))
}

func TestAndroidPermissionProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("below 33 always granted", func(t *testing.T) {
		b := &fakeBackend{has: Denied, req: Denied}
		p := NewAndroidPermissionProvider(32, b)
		assert.Equal(t, models.PermissionGranted, p.Status(ctx))
		assert.Equal(t, models.PermissionGranted, p.Request(ctx))
		assert.Zero(t, b.requests)
	})

	t.Run("33 asks the runtime", func(t *testing.T) {
		p := NewAndroidPermissionProvider(33, &fakeBackend{has: NotDetermined, req: Authorized})
		assert.Equal(t, models.PermissionDenied, p.Status(ctx))
		assert.Equal(t, models.PermissionGranted, p.Request(ctx))
	})

	t.Run("runtime error", func(t *testing.T) {
		p := NewAndroidPermissionProvider(34, &fakeBackend{err: errors.New("boom")})
		assert.Equal(t, models.PermissionUnavailable, p.Status(ctx))
		assert.Equal(t, models.PermissionUnavailable, p.Request(ctx))
	})
}

func TestNewPermissionProvider(t *testing.T) {
	b := &fakeBackend{}
	assert.IsType(t, &AndroidPermissionProvider{}, NewPermissionProvider("android", "33", b))
	assert.IsType(t, &AndroidPermissionProvider{}, NewPermissionProvider("Android", "x", b))
	assert.IsType(t, &MessagingPermissionProvider{}, NewPermissionProvider("generic", "", b))

	assert.Equal(t, 0, ParseAPILevel("tiramisu"))
	assert.Equal(t, 33, ParseAPILevel(" 33 "))
}

func TestStoredPermissionBackend(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemoryStore()
	asks := 0
	answer := true
	b := &StoredPermissionBackend{Store: st, Ask: func(context.Context) (bool, error) {
		asks++
		return answer, nil
	}}

	s, err := b.HasPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, NotDetermined, s)

	s, err = b.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, Authorized, s)

	s, err = b.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, Authorized, s)
	assert.Equal(t, 1, asks)

	v, ok, err := st.Get(ctx, DefaultPermissionKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	require.NoError(t, st.Set(ctx, DefaultPermissionKey, "0"))
	answer = false
	s, err = b.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, Denied, s)
	assert.Equal(t, 2, asks)

	noAsk := &StoredPermissionBackend{Store: storage.NewMemoryStore()}
	s, err = noAsk.RequestPermission(ctx)
	require.NoError(t, err)
	assert.Equal(t, Denied, s)
}
