package services

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/common"
)

// fakeRenewer stands in for the API client's refresher: it stores token as
// the new access token, or fails with err.
type fakeRenewer struct {
	store storage.Store
	token string
	err   error
	stale []string
}

func (f *fakeRenewer) Refresh(ctx context.Context, stale string) (string, error) {
	f.stale = append(f.stale, stale)
	if f.err != nil {
		return "", f.err
	}
	return f.token, f.store.Set(ctx, common.KeyAccessToken, f.token)
}

// fakeAuthRepo implements auth.Repository for service tests.
type fakeAuthRepo struct {
	LoginRet    models.LoginResponse
	LoginErr    error
	RegisterRet models.LoginResponse
	RegisterErr error
	LogoutErr   error
	MessageRet  string
	MessageErr  error

	LastLogin   models.LoginRequest
	LogoutCalls int
}

func (f *fakeAuthRepo) Login(_ context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	f.LastLogin = req
	return f.LoginRet, f.LoginErr
}

func (f *fakeAuthRepo) Register(_ context.Context, _ models.RegisterRequest) (models.LoginResponse, error) {
	return f.RegisterRet, f.RegisterErr
}

func (f *fakeAuthRepo) Logout(context.Context) error {
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeAuthRepo) ForgotPassword(context.Context, string) (string, error) {
	return f.MessageRet, f.MessageErr
}

func (f *fakeAuthRepo) ResetPassword(context.Context, string, string) (string, error) {
	return f.MessageRet, f.MessageErr
}

func (f *fakeAuthRepo) VerifyEmail(context.Context, string) (string, error) {
	return f.MessageRet, f.MessageErr
}

func (f *fakeAuthRepo) ResendVerificationEmail(context.Context, string) (string, error) {
	return "", errors.New("unsupported")
}

// fakeUserRepo implements user.Repository.
type fakeUserRepo struct {
	User      models.User
	Err       error
	Message   string
	AvatarURL string
}

func (f *fakeUserRepo) GetProfile(context.Context) (models.User, error) { return f.User, f.Err }

func (f *fakeUserRepo) UpdateProfile(_ context.Context, req models.UpdateProfileRequest) (models.User, error) {
	u := f.User
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	return u, f.Err
}

func (f *fakeUserRepo) ChangePassword(context.Context, string, string) (string, error) {
	return f.Message, f.Err
}

func (f *fakeUserRepo) DeleteAccount(context.Context, string) (string, error) {
	return f.Message, f.Err
}

func (f *fakeUserRepo) UploadAvatar(context.Context, string, io.Reader) (string, error) {
	return f.AvatarURL, f.Err
}

// brokenStore fails every operation.
type brokenStore struct{ err error }

func (b brokenStore) Get(context.Context, string) (string, bool, error) { return "", false, b.err }
func (b brokenStore) Set(context.Context, string, string) error         { return b.err }
func (b brokenStore) Remove(context.Context, string) error              { return b.err }
func (b brokenStore) Clear(context.Context) error                       { return b.err }

// recordingStore wraps a MemoryStore and counts writes.
type recordingStore struct {
	*storage.MemoryStore
	mu   sync.Mutex
	sets []string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{MemoryStore: storage.NewMemoryStore()}
}

func (r *recordingStore) Set(ctx context.Context, key, value string) error {
	r.mu.Lock()
	r.sets = append(r.sets, key)
	r.mu.Unlock()
	return r.MemoryStore.Set(ctx, key, value)
}
