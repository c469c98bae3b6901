package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophmobile/internal/client/api"
	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/reporting"
	"github.com/dmitrijs2005/gophmobile/internal/client/state"
	"github.com/dmitrijs2005/gophmobile/internal/common"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
)

type fakeAuth struct {
	user       *models.User
	err        error
	logoutErr  error
	msg        string
	restore    *models.User
	restoreErr error
	logouts    int
}

func (f *fakeAuth) Login(context.Context, models.LoginRequest) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeAuth) Register(context.Context, models.RegisterRequest) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	return f.logoutErr
}

func (f *fakeAuth) IsAuthenticated(context.Context) bool     { return f.user != nil }
func (f *fakeAuth) CurrentUser(context.Context) *models.User { return f.user }
func (f *fakeAuth) Session(context.Context) (*models.Session, error) {
	return nil, common.ErrorNotFound
}

func (f *fakeAuth) RestoreSession(context.Context) (*models.User, error) {
	return f.restore, f.restoreErr
}

func (f *fakeAuth) ForgotPassword(context.Context, string) (string, error) { return f.msg, f.err }

func (f *fakeAuth) ResetPassword(context.Context, string, string) (string, error) {
	return f.msg, f.err
}

func (f *fakeAuth) VerifyEmail(context.Context, string) (string, error) { return f.msg, f.err }

func (f *fakeAuth) ResendVerificationEmail(context.Context, string) (string, error) {
	return "", api.Unsupported("POST", "/auth/verify-email/resend")
}

type fakeUsers struct {
	user *models.User
	err  error
	msg  string
}

func (f *fakeUsers) Profile(context.Context) (*models.User, error) { return f.user, f.err }

func (f *fakeUsers) UpdateProfile(context.Context, models.UpdateProfileRequest) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeUsers) ChangePassword(context.Context, string, string) (string, error) {
	return f.msg, f.err
}

func (f *fakeUsers) DeleteAccount(context.Context, string) (string, error) { return f.msg, f.err }

func (f *fakeUsers) UploadAvatar(context.Context, string, io.Reader) (string, error) {
	return "", f.err
}

type fakeReporter struct {
	errs []error
	tags []map[string]string
}

func (f *fakeReporter) CaptureError(err error, c reporting.Context) {
	f.errs = append(f.errs, err)
	f.tags = append(f.tags, c.Tags)
}

func (f *fakeReporter) SetUser(*models.User) {}

func (f *fakeReporter) Flush(time.Duration) bool { return true }

// emptyErr has no message, forcing the fallback text.
type emptyErr struct{}

func (emptyErr) Error() string { return "" }

func testUser() *models.User {
	return &models.User{ID: "1", Email: "test@example.com"}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		st := state.NewStore()
		c := NewAuth(&fakeAuth{user: testUser()}, st, logging.Nop(), nil)

		r := c.Login(ctx, models.LoginRequest{Email: "test@example.com", Password: "password123"})
		assert.Equal(t, Result{Success: true}, r)

		s := st.GetState().Auth
		assert.Equal(t, state.Authenticated, s.Status)
		require.NotNil(t, s.User)
		assert.Equal(t, "test@example.com", s.User.Email)
		assert.False(t, s.Loading)
	})

	t.Run("server message passes through", func(t *testing.T) {
		st := state.NewStore()
		c := NewAuth(&fakeAuth{err: &api.Error{Message: "Invalid credentials", Status: 401}}, st, logging.Nop(), nil)

		r := c.Login(ctx, models.LoginRequest{})
		assert.False(t, r.Success)
		assert.Equal(t, "Invalid credentials", r.Error)
		assert.Equal(t, "Invalid credentials", st.GetState().Auth.Error)
		assert.Equal(t, state.Unauthenticated, st.GetState().Auth.Status)
	})

	t.Run("fallback", func(t *testing.T) {
		c := NewAuth(&fakeAuth{err: emptyErr{}}, state.NewStore(), logging.Nop(), nil)
		assert.Equal(t, MsgLoginFailed, c.Login(ctx, models.LoginRequest{}).Error)
	})
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	st := state.NewStore()
	c := NewAuth(&fakeAuth{user: testUser()}, st, logging.Nop(), nil)
	assert.True(t, c.Register(ctx, models.RegisterRequest{}).Success)
	assert.True(t, st.GetState().Auth.IsAuthenticated())

	valErr := &api.Error{
		Message: "Validation failed",
		Status:  422,
		Errors:  map[string][]string{"email": {"Email already exists"}},
	}
	c = NewAuth(&fakeAuth{err: valErr}, state.NewStore(), logging.Nop(), nil)
	r := c.Register(ctx, models.RegisterRequest{})
	assert.Equal(t, "Validation failed", r.Error)
	assert.Equal(t, []string{"Email already exists"}, r.Fields["email"])

	c = NewAuth(&fakeAuth{err: emptyErr{}}, state.NewStore(), logging.Nop(), nil)
	assert.Equal(t, MsgRegistrationFailed, c.Register(ctx, models.RegisterRequest{}).Error)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("remote failure still signs out", func(t *testing.T) {
		st := state.NewStore()
		st.Dispatch(state.LoginSucceeded{User: *testUser()})
		c := NewAuth(&fakeAuth{logoutErr: emptyErr{}}, st, logging.Nop(), nil)

		r := c.Logout(ctx)
		assert.False(t, r.Success)
		assert.Equal(t, MsgLogoutFailed, r.Error)
		assert.Equal(t, state.Unauthenticated, st.GetState().Auth.Status)
		assert.Nil(t, st.GetState().Auth.User)
	})

	t.Run("guest skips remote", func(t *testing.T) {
		st := state.NewStore()
		svc := &fakeAuth{}
		c := NewAuth(svc, st, logging.Nop(), nil)
		require.True(t, c.ContinueAsGuest(ctx).Success)

		assert.True(t, c.Logout(ctx).Success)
		assert.Zero(t, svc.logouts)
		assert.Equal(t, state.Unauthenticated, st.GetState().Auth.Status)
	})
}

func TestPasswordFlows(t *testing.T) {
	ctx := context.Background()

	c := NewAuth(&fakeAuth{msg: "Email sent"}, state.NewStore(), logging.Nop(), nil)
	assert.Equal(t, Result{Success: true, Message: "Email sent"}, c.ForgotPassword(ctx, "a@b.co"))
	assert.Equal(t, Result{Success: true, Message: "Email sent"}, c.ResetPassword(ctx, "tok", "pw"))
	assert.True(t, c.VerifyEmail(ctx, "tok").Success)

	c = NewAuth(&fakeAuth{err: emptyErr{}}, state.NewStore(), logging.Nop(), nil)
	assert.Equal(t, MsgForgotPasswordFailed, c.ForgotPassword(ctx, "a@b.co").Error)
	assert.Equal(t, MsgResetPasswordFailed, c.ResetPassword(ctx, "tok", "pw").Error)
	assert.Equal(t, MsgVerifyEmailFailed, c.VerifyEmail(ctx, "tok").Error)
}

func TestContinueAsGuest_RejectedWhenSignedIn(t *testing.T) {
	st := state.NewStore()
	st.Dispatch(state.LoginSucceeded{User: *testUser()})
	c := NewAuth(&fakeAuth{}, st, logging.Nop(), nil)

	r := c.ContinueAsGuest(context.Background())
	assert.False(t, r.Success)
	assert.True(t, st.GetState().Auth.IsAuthenticated())
}

func TestRestore(t *testing.T) {
	ctx := context.Background()

	st := state.NewStore()
	c := NewAuth(&fakeAuth{restore: testUser()}, st, logging.Nop(), nil)
	assert.True(t, c.Restore(ctx).Success)
	assert.True(t, st.GetState().Auth.IsAuthenticated())

	st = state.NewStore()
	c = NewAuth(&fakeAuth{}, st, logging.Nop(), nil)
	assert.Equal(t, Result{}, c.Restore(ctx))
	assert.Equal(t, state.Unauthenticated, st.GetState().Auth.Status)

	st = state.NewStore()
	c = NewAuth(&fakeAuth{restoreErr: fmt.Errorf("%w: expired", common.ErrSessionInvalid)}, st, logging.Nop(), nil)
	r := c.Restore(ctx)
	assert.False(t, r.Success)
	assert.Contains(t, r.Error, "expired")
	assert.Equal(t, state.Unauthenticated, st.GetState().Auth.Status)
}

func TestClearError(t *testing.T) {
	st := state.NewStore()
	c := NewAuth(&fakeAuth{err: errors.New("nope")}, st, logging.Nop(), nil)
	c.Login(context.Background(), models.LoginRequest{})
	require.NotEmpty(t, st.GetState().Auth.Error)
	c.ClearError()
	assert.Empty(t, st.GetState().Auth.Error)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	st := state.NewStore()
	st.Dispatch(state.LoginSucceeded{User: *testUser()})

	updated := testUser()
	updated.FirstName = "Ann"
	users := &fakeUsers{user: updated, msg: "done"}
	c := NewProfile(users, st, logging.Nop(), nil)

	assert.True(t, c.Refresh(ctx).Success)
	assert.Equal(t, "Ann", st.GetState().Auth.User.FirstName)

	assert.True(t, c.Update(ctx, models.UpdateProfileRequest{}).Success)
	assert.Equal(t, Result{Success: true, Message: "done"}, c.ChangePassword(ctx, "a", "b"))

	users.err = emptyErr{}
	assert.Equal(t, MsgProfileFailed, c.Refresh(ctx).Error)
	assert.True(t, st.GetState().Auth.IsAuthenticated())

	users.err = fmt.Errorf("%w: refresh rejected", common.ErrSessionInvalid)
	r := c.Update(ctx, models.UpdateProfileRequest{})
	assert.False(t, r.Success)
	assert.Equal(t, state.Unauthenticated, st.GetState().Auth.Status)
}

func TestProfile_DeleteAccountSignsOut(t *testing.T) {
	st := state.NewStore()
	st.Dispatch(state.LoginSucceeded{User: *testUser()})
	c := NewProfile(&fakeUsers{msg: "Account deleted"}, st, logging.Nop(), nil)

	r := c.DeleteAccount(context.Background(), "pw")
	assert.Equal(t, Result{Success: true, Message: "Account deleted"}, r)
	assert.Equal(t, state.Unauthenticated, st.GetState().Auth.Status)
}

func TestFailures_OnlyUnexpectedAreReported(t *testing.T) {
	ctx := context.Background()
	serverErr := &api.Error{Message: "Internal Server Error", Code: api.CodeUnknown, Status: 503}

	rep := &fakeReporter{}
	auth := &fakeAuth{err: serverErr}
	c := NewAuth(auth, state.NewStore(), logging.Nop(), rep)

	assert.False(t, c.Login(ctx, models.LoginRequest{}).Success)
	require.Len(t, rep.errs, 1)
	assert.Same(t, serverErr, rep.errs[0])
	assert.Equal(t, map[string]string{"controller": "auth", "operation": "login"}, rep.tags[0])

	for _, err := range []error{
		&api.Error{Message: "Invalid credentials", Status: 401},
		&api.Error{Message: "Validation failed", Status: 422, Errors: map[string][]string{"email": {"taken"}}},
		fmt.Errorf("%w: refresh rejected", common.ErrSessionInvalid),
		api.Unsupported("POST", "/auth/verify-email"),
		context.Canceled,
	} {
		auth.err = err
		c.VerifyEmail(ctx, "token")
	}
	assert.Len(t, rep.errs, 1)

	users := &fakeUsers{err: errors.New("disk full")}
	p := NewProfile(users, state.NewStore(), logging.Nop(), rep)
	p.Refresh(ctx)
	require.Len(t, rep.errs, 2)
	assert.Equal(t, "profile", rep.tags[1]["operation"])
}
