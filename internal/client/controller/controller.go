// Package controller is the boundary between the UI and the services. Each
// operation updates the state store and resolves to a Result, so callers
// can render an outcome without inspecting error types.
package controller

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gophmobile/internal/client/api"
	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/reporting"
	"github.com/dmitrijs2005/gophmobile/internal/client/services"
	"github.com/dmitrijs2005/gophmobile/internal/client/state"
	"github.com/dmitrijs2005/gophmobile/internal/common"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
)

// Fallback messages used when an error carries no text.
const (
	MsgLoginFailed          = "Login failed"
	MsgRegistrationFailed   = "Registration failed"
	MsgLogoutFailed         = "Logout failed"
	MsgForgotPasswordFailed = "Forgot password request failed"
	MsgResetPasswordFailed  = "Reset password failed"
	MsgVerifyEmailFailed    = "Email verification failed"
	MsgProfileFailed        = "Failed to load profile"
	MsgUpdateProfileFailed  = "Failed to update profile"
	MsgChangePasswordFailed = "Failed to change password"
	MsgDeleteAccountFailed  = "Failed to delete account"
)

// Result is the outcome of a user action. Fields carries server-side
// validation messages when there are any.
type Result struct {
	Success bool
	Error   string
	Message string
	Fields  map[string][]string
}

func ok(message string) Result {
	return Result{Success: true, Message: message}
}

func failed(err error, fallback string) Result {
	r := Result{Error: fallback}
	if err != nil && err.Error() != "" {
		r.Error = err.Error()
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.IsValidation() {
		r.Fields = apiErr.Errors
	}
	return r
}

// unexpected reports whether err points at a fault rather than an outcome
// the user can act on: server errors and local failures qualify, while
// rejected input, lost connectivity and ended sessions do not.
func unexpected(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, api.ErrTransport),
		errors.Is(err, common.ErrSessionInvalid),
		errors.Is(err, common.ErrUnsupportedEndpoint):
		return false
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	return true
}

func capture(r reporting.Reporter, controller, operation string, err error) {
	if !unexpected(err) {
		return
	}
	c := reporting.Context{Tags: map[string]string{"controller": controller, "operation": operation}}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		c.Extra = map[string]any{"status": apiErr.Status, "code": apiErr.Code}
	}
	r.CaptureError(err, c)
}

func orNop(r reporting.Reporter) reporting.Reporter {
	if r == nil {
		return reporting.Nop()
	}
	return r
}

// Auth drives sign-in, sign-out and the password flows.
type Auth struct {
	svc      services.AuthService
	store    *state.Store
	log      logging.Logger
	reporter reporting.Reporter
}

// NewAuth builds the auth controller. A nil reporter drops failures.
func NewAuth(svc services.AuthService, store *state.Store, log logging.Logger, reporter reporting.Reporter) *Auth {
	return &Auth{svc: svc, store: store, log: log.With("controller", "auth"), reporter: orNop(reporter)}
}

func (c *Auth) failed(op string, err error, fallback string) Result {
	capture(c.reporter, "auth", op, err)
	return failed(err, fallback)
}

func (c *Auth) Login(ctx context.Context, req models.LoginRequest) Result {
	c.store.Dispatch(state.LoginStarted{})
	u, err := c.svc.Login(ctx, req)
	if err != nil {
		r := c.failed("login", err, MsgLoginFailed)
		c.store.Dispatch(state.LoginFailed{Error: r.Error})
		return r
	}
	c.store.Dispatch(state.LoginSucceeded{User: *u})
	return ok("")
}

func (c *Auth) Register(ctx context.Context, req models.RegisterRequest) Result {
	c.store.Dispatch(state.RegisterStarted{})
	u, err := c.svc.Register(ctx, req)
	if err != nil {
		r := c.failed("register", err, MsgRegistrationFailed)
		c.store.Dispatch(state.RegisterFailed{Error: r.Error})
		return r
	}
	c.store.Dispatch(state.RegisterSucceeded{User: *u})
	return ok("")
}

// Logout always leaves the store signed out; a failed remote call only
// changes the reported Result.
func (c *Auth) Logout(ctx context.Context) Result {
	if c.store.GetState().Auth.IsGuest() {
		c.store.Dispatch(state.LogoutSucceeded{})
		return ok("")
	}

	c.store.Dispatch(state.LogoutStarted{})
	if err := c.svc.Logout(ctx); err != nil {
		r := c.failed("logout", err, MsgLogoutFailed)
		c.store.Dispatch(state.LogoutFailed{Error: r.Error})
		return r
	}
	c.store.Dispatch(state.LogoutSucceeded{})
	return ok("")
}

func (c *Auth) ForgotPassword(ctx context.Context, email string) Result {
	msg, err := c.svc.ForgotPassword(ctx, email)
	if err != nil {
		return c.failed("forgot_password", err, MsgForgotPasswordFailed)
	}
	return ok(msg)
}

func (c *Auth) ResetPassword(ctx context.Context, token, newPassword string) Result {
	msg, err := c.svc.ResetPassword(ctx, token, newPassword)
	if err != nil {
		return c.failed("reset_password", err, MsgResetPasswordFailed)
	}
	return ok(msg)
}

func (c *Auth) VerifyEmail(ctx context.Context, token string) Result {
	msg, err := c.svc.VerifyEmail(ctx, token)
	if err != nil {
		return c.failed("verify_email", err, MsgVerifyEmailFailed)
	}
	return ok(msg)
}

// ContinueAsGuest enters guest mode. A signed-in user must log out first.
func (c *Auth) ContinueAsGuest(ctx context.Context) Result {
	if c.store.GetState().Auth.IsAuthenticated() {
		return Result{Error: "Already signed in"}
	}
	c.log.Info(ctx, "continuing as guest")
	c.store.Dispatch(state.GuestEntered{})
	return ok("")
}

// Restore loads a persisted session into the store at startup.
func (c *Auth) Restore(ctx context.Context) Result {
	u, err := c.svc.RestoreSession(ctx)
	if err != nil {
		c.store.Dispatch(state.LogoutSucceeded{})
		return c.failed("restore", err, MsgLoginFailed)
	}
	if u == nil {
		return Result{}
	}
	c.store.Dispatch(state.SessionRestored{User: *u})
	return ok("")
}

func (c *Auth) ClearError() {
	c.store.Dispatch(state.ErrorCleared{})
}

// Profile keeps the signed-in user in the store in step with the server.
type Profile struct {
	svc      services.UserService
	store    *state.Store
	log      logging.Logger
	reporter reporting.Reporter
}

func NewProfile(svc services.UserService, store *state.Store, log logging.Logger, reporter reporting.Reporter) *Profile {
	return &Profile{svc: svc, store: store, log: log.With("controller", "profile"), reporter: orNop(reporter)}
}

func (c *Profile) Refresh(ctx context.Context) Result {
	u, err := c.svc.Profile(ctx)
	if err != nil {
		return c.failed(ctx, "profile", err, MsgProfileFailed)
	}
	c.store.Dispatch(state.UserUpdated{User: *u})
	return ok("")
}

func (c *Profile) Update(ctx context.Context, req models.UpdateProfileRequest) Result {
	u, err := c.svc.UpdateProfile(ctx, req)
	if err != nil {
		return c.failed(ctx, "update_profile", err, MsgUpdateProfileFailed)
	}
	c.store.Dispatch(state.UserUpdated{User: *u})
	return ok("")
}

func (c *Profile) ChangePassword(ctx context.Context, current, next string) Result {
	msg, err := c.svc.ChangePassword(ctx, current, next)
	if err != nil {
		return c.failed(ctx, "change_password", err, MsgChangePasswordFailed)
	}
	return ok(msg)
}

func (c *Profile) DeleteAccount(ctx context.Context, password string) Result {
	msg, err := c.svc.DeleteAccount(ctx, password)
	if err != nil {
		return c.failed(ctx, "delete_account", err, MsgDeleteAccountFailed)
	}
	c.store.Dispatch(state.LogoutSucceeded{})
	return ok(msg)
}

// failed signs the store out when the server no longer honours the
// session.
func (c *Profile) failed(ctx context.Context, op string, err error, fallback string) Result {
	if errors.Is(err, common.ErrSessionInvalid) {
		c.log.Warn(ctx, "session invalidated", "error", err)
		c.store.Dispatch(state.LogoutSucceeded{})
	}
	capture(c.reporter, "profile", op, err)
	return failed(err, fallback)
}
