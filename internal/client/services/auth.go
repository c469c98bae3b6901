// Package services contains the application services of the gophmobile
// client. AuthService is the only writer of session tokens; UserService
// keeps the cached profile in step with the server.
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophmobile/internal/client/api"
	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/repositories/auth"
	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/common"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
)

// AuthService defines session operations.
//
// Contract:
//   - Login/Register: authenticate remotely, persist tokens and the user
//     snapshot, return the snapshot. Remote errors come back unchanged.
//   - Logout: best-effort remote call, then unconditional local cleanup.
//     A remote failure is still reported after cleanup.
//   - IsAuthenticated/CurrentUser: never fail; storage errors read as
//     "not authenticated" and "no user".
//   - ForgotPassword/ResetPassword/VerifyEmail: pass-throughs returning the
//     server message.
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context) error

	IsAuthenticated(ctx context.Context) bool
	CurrentUser(ctx context.Context) *models.User
	Session(ctx context.Context) (*models.Session, error)
	RestoreSession(ctx context.Context) (*models.User, error)

	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)
	ResendVerificationEmail(ctx context.Context, email string) (string, error)
}

// TokenRenewer exchanges the stored refresh token for a new access token
// and persists the result. *api.Refresher implements it.
type TokenRenewer interface {
	Refresh(ctx context.Context, stale string) (string, error)
}

var _ TokenRenewer = (*api.Refresher)(nil)

type authService struct {
	repo    auth.Repository
	renewer TokenRenewer
	session *sessionStore
	log     logging.Logger
	now     func() time.Time
}

// NewAuthService builds an AuthService. Tokens live in secure, the user
// snapshot and token lifetime in plain. renewer should be the refresher
// shared with the API client so startup renewal joins any in-flight
// refresh.
func NewAuthService(repo auth.Repository, renewer TokenRenewer, secure, plain storage.Store, log logging.Logger) AuthService {
	return &authService{
		repo:    repo,
		renewer: renewer,
		session: &sessionStore{secure: secure, plain: plain},
		log:     log.With("service", "auth"),
		now:     time.Now,
	}
}

func (a *authService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	a.log.Info(ctx, "logging in user")

	resp, err := a.repo.Login(ctx, req)
	if err != nil {
		a.log.Error(ctx, "login failed", "error", err)
		return nil, err
	}
	return a.establish(ctx, resp)
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	a.log.Info(ctx, "registering user")

	resp, err := a.repo.Register(ctx, req)
	if err != nil {
		a.log.Error(ctx, "registration failed", "error", err)
		return nil, err
	}
	return a.establish(ctx, resp)
}

func (a *authService) establish(ctx context.Context, resp models.LoginResponse) (*models.User, error) {
	if err := a.session.saveLogin(ctx, resp); err != nil {
		a.log.Error(ctx, "persist session failed", "error", err)
		return nil, err
	}

	a.log.Info(ctx, "session established", "user_id", resp.User.ID)
	user := resp.User
	return &user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.log.Info(ctx, "logging out user")

	remoteErr := a.repo.Logout(ctx)
	if remoteErr != nil {
		a.log.Warn(ctx, "remote logout failed", "error", remoteErr)
	}

	if err := a.session.clear(ctx); err != nil {
		a.log.Error(ctx, "clear session failed", "error", err)
		return errors.Join(remoteErr, err)
	}
	return remoteErr
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	token, err := a.session.accessToken(ctx)
	if err != nil {
		a.log.Error(ctx, "check authentication status", "error", err)
		return false
	}
	return token != ""
}

func (a *authService) CurrentUser(ctx context.Context) *models.User {
	u, err := a.session.loadUser(ctx)
	if err != nil {
		a.log.Error(ctx, "read current user", "error", err)
		return nil
	}
	return u
}

func (a *authService) Session(ctx context.Context) (*models.Session, error) {
	access, ok, err := a.session.secure.Get(ctx, common.KeyAccessToken)
	if err != nil {
		return nil, fmt.Errorf("read access token: %w", err)
	}
	if !ok || access == "" {
		return nil, common.ErrorNotFound
	}

	refresh, _, err := a.session.secure.Get(ctx, common.KeyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("read refresh token: %w", err)
	}

	s := &models.Session{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}
	if v, ok, _ := a.session.plain.Get(ctx, common.KeyTokenExpiresIn); ok {
		s.ExpiresIn, _ = strconv.Atoi(v)
	}
	if exp, ok := api.TokenExpiry(access); ok {
		s.ExpiresAt = exp
	}
	return s, nil
}

// RestoreSession is called at startup. It returns the cached user when a
// session exists, renewing an access token whose exp claim has passed.
// A failed renewal clears the session and reports common.ErrSessionInvalid.
func (a *authService) RestoreSession(ctx context.Context) (*models.User, error) {
	s, err := a.Session(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		a.log.Error(ctx, "restore session", "error", err)
		return nil, nil
	}

	if s.Expired(a.now()) {
		a.log.Info(ctx, "access token expired, renewing")
		if err := a.renew(ctx, s.AccessToken); err != nil {
			a.log.Warn(ctx, "renew session failed", "error", err)
			if cerr := a.session.clear(ctx); cerr != nil {
				a.log.Error(ctx, "clear session failed", "error", cerr)
			}
			return nil, fmt.Errorf("%w: %w", common.ErrSessionInvalid, err)
		}
	}

	return a.CurrentUser(ctx), nil
}

// renew swaps the stale access token through the shared renewer, which
// stores the new tokens, and then updates the recorded lifetime.
func (a *authService) renew(ctx context.Context, stale string) error {
	if a.renewer == nil {
		return errors.New("token renewal unavailable")
	}
	access, err := a.renewer.Refresh(ctx, stale)
	if err != nil {
		return err
	}

	exp, ok := api.TokenExpiry(access)
	if !ok {
		return nil
	}
	secs := int(exp.Sub(a.now()).Seconds())
	if err := a.session.plain.Set(ctx, common.KeyTokenExpiresIn, strconv.Itoa(secs)); err != nil {
		a.log.Warn(ctx, "save token lifetime", "error", err)
	}
	return nil
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	a.log.Info(ctx, "requesting password reset")
	msg, err := a.repo.ForgotPassword(ctx, email)
	if err != nil {
		a.log.Error(ctx, "password reset request failed", "error", err)
		return "", err
	}
	return msg, nil
}

func (a *authService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	a.log.Info(ctx, "resetting password")
	msg, err := a.repo.ResetPassword(ctx, token, newPassword)
	if err != nil {
		a.log.Error(ctx, "reset password failed", "error", err)
		return "", err
	}
	return msg, nil
}

func (a *authService) VerifyEmail(ctx context.Context, token string) (string, error) {
	a.log.Info(ctx, "verifying email")
	msg, err := a.repo.VerifyEmail(ctx, token)
	if err != nil {
		a.log.Error(ctx, "verify email failed", "error", err)
		return "", err
	}
	return msg, nil
}

func (a *authService) ResendVerificationEmail(ctx context.Context, email string) (string, error) {
	return a.repo.ResendVerificationEmail(ctx, email)
}
