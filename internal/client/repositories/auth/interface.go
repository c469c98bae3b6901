package auth

import (
	"context"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
)

// Repository describes the authentication endpoints.
type Repository interface {
	// Login exchanges credentials for a user and token pair.
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)

	// Register creates an account and signs it in.
	Register(ctx context.Context, req models.RegisterRequest) (models.LoginResponse, error)

	// Logout invalidates the session on the server.
	Logout(ctx context.Context) error

	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	VerifyEmail(ctx context.Context, token string) (string, error)

	// ResendVerificationEmail has no server route and always fails with
	// common.ErrUnsupportedEndpoint.
	ResendVerificationEmail(ctx context.Context, email string) (string, error)
}

// DeviceIDFunc yields the device identifier sent with login and register.
// An empty id or an error leaves the field out.
type DeviceIDFunc func(ctx context.Context) (string, error)
