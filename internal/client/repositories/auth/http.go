package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/gophmobile/internal/client/adapters"
	"github.com/dmitrijs2005/gophmobile/internal/client/api"
	"github.com/dmitrijs2005/gophmobile/internal/client/models"
)

const (
	PathLogin          = "/auth/login"
	PathRegister       = "/auth/register"
	PathForgotPassword = "/auth/forgot-password"
	PathResetPassword  = "/auth/reset-password"
	PathVerifyEmail    = "/auth/verify-email"
	PathLogout         = "/auth/logout"
)

// HTTPRepository implements Repository over api.Client.
type HTTPRepository struct {
	client   *api.Client
	deviceID DeviceIDFunc
}

// NewHTTPRepository builds the repository. deviceID may be nil.
func NewHTTPRepository(client *api.Client, deviceID DeviceIDFunc) *HTTPRepository {
	return &HTTPRepository{client: client, deviceID: deviceID}
}

func (r *HTTPRepository) device(ctx context.Context) string {
	if r.deviceID == nil {
		return ""
	}
	id, err := r.deviceID(ctx)
	if err != nil {
		return ""
	}
	return id
}

func (r *HTTPRepository) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	if req.DeviceID == "" {
		req.DeviceID = r.device(ctx)
	}
	return r.signIn(ctx, PathLogin, req)
}

func (r *HTTPRepository) Register(ctx context.Context, req models.RegisterRequest) (models.LoginResponse, error) {
	if req.DeviceID == "" {
		req.DeviceID = r.device(ctx)
	}
	return r.signIn(ctx, PathRegister, req)
}

func (r *HTTPRepository) signIn(ctx context.Context, path string, body any) (models.LoginResponse, error) {
	var data json.RawMessage
	if _, err := r.client.Post(ctx, path, body, &data, api.WithoutAuth(), api.WithoutRefresh()); err != nil {
		return models.LoginResponse{}, err
	}

	raw, err := adapters.Decode(data)
	if err != nil {
		return models.LoginResponse{}, err
	}
	return adapters.ToLoginResponse(raw), nil
}

func (r *HTTPRepository) Logout(ctx context.Context) error {
	_, err := r.client.Post(ctx, PathLogout, nil, nil, api.WithoutRefresh())
	return err
}

func (r *HTTPRepository) ForgotPassword(ctx context.Context, email string) (string, error) {
	return r.message(ctx, PathForgotPassword, map[string]string{"email": email})
}

func (r *HTTPRepository) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	return r.message(ctx, PathResetPassword, map[string]string{"token": token, "password": newPassword})
}

func (r *HTTPRepository) VerifyEmail(ctx context.Context, token string) (string, error) {
	return r.message(ctx, PathVerifyEmail, map[string]string{"token": token})
}

func (r *HTTPRepository) ResendVerificationEmail(_ context.Context, _ string) (string, error) {
	return "", api.Unsupported(http.MethodPost, PathVerifyEmail+"/resend")
}

func (r *HTTPRepository) message(ctx context.Context, path string, body any) (string, error) {
	var data models.MessageResponse
	env, err := r.client.Post(ctx, path, body, &data, api.WithoutAuth(), api.WithoutRefresh())
	if err != nil {
		return "", err
	}
	return env.ResultMessage(data.Message), nil
}
