package user

import (
	"context"
	"encoding/json"
	"io"

	"github.com/dmitrijs2005/gophmobile/internal/client/adapters"
	"github.com/dmitrijs2005/gophmobile/internal/client/api"
	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/netx"
)

const (
	PathProfile        = "/user/profile"
	PathChangePassword = "/user/change-password"
	PathDeleteAccount  = "/user/delete-account"
	PathAvatar         = "/user/profile/avatar"
)

type HTTPRepository struct {
	client *api.Client
}

func NewHTTPRepository(client *api.Client) *HTTPRepository {
	return &HTTPRepository{client: client}
}

func (r *HTTPRepository) GetProfile(ctx context.Context) (models.User, error) {
	var data json.RawMessage
	if _, err := r.client.Get(ctx, PathProfile, &data); err != nil {
		return models.User{}, err
	}
	return decodeUser(data)
}

func (r *HTTPRepository) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (models.User, error) {
	var data json.RawMessage
	if _, err := r.client.Put(ctx, PathProfile, adapters.ToAPIUpdate(req), &data); err != nil {
		return models.User{}, err
	}
	return decodeUser(data)
}

func (r *HTTPRepository) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	body := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}

	var data models.MessageResponse
	env, err := r.client.Post(ctx, PathChangePassword, body, &data)
	if err != nil {
		return "", err
	}
	return env.ResultMessage(data.Message), nil
}

func (r *HTTPRepository) DeleteAccount(ctx context.Context, password string) (string, error) {
	var data models.MessageResponse
	env, err := r.client.Delete(ctx, PathDeleteAccount, &data, api.WithBody(map[string]string{"password": password}))
	if err != nil {
		return "", err
	}
	return env.ResultMessage(data.Message), nil
}

func (r *HTTPRepository) UploadAvatar(ctx context.Context, fileName string, image io.Reader) (string, error) {
	var data json.RawMessage
	files := []netx.FilePart{{Field: "avatar", FileName: fileName, Content: image}}
	if _, err := r.client.UploadFile(ctx, PathAvatar, nil, files, &data); err != nil {
		return "", err
	}

	raw, err := adapters.Decode(data)
	if err != nil {
		return "", err
	}
	return ToAvatarURL(raw), nil
}

// ToAvatarURL reads the uploaded image URL under any of the names the
// server uses for it.
func ToAvatarURL(raw adapters.Raw) string {
	if v, ok := raw["avatar_url"].(string); ok && v != "" {
		return v
	}
	if v, ok := raw["avatarUrl"].(string); ok && v != "" {
		return v
	}
	if v, ok := raw["avatar"].(string); ok {
		return v
	}
	return ""
}

func decodeUser(data []byte) (models.User, error) {
	raw, err := adapters.Decode(data)
	if err != nil {
		return models.User{}, err
	}
	return adapters.ToUser(raw), nil
}
