// Package user is the remote repository for the /user endpoints.
package user

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
)

// Repository describes the profile endpoints. All calls require an
// authenticated session.
type Repository interface {
	GetProfile(ctx context.Context) (models.User, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (models.User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error)
	DeleteAccount(ctx context.Context, password string) (string, error)
	// UploadAvatar sends the image as multipart field "avatar" and returns
	// the stored image URL.
	UploadAvatar(ctx context.Context, fileName string, image io.Reader) (string, error)
}
