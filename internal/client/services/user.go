package services

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/repositories/user"
	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
)

// UserService wraps the profile endpoints and keeps the cached user
// snapshot current.
type UserService interface {
	// Profile fetches the profile and refreshes the cached snapshot.
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error)
	// DeleteAccount removes the account and, on success, the local session.
	DeleteAccount(ctx context.Context, password string) (string, error)
	UploadAvatar(ctx context.Context, fileName string, image io.Reader) (string, error)
}

type userService struct {
	repo    user.Repository
	session *sessionStore
	log     logging.Logger
}

func NewUserService(repo user.Repository, secure, plain storage.Store, log logging.Logger) UserService {
	return &userService{
		repo:    repo,
		session: &sessionStore{secure: secure, plain: plain},
		log:     log.With("service", "user"),
	}
}

func (s *userService) Profile(ctx context.Context) (*models.User, error) {
	u, err := s.repo.GetProfile(ctx)
	if err != nil {
		s.log.Error(ctx, "fetch profile failed", "error", err)
		return nil, err
	}
	s.cache(ctx, u)
	return &u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	u, err := s.repo.UpdateProfile(ctx, req)
	if err != nil {
		s.log.Error(ctx, "update profile failed", "error", err)
		return nil, err
	}
	s.cache(ctx, u)
	return &u, nil
}

func (s *userService) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	msg, err := s.repo.ChangePassword(ctx, currentPassword, newPassword)
	if err != nil {
		s.log.Error(ctx, "change password failed", "error", err)
		return "", err
	}
	return msg, nil
}

func (s *userService) DeleteAccount(ctx context.Context, password string) (string, error) {
	msg, err := s.repo.DeleteAccount(ctx, password)
	if err != nil {
		s.log.Error(ctx, "delete account failed", "error", err)
		return "", err
	}
	if err := s.session.clear(ctx); err != nil {
		s.log.Error(ctx, "clear session failed", "error", err)
		return msg, err
	}
	return msg, nil
}

func (s *userService) UploadAvatar(ctx context.Context, fileName string, image io.Reader) (string, error) {
	url, err := s.repo.UploadAvatar(ctx, fileName, image)
	if err != nil {
		s.log.Error(ctx, "upload avatar failed", "error", err)
		return "", err
	}

	if u, err := s.session.loadUser(ctx); err == nil && u != nil {
		u.Avatar = url
		s.cache(ctx, *u)
	}
	return url, nil
}

// cache stores the snapshot. The snapshot is only a cache, so a failed
// write is logged and not returned.
func (s *userService) cache(ctx context.Context, u models.User) {
	if err := s.session.saveUser(ctx, u); err != nil {
		s.log.Warn(ctx, "cache user failed", "error", err)
	}
}
