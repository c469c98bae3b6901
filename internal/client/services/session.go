package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/common"
)

// batchStore is implemented by plain stores that can write several keys in
// one transaction.
type batchStore interface {
	SetMany(ctx context.Context, pairs map[string]string) error
	RemoveMany(ctx context.Context, keys ...string) error
}

// sessionStore owns the storage keys that make up a session. Tokens go to
// the secure store one key at a time; the two writes are not atomic.
type sessionStore struct {
	secure storage.Store
	plain  storage.Store
}

func (s *sessionStore) saveTokens(ctx context.Context, t models.Tokens) error {
	if err := s.secure.Set(ctx, common.KeyAccessToken, t.AccessToken); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if err := s.secure.Set(ctx, common.KeyRefreshToken, t.RefreshToken); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// saveLogin persists the tokens, then the expiry and user snapshot.
func (s *sessionStore) saveLogin(ctx context.Context, resp models.LoginResponse) error {
	if err := s.saveTokens(ctx, resp.Tokens); err != nil {
		return err
	}

	userJSON, err := encodeUser(resp.User)
	if err != nil {
		return err
	}
	pairs := map[string]string{
		common.KeyTokenExpiresIn: strconv.Itoa(resp.Tokens.ExpiresIn),
		common.KeyUser:           userJSON,
	}

	if b, ok := s.plain.(batchStore); ok {
		return b.SetMany(ctx, pairs)
	}
	for k, v := range pairs {
		if err := s.plain.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *sessionStore) saveUser(ctx context.Context, u models.User) error {
	userJSON, err := encodeUser(u)
	if err != nil {
		return err
	}
	return s.plain.Set(ctx, common.KeyUser, userJSON)
}

// loadUser returns the cached snapshot, or nil when none is stored.
func (s *sessionStore) loadUser(ctx context.Context) (*models.User, error) {
	var u models.User
	ok, err := storage.GetObject(ctx, s.plain, common.KeyUser, &u)
	if err != nil || !ok {
		return nil, err
	}
	return &u, nil
}

func (s *sessionStore) accessToken(ctx context.Context) (string, error) {
	t, _, err := s.secure.Get(ctx, common.KeyAccessToken)
	return t, err
}

// clear removes every session key. All removals are attempted; the
// returned error joins whatever failed.
func (s *sessionStore) clear(ctx context.Context) error {
	var errs []error
	for _, k := range []string{common.KeyAccessToken, common.KeyRefreshToken} {
		if err := s.secure.Remove(ctx, k); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", k, err))
		}
	}

	plainKeys := []string{common.KeyTokenExpiresIn, common.KeyUser}
	if b, ok := s.plain.(batchStore); ok {
		if err := b.RemoveMany(ctx, plainKeys...); err != nil {
			errs = append(errs, err)
		}
	} else {
		for _, k := range plainKeys {
			if err := s.plain.Remove(ctx, k); err != nil {
				errs = append(errs, fmt.Errorf("remove %s: %w", k, err))
			}
		}
	}
	return errors.Join(errs...)
}

func encodeUser(u models.User) (string, error) {
	b, err := json.Marshal(u)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	return string(b), nil
}
