package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/common"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
	"golang.org/x/sync/singleflight"
)

// RefreshPath is the token refresh endpoint.
const RefreshPath = "/auth/refresh"

var errNoRefreshToken = errors.New("no refresh token")

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshTokens struct {
	AccessToken       string `json:"access_token"`
	AccessTokenCamel  string `json:"accessToken"`
	RefreshToken      string `json:"refresh_token"`
	RefreshTokenCamel string `json:"refreshToken"`
}

func (t refreshTokens) access() string {
	if t.AccessToken != "" {
		return t.AccessToken
	}
	return t.AccessTokenCamel
}

func (t refreshTokens) refresh() string {
	if t.RefreshToken != "" {
		return t.RefreshToken
	}
	return t.RefreshTokenCamel
}

// Refresher exchanges the stored refresh token for a new access token. At
// most one exchange runs at a time; concurrent callers share its result.
type Refresher struct {
	send  Handler
	store storage.Store
	log   logging.Logger
	group singleflight.Group

	mu         sync.Mutex
	failedFor  string
	lastFailed error
}

// NewRefresher builds a Refresher that posts through send, which must not
// include the Refresh middleware.
func NewRefresher(send Handler, store storage.Store, log logging.Logger) *Refresher {
	return &Refresher{send: send, store: store, log: log}
}

// Refresh returns a usable access token. stale is the token the failed
// request carried; if the stored token already differs, another caller has
// refreshed and no exchange is made.
func (r *Refresher) Refresh(ctx context.Context, stale string) (string, error) {
	if current, ok := r.currentToken(ctx, stale); ok {
		return current, nil
	}
	if err := r.failure(stale); err != nil {
		return "", err
	}

	// The exchange outlives whichever caller started it; each caller stops
	// waiting when its own ctx is done.
	ch := r.group.DoChan("refresh", func() (any, error) {
		xctx := context.WithoutCancel(ctx)
		if current, ok := r.currentToken(xctx, stale); ok {
			return current, nil
		}
		if err := r.failure(stale); err != nil {
			return "", err
		}
		return r.exchange(xctx, stale)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Shared {
			r.log.Debug(ctx, "joined in-flight token refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (r *Refresher) currentToken(ctx context.Context, stale string) (string, bool) {
	t, ok, err := r.store.Get(ctx, common.KeyAccessToken)
	if err != nil || !ok || t == "" || t == stale {
		return "", false
	}
	return t, true
}

// failure returns the error of the last failed exchange if it was made for
// the same stale token, so late callers see the same outcome.
func (r *Refresher) failure(stale string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastFailed != nil && r.failedFor == stale {
		return r.lastFailed
	}
	return nil
}

func (r *Refresher) exchange(ctx context.Context, stale string) (string, error) {
	token, err := r.post(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	if errors.Is(err, context.Canceled) {
		return "", err
	}
	if err != nil {
		r.log.Error(ctx, "token refresh failed", "error", err)
		r.clearTokens(ctx)
		r.failedFor, r.lastFailed = stale, sessionInvalid(err)
		return "", r.lastFailed
	}
	r.failedFor, r.lastFailed = "", nil
	return token, nil
}

func (r *Refresher) post(ctx context.Context) (string, error) {
	refreshToken, ok, err := r.store.Get(ctx, common.KeyRefreshToken)
	if err != nil {
		return "", err
	}
	if !ok || refreshToken == "" {
		return "", errNoRefreshToken
	}

	body, err := json.Marshal(refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", err
	}

	req := newRequest(http.MethodPost, RefreshPath)
	req.Body = body
	req.SkipAuth = true
	req.SkipRefresh = true

	resp, err := r.send(ctx, req)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", responseError(resp)
	}

	var env struct {
		Data refreshTokens `json:"data"`
		refreshTokens
	}
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return "", err
	}

	tokens := env.Data
	if tokens.access() == "" {
		tokens = env.refreshTokens
	}
	access := tokens.access()
	if access == "" {
		return "", errors.New("refresh response has no access token")
	}

	if err := r.store.Set(ctx, common.KeyAccessToken, access); err != nil {
		return "", err
	}
	if rotated := tokens.refresh(); rotated != "" {
		if err := r.store.Set(ctx, common.KeyRefreshToken, rotated); err != nil {
			return "", err
		}
	}

	r.log.Info(ctx, "access token refreshed")
	return access, nil
}

func (r *Refresher) clearTokens(ctx context.Context) {
	for _, k := range []string{common.KeyAccessToken, common.KeyRefreshToken} {
		if err := r.store.Remove(ctx, k); err != nil {
			r.log.Warn(ctx, "clear token", "key", k, "error", err)
		}
	}
}
