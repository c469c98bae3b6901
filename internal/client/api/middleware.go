package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/common"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
	"github.com/google/uuid"
)

// Handler performs one request.
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Middleware wraps a Handler.
type Middleware func(next Handler) Handler

// Chain applies mws around h. The first middleware is the outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// RequestID tags requests with a fresh X-Request-ID unless one is set.
func RequestID() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if req.Header.Get(common.RequestIDHeaderName) == "" {
				req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
			}
			return next(ctx, req)
		}
	}
}

// Logging traces every request at debug level. Bodies and headers are not
// logged.
func Logging(log logging.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			args := []any{
				"method", req.Method,
				"path", req.Path,
				"request_id", req.Header.Get(common.RequestIDHeaderName),
				"retried", req.Retried,
				"duration", time.Since(start),
			}
			if err != nil {
				log.Debug(ctx, "api request failed", append(args, "error", err)...)
				return resp, err
			}
			log.Debug(ctx, "api response", append(args, "status", resp.StatusCode)...)
			return resp, nil
		}
	}
}

// NetworkStatus calls report with false when a request fails without any
// response, and with true once a response arrives. Failures caused by the
// caller giving up are not reported.
func NetworkStatus(report func(connected bool)) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next(ctx, req)
			switch {
			case err == nil:
				report(true)
			case errors.Is(err, ErrTransport) && ctx.Err() == nil:
				report(false)
			}
			return resp, err
		}
	}
}

// BearerAuth attaches the access token from store. A missing token is not
// an error; the request goes out unauthenticated.
func BearerAuth(store storage.Store, log logging.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if req.SkipAuth {
				req.Header.Del(common.AuthorizationHeaderName)
				return next(ctx, req)
			}

			token := req.override
			if token == "" {
				t, ok, err := store.Get(ctx, common.KeyAccessToken)
				if err != nil {
					log.Warn(ctx, "read access token", "error", err)
				} else if ok {
					token = t
				}
			}

			req.token = token
			if token != "" {
				req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
			} else {
				req.Header.Del(common.AuthorizationHeaderName)
			}
			return next(ctx, req)
		}
	}
}

// Refresh re-issues a request once after a 401, using a token obtained from
// r. A second 401, or a 401 on a request that opted out, is returned as-is.
func Refresh(r *Refresher) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next(ctx, req)
			if err != nil || resp.StatusCode != http.StatusUnauthorized {
				return resp, err
			}
			if req.SkipRefresh || req.Retried {
				return resp, nil
			}

			req.Retried = true

			token, err := r.Refresh(ctx, req.token)
			if err != nil {
				return nil, err
			}

			req.override = token
			return next(ctx, req)
		}
	}
}
