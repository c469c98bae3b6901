package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"

	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
	"github.com/dmitrijs2005/gophmobile/internal/netx"
)

// Meta is pagination info attached to list responses.
type Meta struct {
	Page       int `json:"page,omitempty"`
	Limit      int `json:"limit,omitempty"`
	Total      int `json:"total,omitempty"`
	TotalPages int `json:"totalPages,omitempty"`
}

// Envelope is the success wrapper every endpoint responds with.
type Envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Meta    *Meta           `json:"meta,omitempty"`
}

// ResultMessage returns dataMessage, the message found inside data, when set
// and the envelope message otherwise.
func (e *Envelope) ResultMessage(dataMessage string) string {
	if dataMessage != "" {
		return dataMessage
	}
	return e.Message
}

// Client is the authenticated API client. Build one per process and share
// it; it is safe for concurrent use.
type Client struct {
	transport *Transport
	handler   Handler
	refresher *Refresher
	log       logging.Logger
}

// New builds a client whose bearer token and refresh token live in tokens.
func New(transport *Transport, tokens storage.Store, log logging.Logger, outer ...Middleware) *Client {
	base := Chain(transport.Do, RequestID(), Logging(log))
	refresher := NewRefresher(base, tokens, log)

	mws := append(slices.Clone(outer),
		RequestID(),
		Logging(log),
		Refresh(refresher),
		BearerAuth(tokens, log),
	)
	handler := Chain(transport.Do, mws...)

	return &Client{transport: transport, handler: handler, refresher: refresher, log: log}
}

// NewWithHandler builds a client over an arbitrary pipeline.
func NewWithHandler(transport *Transport, handler Handler, log logging.Logger) *Client {
	return &Client{transport: transport, handler: handler, log: log}
}

func (c *Client) Get(ctx context.Context, path string, out any, opts ...Option) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...Option) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...Option) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, body, out, opts...)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...Option) (*Envelope, error) {
	return c.Do(ctx, http.MethodPatch, path, body, out, opts...)
}

// Delete sends a DELETE; use WithBody when the endpoint expects a payload.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...Option) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, out, opts...)
}

// UploadFile posts a multipart form. It goes through the same pipeline as
// any other request.
func (c *Client) UploadFile(ctx context.Context, path string, fields map[string]string, files []netx.FilePart, out any, opts ...Option) (*Envelope, error) {
	buf, contentType, err := netx.MultipartBody(fields, files)
	if err != nil {
		return nil, fmt.Errorf("encode upload: %w", err)
	}

	opts = append(opts, WithHeader("Content-Type", contentType))
	return c.Do(ctx, http.MethodPost, path, buf.Bytes(), out, opts...)
}

// Do sends a request and decodes the envelope's data into out when out is
// non-nil. Any failure is an *Error.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...Option) (*Envelope, error) {
	req := newRequest(method, path)
	for _, o := range opts {
		o(req)
	}

	if body == nil {
		body = req.payload
	}
	if body != nil {
		b, err := encodeBody(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		req.Body = b
	}

	resp, err := c.handler(ctx, req)
	if err != nil {
		apiErr := transportError(err)
		c.log.Error(ctx, "api error", "method", method, "path", path, "code", apiErr.Code, "message", apiErr.Message)
		return nil, apiErr
	}

	if !resp.OK() {
		apiErr := responseError(resp)
		c.log.Error(ctx, "api error", "method", method, "path", path, "status", apiErr.Status, "code", apiErr.Code, "message", apiErr.Message)
		return nil, apiErr
	}

	env := &Envelope{Success: true}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, env); err != nil {
			return nil, &Error{Message: FallbackMessage, Code: CodeUnknown, Status: resp.StatusCode, causes: []error{err}}
		}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, &Error{Message: FallbackMessage, Code: CodeUnknown, Status: resp.StatusCode, causes: []error{err}}
		}
	}
	return env, nil
}

// Refresher is the token refresher behind the client's 401 handling. It
// is nil for clients built with NewWithHandler.
func (c *Client) Refresher() *Refresher {
	return c.refresher
}

func (c *Client) BaseURL() string {
	return c.transport.BaseURL()
}
