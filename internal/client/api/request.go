package api

import (
	"net/http"
	"net/url"
)

// Request is one logical call. It outlives a single HTTP attempt so the
// refresh middleware can re-issue it, and Retried records that it did.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte

	// SkipAuth sends the request without a bearer token.
	SkipAuth bool
	// SkipRefresh returns a 401 as-is instead of refreshing.
	SkipRefresh bool
	// Retried is set once the request has been re-issued after a refresh.
	Retried bool

	// token is the access token the last attempt carried, if any.
	token string
	// override replaces the stored token on the next attempt.
	override string
	// payload is encoded into Body before the first attempt.
	payload any
}

func newRequest(method, path string) *Request {
	return &Request{Method: method, Path: path, Header: http.Header{}}
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Option customizes a single call.
type Option func(*Request)

func WithHeader(key, value string) Option {
	return func(r *Request) { r.Header.Set(key, value) }
}

func WithoutAuth() Option {
	return func(r *Request) { r.SkipAuth = true }
}

// WithoutRefresh returns a 401 to the caller instead of refreshing. Use it
// for credential checks such as login, where a 401 means bad input.
func WithoutRefresh() Option {
	return func(r *Request) { r.SkipRefresh = true }
}

func WithQuery(key, value string) Option {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = url.Values{}
		}
		r.Query.Add(key, value)
	}
}

// WithBody attaches a JSON body to a method that takes none by signature,
// such as Delete.
func WithBody(v any) Option {
	return func(r *Request) { r.payload = v }
}
