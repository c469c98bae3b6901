package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophmobile/internal/client/config"
)

const contentTypeJSON = "application/json"

const defaultTimeout = 30 * time.Second

// Transport executes requests against a fixed base URL. It reports an error
// only when no response arrives; HTTP error statuses are returned as
// responses.
type Transport struct {
	baseURL string
	client  *http.Client
	headers http.Header
}

func NewTransport(baseURL string, timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	h := http.Header{}
	h.Set("Accept", contentTypeJSON)

	return &Transport{
		baseURL: config.NormalizeBaseURL(baseURL),
		client:  &http.Client{Timeout: timeout},
		headers: h,
	}
}

func (t *Transport) BaseURL() string {
	return t.baseURL
}

// URL resolves path against the base URL.
func (t *Transport) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return t.baseURL + path
}

// Do is the innermost Handler.
func (t *Transport) Do(ctx context.Context, req *Request) (*Response, error) {
	u := t.URL(req.Path)
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	for k, vs := range t.headers {
		httpReq.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range req.Header {
		httpReq.Header[k] = append([]string(nil), vs...)
	}
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

func encodeBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.([]byte); ok {
		return raw, nil
	}
	return json.Marshal(v)
}
