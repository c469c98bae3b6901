package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/dmitrijs2005/gophmobile/internal/common"
)

const (
	FallbackMessage = "An unexpected error occurred"

	CodeUnknown        = "UNKNOWN_ERROR"
	CodeNetwork        = "NETWORK_ERROR"
	CodeTimeout        = "TIMEOUT"
	CodeSessionInvalid = "SESSION_INVALID"
	CodeUnsupported    = "UNSUPPORTED_ENDPOINT"
)

// ErrTransport classifies failures where no response was received.
var ErrTransport = errors.New("transport error")

// Error is the normalized shape of every failed call.
type Error struct {
	Message string              `json:"message"`
	Code    string              `json:"code"`
	Status  int                 `json:"status,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`

	causes []error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	return e.causes
}

// IsValidation reports whether the server returned field-level errors.
func (e *Error) IsValidation() bool {
	return len(e.Errors) > 0
}

// Unsupported is the pre-flight error for features without a server route.
func Unsupported(method, path string) *Error {
	return &Error{
		Message: fmt.Sprintf("This API endpoint is not available on the current server. Missing route: %s %s", method, path),
		Code:    CodeUnsupported,
		causes:  []error{common.ErrUnsupportedEndpoint},
	}
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Errors  map[string][]string `json:"errors"`
}

// responseError builds an *Error from a non-2xx response, keeping the
// server message and code when the body carries them.
func responseError(resp *Response) *Error {
	e := &Error{Status: resp.StatusCode}

	var body errorBody
	if len(resp.Body) > 0 && json.Unmarshal(resp.Body, &body) == nil {
		e.Message = body.Message
		if e.Message == "" {
			e.Message = body.Error
		}
		e.Code = body.Code
		e.Errors = body.Errors
	}

	if e.Message == "" {
		e.Message = fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
	}
	if e.Code == "" {
		e.Code = CodeUnknown
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		e.causes = append(e.causes, common.ErrorUnauthorized)
	case http.StatusNotFound:
		e.causes = append(e.causes, common.ErrorNotFound)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		e.causes = append(e.causes, common.ErrorInternal)
	}
	return e
}

// transportError wraps a failure where no response arrived.
func transportError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	e := &Error{Message: err.Error(), Code: CodeNetwork, causes: []error{ErrTransport, err}}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		e.Code = CodeTimeout
	}
	if e.Message == "" {
		e.Message = FallbackMessage
	}
	return e
}

// sessionInvalid marks err as a failed refresh.
func sessionInvalid(err error) *Error {
	var src *Error
	if errors.As(err, &src) {
		e := *src
		e.causes = append([]error{common.ErrSessionInvalid}, src.causes...)
		if e.Status == 0 && !errors.Is(src, ErrTransport) {
			e.Status = http.StatusUnauthorized
		}
		return &e
	}
	return &Error{
		Message: err.Error(),
		Code:    CodeSessionInvalid,
		Status:  http.StatusUnauthorized,
		causes:  []error{common.ErrSessionInvalid, err},
	}
}
