// Package api is the authenticated REST client.
//
// Requests flow through an explicit middleware pipeline built by Chain:
//
//	RequestID -> Logging -> Refresh -> BearerAuth -> Transport
//
// BearerAuth attaches the stored access token. Refresh handles a 401 by
// obtaining a new access token through a single-flight Refresher and
// re-issuing the request once; a request is never retried twice. When the
// refresh itself fails both tokens are cleared and the error matches
// common.ErrSessionInvalid.
//
// Every non-2xx response and every transport failure is normalized into
// *Error.
package api
