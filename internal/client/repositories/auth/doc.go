// Package auth is the remote repository for the /auth endpoints.
//
// # Overview
//
// Repository wraps the authentication routes of the REST backend. The HTTP
// implementation (HTTPRepository) sends every call through api.Client, so
// requests carry the usual request id and logging.
//
// Credential checks (login, register, password reset) opt out of the
// refresh-on-401 path: a 401 there means the input was rejected, and the
// server's message is returned unchanged.
//
// Typical Usage
//
//	repo := auth.NewHTTPRepository(client, deviceID)
//	resp, err := repo.Login(ctx, models.LoginRequest{Email: e, Password: p})
package auth
