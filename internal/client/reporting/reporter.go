// Package reporting forwards unexpected errors to a crash reporting
// backend. A Reporter is built once by the composition root; whether
// reporting is on is a property of the value returned by New, not of any
// package-level flag.
package reporting

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/state"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
)

// Context is attached to a captured error.
type Context struct {
	Tags  map[string]string
	Extra map[string]any
}

// Reporter captures errors and tags them with the signed-in user.
type Reporter interface {
	CaptureError(err error, c Context)
	// SetUser identifies later events; nil clears the user.
	SetUser(u *models.User)
	Flush(timeout time.Duration) bool
}

// Options configure New.
type Options struct {
	Enabled          bool
	DSN              string
	Environment      string
	Release          string
	TracesSampleRate float64

	// Transport replaces the HTTP transport; tests capture events with it.
	Transport sentry.Transport
}

// New returns a Sentry-backed Reporter, or Nop when reporting is turned
// off or no DSN is configured.
func New(ctx context.Context, opts Options, log logging.Logger) (Reporter, error) {
	if !opts.Enabled {
		log.Info(ctx, "crash reporting disabled by configuration")
		return Nop(), nil
	}
	if opts.DSN == "" && opts.Transport == nil {
		log.Warn(ctx, "crash reporting disabled, SENTRY_DSN is missing")
		return Nop(), nil
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Environment:      opts.Environment,
		Release:          opts.Release,
		TracesSampleRate: opts.TracesSampleRate,
		Transport:        opts.Transport,
	})
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "crash reporting initialized", "environment", opts.Environment)
	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// SentryReporter sends events through its own hub.
type SentryReporter struct {
	hub *sentry.Hub
}

func (r *SentryReporter) CaptureError(err error, c Context) {
	if err == nil {
		return
	}
	r.hub.WithScope(func(scope *sentry.Scope) {
		if len(c.Tags) > 0 {
			scope.SetTags(c.Tags)
		}
		if len(c.Extra) > 0 {
			scope.SetContext("details", sentry.Context(c.Extra))
		}
		r.hub.CaptureException(err)
	})
}

func (r *SentryReporter) SetUser(u *models.User) {
	r.hub.ConfigureScope(func(scope *sentry.Scope) {
		if u == nil {
			scope.SetUser(sentry.User{})
			return
		}
		scope.SetUser(sentry.User{ID: u.ID, Email: u.Email})
	})
}

func (r *SentryReporter) Flush(timeout time.Duration) bool {
	return r.hub.Flush(timeout)
}

type nopReporter struct{}

// Nop returns a Reporter that drops everything.
func Nop() Reporter { return nopReporter{} }

func (nopReporter) CaptureError(error, Context) {}
func (nopReporter) SetUser(*models.User)        {}
func (nopReporter) Flush(time.Duration) bool    { return true }

// TrackUser keeps the reporter's user in step with the signed-in user in
// store. The returned function stops tracking.
func TrackUser(store *state.Store, r Reporter) (stop func()) {
	last := ""
	apply := func(s state.State) {
		id := ""
		if s.Auth.IsAuthenticated() && s.Auth.User != nil {
			id = s.Auth.User.ID
		}
		if id == last {
			return
		}
		last = id
		if id == "" {
			r.SetUser(nil)
			return
		}
		r.SetUser(s.Auth.User)
	}

	apply(store.GetState())
	return store.Subscribe(apply)
}
