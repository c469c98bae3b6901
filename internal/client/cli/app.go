package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophmobile/internal/client/api"
	"github.com/dmitrijs2005/gophmobile/internal/client/config"
	"github.com/dmitrijs2005/gophmobile/internal/client/controller"
	"github.com/dmitrijs2005/gophmobile/internal/client/notifications"
	"github.com/dmitrijs2005/gophmobile/internal/client/reporting"
	"github.com/dmitrijs2005/gophmobile/internal/client/repositories/auth"
	"github.com/dmitrijs2005/gophmobile/internal/client/repositories/user"
	"github.com/dmitrijs2005/gophmobile/internal/client/services"
	"github.com/dmitrijs2005/gophmobile/internal/client/state"
	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
)

// App is the composition root of the interactive client.
type App struct {
	config   *config.Config
	log      logging.Logger
	stores   *storage.Stores
	state    *state.Store
	reporter reporting.Reporter
	auth     *controller.Auth
	profile  *controller.Profile
	settings *controller.Settings
	notes    *notifications.Manager
	reader   *bufio.Reader
	out      io.Writer
}

// NewApp opens local storage and wires the API client, services and
// controllers. Close releases the storage.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	stores, err := storage.Open(ctx, c)
	if err != nil {
		log.Error(ctx, "error initializing storage", "error", err)
		return nil, err
	}

	if c.WeakSecret() {
		log.Warn(ctx, "secure store uses the host-derived default secret; set SECURE_STORE_SECRET")
	}

	reporter, err := reporting.New(ctx, reporting.Options{
		Enabled:          c.CrashReporting,
		DSN:              c.SentryDSN,
		Environment:      c.SentryEnvironment,
		Release:          c.Version,
		TracesSampleRate: c.SentryTracesSampleRate,
	}, log)
	if err != nil {
		log.Warn(ctx, "crash reporting unavailable", "error", err)
		reporter = reporting.Nop()
	}

	st := state.NewStore()

	transport := api.NewTransport(c.APIBaseURL, c.RequestTimeout)
	client := api.New(transport, stores.Secure, log, api.NetworkStatus(func(connected bool) {
		if st.GetState().App.NetworkConnected != connected {
			st.Dispatch(state.NetworkStatusSet{Connected: connected})
		}
	}))

	authRepo := auth.NewHTTPRepository(client, services.DeviceID(stores.Plain))
	userRepo := user.NewHTTPRepository(client)

	as := services.NewAuthService(authRepo, client.Refresher(), stores.Secure, stores.Plain, log)
	us := services.NewUserService(userRepo, stores.Secure, stores.Plain, log)

	reader := bufio.NewReader(os.Stdin)

	backend := &notifications.StoredPermissionBackend{
		Store: stores.Plain,
		Ask: func(context.Context) (bool, error) {
			return getConfirm(reader, "Allow gophmobile to show notifications?", os.Stdout)
		},
	}
	perms := notifications.NewPermissionProvider(c.Platform, strconv.Itoa(c.PlatformVersion), backend)
	push := notifications.NewWebSocketProvider(c.PushURL, stores.Plain, log)

	return &App{
		config:   c,
		log:      log,
		stores:   stores,
		state:    st,
		reporter: reporter,
		auth:     controller.NewAuth(as, st, log, reporter),
		profile:  controller.NewProfile(us, st, log, reporter),
		settings: controller.NewSettings(stores.Plain, st, log),
		notes:    notifications.NewManager(st, perms, push, stores.Plain, log),
		reader:   reader,
		out:      os.Stdout,
	}, nil
}

// Run restores the previous session, starts the push listener when a push
// URL is configured and blocks in the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopSettings := a.settings.Load(ctx)
	defer stopSettings()
	stopTracking := reporting.TrackUser(a.state, a.reporter)
	defer stopTracking()

	if r := a.auth.Restore(ctx); r.Success {
		if u := a.state.GetState().Auth.User; u != nil {
			fmt.Fprintf(a.out, "Welcome back, %s\n", u.Email)
		}
	} else if r.Error != "" {
		fmt.Fprintln(a.out, "Session expired, please log in again")
	}

	a.notes.Load(ctx)

	if a.config.PushURL != "" {
		go func() {
			if err := a.notes.Run(ctx); err != nil {
				a.log.Warn(ctx, "push listener stopped", "error", err)
			}
		}()
	}

	if !a.state.GetState().App.OnboardingComplete {
		a.onboard(ctx)
	}

	fmt.Fprintln(a.out, "Welcome to gophmobile (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	if a.reporter != nil {
		a.reporter.Flush(2 * time.Second)
	}
	if a.stores == nil {
		return
	}
	if err := a.stores.Close(); err != nil {
		a.log.Warn(context.Background(), "close storage", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.state.GetState().Auth.IsAuthenticated()
}

// status renders the prompt prefix, e.g. "(test@example.com 2 unread)".
func (a *App) status() string {
	s := a.state.GetState()

	who := ""
	switch s.Auth.Status {
	case state.Authenticated:
		if s.Auth.User != nil {
			who = s.Auth.User.Email
		}
	case state.Guest:
		who = "guest"
	}

	if !s.App.NetworkConnected {
		if who != "" {
			who += " "
		}
		who += "offline"
	}
	if s.Notifications.Badge > 0 {
		if who != "" {
			who += " "
		}
		who += fmt.Sprintf("%d unread", s.Notifications.Badge)
	}
	if who == "" {
		return ""
	}
	return "(" + who + ")"
}

func (a *App) report(r controller.Result, success string) {
	if !r.Success {
		fmt.Fprintln(a.out, "Failed:", r.Error)
		for field, msgs := range r.Fields {
			for _, m := range msgs {
				fmt.Fprintf(a.out, "  %s: %s\n", field, m)
			}
		}
		return
	}
	switch {
	case r.Message != "":
		fmt.Fprintln(a.out, r.Message)
	case success != "":
		fmt.Fprintln(a.out, success)
	}
}
