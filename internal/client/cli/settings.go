package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophmobile/internal/client/controller"
)

// Settings prints the current app preferences.
func (a *App) Settings(context.Context) error {
	app := a.state.GetState().App
	network := "online"
	if !app.NetworkConnected {
		network = "offline"
	}
	fmt.Fprintf(a.out, "theme:    %s (%s)\n", app.Theme, strings.Join(controller.Themes, ", "))
	fmt.Fprintf(a.out, "language: %s (%s)\n", app.Language, strings.Join(controller.Languages, ", "))
	fmt.Fprintf(a.out, "network:  %s\n", network)
	return nil
}

func (a *App) Theme(ctx context.Context, theme string) error {
	a.report(a.settings.SetTheme(ctx, theme), "")
	return nil
}

func (a *App) Language(ctx context.Context, lang string) error {
	a.report(a.settings.SetLanguage(ctx, lang), "")
	return nil
}

// onboard introduces the client on its first run and records that it did.
func (a *App) onboard(ctx context.Context) {
	fmt.Fprintln(a.out, "First time here? Create an account with 'register', sign in with 'login',")
	fmt.Fprintln(a.out, "or look around with 'guest'. Pick a look with 'theme' and 'language'.")
	if r := a.settings.CompleteOnboarding(ctx); !r.Success {
		a.log.Warn(ctx, "onboarding flag not saved", "error", r.Error)
	}
}
