package controller

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophmobile/internal/client/state"
	"github.com/dmitrijs2005/gophmobile/internal/client/storage"
	"github.com/dmitrijs2005/gophmobile/internal/common"
	"github.com/dmitrijs2005/gophmobile/internal/logging"
)

var (
	Themes    = []string{"light", "dark", "system"}
	Languages = []string{"en", "es", "fr", "de"}
)

// Settings persists the app preferences held in the store: theme,
// language and whether onboarding has been shown.
type Settings struct {
	prefs storage.Store
	store *state.Store
	log   logging.Logger

	mu            sync.Mutex
	savedTheme    string
	savedLanguage string
}

func NewSettings(prefs storage.Store, store *state.Store, log logging.Logger) *Settings {
	return &Settings{prefs: prefs, store: store, log: log.With("controller", "settings")}
}

// Load applies the saved preferences to the store and keeps saving theme
// and language whenever they change, including changes seeded from the
// signed-in account. The returned function stops saving.
func (c *Settings) Load(ctx context.Context) (stop func()) {
	if v := c.read(ctx, common.KeyTheme); slices.Contains(Themes, v) {
		c.store.Dispatch(state.ThemeSet{Theme: v})
	}
	if v := c.read(ctx, common.KeyLanguage); slices.Contains(Languages, v) {
		c.store.Dispatch(state.LanguageSet{Language: v})
	}
	if c.read(ctx, common.KeyOnboardingComplete) == "true" {
		c.store.Dispatch(state.OnboardingSet{Complete: true})
	}

	app := c.store.GetState().App
	c.mu.Lock()
	c.savedTheme, c.savedLanguage = app.Theme, app.Language
	c.mu.Unlock()

	return c.store.Subscribe(func(s state.State) {
		c.persist(context.WithoutCancel(ctx), s.App)
	})
}

func (c *Settings) SetTheme(ctx context.Context, theme string) Result {
	if !slices.Contains(Themes, theme) {
		return Result{Error: fmt.Sprintf("Unknown theme %q", theme)}
	}
	c.store.Dispatch(state.ThemeSet{Theme: theme})
	return ok("Theme set to " + theme)
}

func (c *Settings) SetLanguage(ctx context.Context, lang string) Result {
	if !slices.Contains(Languages, lang) {
		return Result{Error: fmt.Sprintf("Unsupported language %q", lang)}
	}
	c.store.Dispatch(state.LanguageSet{Language: lang})
	return ok("Language set to " + lang)
}

// CompleteOnboarding records that the welcome flow was shown.
func (c *Settings) CompleteOnboarding(ctx context.Context) Result {
	if err := c.prefs.Set(ctx, common.KeyOnboardingComplete, "true"); err != nil {
		c.log.Warn(ctx, "failed to save onboarding flag", "error", err)
		return Result{Error: "Failed to save settings"}
	}
	c.store.Dispatch(state.OnboardingSet{Complete: true})
	return ok("")
}

func (c *Settings) read(ctx context.Context, key string) string {
	v, ok, err := c.prefs.Get(ctx, key)
	if err != nil {
		c.log.Warn(ctx, "failed to read setting", "key", key, "error", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

func (c *Settings) persist(ctx context.Context, app state.App) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if app.Theme != c.savedTheme {
		if err := c.prefs.Set(ctx, common.KeyTheme, app.Theme); err != nil {
			c.log.Warn(ctx, "failed to save theme", "error", err)
		} else {
			c.savedTheme = app.Theme
		}
	}
	if app.Language != c.savedLanguage {
		if err := c.prefs.Set(ctx, common.KeyLanguage, app.Language); err != nil {
			c.log.Warn(ctx, "failed to save language", "error", err)
		} else {
			c.savedLanguage = app.Language
		}
	}
}
