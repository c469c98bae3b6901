package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophmobile/internal/client/notifications"
)

// Notifications lists held notifications, newest first.
func (a *App) Notifications(context.Context) error {
	items := a.notes.List()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No notifications")
		return nil
	}
	for _, n := range items {
		mark := " "
		if !n.Read {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %s [%s] %s  %s\n", mark, n.ID, n.Type, n.Title, n.CreatedAt.Local().Format(time.DateTime))
		if n.Body != "" {
			fmt.Fprintf(a.out, "    %s\n", n.Body)
		}
	}
	fmt.Fprintf(a.out, "%d unread\n", a.notes.Badge())
	return nil
}

// Notify adds a local notification titled title.
func (a *App) Notify(ctx context.Context, title string) error {
	n := a.notes.Create(ctx, notifications.CreateParams{Title: title})
	fmt.Fprintln(a.out, "Created", n.ID)
	return nil
}

func (a *App) Read(_ context.Context, id string) error {
	a.notes.MarkRead(id)
	return nil
}

func (a *App) ReadAll(context.Context) error {
	a.notes.MarkAllRead()
	return nil
}

func (a *App) Clear(context.Context) error {
	a.notes.ClearAll()
	return nil
}

func (a *App) Enable(ctx context.Context) error {
	res := a.notes.Toggle(ctx, true)
	if res.Enabled {
		fmt.Fprintln(a.out, "Notifications enabled")
		return nil
	}
	fmt.Fprintf(a.out, "Notifications stay off (permission %s)\n", res.PermissionStatus)
	return nil
}

func (a *App) Disable(ctx context.Context) error {
	a.notes.Toggle(ctx, false)
	fmt.Fprintln(a.out, "Notifications disabled")
	return nil
}
