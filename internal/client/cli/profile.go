package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/validation"
)

// WhoAmI prints the session state without touching the network.
func (a *App) WhoAmI(context.Context) error {
	s := a.state.GetState().Auth
	switch {
	case s.IsAuthenticated() && s.User != nil:
		fmt.Fprintf(a.out, "%s (%s)\n", s.User.Email, displayName(*s.User))
	case s.IsGuest():
		fmt.Fprintln(a.out, "guest")
	default:
		fmt.Fprintln(a.out, "not signed in")
	}
	return nil
}

// Profile fetches the profile from the server and prints it.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return nil
	}
	r := a.profile.Refresh(ctx)
	if !r.Success {
		a.report(r, "")
		return nil
	}

	u := a.state.GetState().Auth.User
	if u == nil {
		return nil
	}
	fmt.Fprintf(a.out, "ID:       %s\n", u.ID)
	fmt.Fprintf(a.out, "Email:    %s\n", u.Email)
	fmt.Fprintf(a.out, "Name:     %s\n", displayName(*u))
	if u.Phone != "" {
		fmt.Fprintf(a.out, "Phone:    %s\n", u.Phone)
	}
	fmt.Fprintf(a.out, "Verified: %t\n", u.EmailVerified)
	return nil
}

// Passwd changes the account password.
func (a *App) Passwd(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return nil
	}
	current, err := a.readSecret("Current password")
	if err != nil {
		return err
	}
	next, err := a.readSecret("New password")
	if err != nil {
		return err
	}
	confirm, err := a.readSecret("Confirm new password")
	if err != nil {
		return err
	}
	if err := validation.ChangePassword(current, next, confirm); err != nil {
		a.printInvalid(err)
		return nil
	}
	a.report(a.profile.ChangePassword(ctx, current, next), "Password changed")
	return nil
}

func displayName(u models.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.FirstName != "" || u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Email
}
