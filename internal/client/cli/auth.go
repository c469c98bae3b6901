package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
	"github.com/dmitrijs2005/gophmobile/internal/client/validation"
	"github.com/dmitrijs2005/gophmobile/internal/common"
)

// readSecret prompts for a password and returns it as a string, wiping
// the terminal buffer.
func (a *App) readSecret(prompt string) (string, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// printInvalid prints local validation failures and reports whether err
// was one.
func (a *App) printInvalid(err error) bool {
	var ve *validation.ValidationError
	if !errors.As(err, &ve) {
		return false
	}
	fields := make([]string, 0, len(ve.Fields))
	for f := range ve.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(a.out, "  %s: %s\n", f, ve.Fields[f])
	}
	return true
}

// Register prompts for account details, validates them locally and
// creates the account.
func (a *App) Register(ctx context.Context) error {
	var req models.RegisterRequest
	var err error

	if req.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if req.FirstName, err = getSimpleText(a.reader, "Enter first name", a.out); err != nil {
		return err
	}
	if req.LastName, err = getSimpleText(a.reader, "Enter last name", a.out); err != nil {
		return err
	}
	if req.Phone, err = getSimpleText(a.reader, "Enter phone (optional)", a.out); err != nil {
		return err
	}
	if req.Password, err = a.readSecret("Enter password"); err != nil {
		return err
	}
	confirm, err := a.readSecret("Confirm password")
	if err != nil {
		return err
	}
	terms, err := getConfirm(a.reader, "Accept the terms and conditions?", a.out)
	if err != nil {
		return err
	}

	if err := validation.Register(req, confirm, terms); err != nil {
		a.printInvalid(err)
		return nil
	}

	a.report(a.auth.Register(ctx, req), "Success!")
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Enter password")
	if err != nil {
		return err
	}

	req := models.LoginRequest{Email: email, Password: password}
	if err := validation.Login(req); err != nil {
		a.printInvalid(err)
		return nil
	}

	r := a.auth.Login(ctx, req)
	if r.Success {
		a.log.Info(ctx, "login successful")
	}
	a.report(r, "Login successful")
	return nil
}

func (a *App) Guest(ctx context.Context) error {
	a.report(a.auth.ContinueAsGuest(ctx), "Continuing as guest")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	r := a.auth.Logout(ctx)
	if !r.Success {
		fmt.Fprintln(a.out, "Signed out locally; server logout failed:", r.Error)
		return nil
	}
	a.report(r, "Signed out")
	return nil
}

func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	if err := validation.ForgotPassword(email); err != nil {
		a.printInvalid(err)
		return nil
	}
	a.report(a.auth.ForgotPassword(ctx, email), "Check your inbox")
	return nil
}

func (a *App) Reset(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}
	password, err := a.readSecret("Enter new password")
	if err != nil {
		return err
	}
	confirm, err := a.readSecret("Confirm new password")
	if err != nil {
		return err
	}
	if err := validation.ResetPassword(password, confirm); err != nil {
		a.printInvalid(err)
		return nil
	}
	a.report(a.auth.ResetPassword(ctx, token, password), "Password reset")
	return nil
}
