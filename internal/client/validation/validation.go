// Package validation checks user input before it is sent to the API.
// Failures come back as *ValidationError keyed by field name.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
)

// ValidationError maps a field name to the first problem found with it.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var (
	phoneRe   = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`[0-9]`)
	specialRe = regexp.MustCompile(`[^A-Za-z0-9]`)
)

type checker map[string]string

// add records msg for field unless an earlier rule already failed it.
func (c checker) add(field, msg string) {
	if _, ok := c[field]; !ok {
		c[field] = msg
	}
}

func (c checker) err() error {
	if len(c) == 0 {
		return nil
	}
	return &ValidationError{Fields: map[string]string(c)}
}

func (c checker) email(field, v string) {
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@"):], ".") {
		c.add(field, "Invalid email address")
	}
}

func (c checker) password(field, v string) {
	switch {
	case len(v) < 8:
		c.add(field, "Password must be at least 8 characters")
	case !upperRe.MatchString(v):
		c.add(field, "Password must contain at least one uppercase letter")
	case !lowerRe.MatchString(v):
		c.add(field, "Password must contain at least one lowercase letter")
	case !digitRe.MatchString(v):
		c.add(field, "Password must contain at least one number")
	case !specialRe.MatchString(v):
		c.add(field, "Password must contain at least one special character")
	}
}

func (c checker) name(field, label, v string) {
	n := utf8.RuneCountInString(v)
	switch {
	case n < 2:
		c.add(field, label+" must be at least 2 characters")
	case n > 50:
		c.add(field, label+" must be less than 50 characters")
	}
}

func (c checker) phone(field, v string) {
	if v != "" && !phoneRe.MatchString(v) {
		c.add(field, "Please enter a valid phone number")
	}
}

func Login(req models.LoginRequest) error {
	c := checker{}
	c.email("email", req.Email)
	if req.Password == "" {
		c.add("password", "Password is required")
	}
	return c.err()
}

func Register(req models.RegisterRequest, confirm string, acceptTerms bool) error {
	c := checker{}
	c.name("firstName", "First name", req.FirstName)
	c.name("lastName", "Last name", req.LastName)
	c.email("email", req.Email)
	c.password("password", req.Password)
	if confirm == "" {
		c.add("confirmPassword", "Please confirm your password")
	} else if confirm != req.Password {
		c.add("confirmPassword", "Passwords do not match")
	}
	c.phone("phone", req.Phone)
	if !acceptTerms {
		c.add("acceptTerms", "You must accept the terms and conditions")
	}
	return c.err()
}

func ForgotPassword(email string) error {
	c := checker{}
	c.email("email", email)
	return c.err()
}

func ResetPassword(password, confirm string) error {
	c := checker{}
	c.password("password", password)
	if confirm == "" {
		c.add("confirmPassword", "Please confirm your new password")
	} else if confirm != password {
		c.add("confirmPassword", "Passwords do not match")
	}
	return c.err()
}

func ChangePassword(current, next, confirm string) error {
	c := checker{}
	if current == "" {
		c.add("currentPassword", "Current password is required")
	}
	c.password("newPassword", next)
	if confirm == "" {
		c.add("confirmPassword", "Please confirm your new password")
	} else if confirm != next {
		c.add("confirmPassword", "Passwords do not match")
	}
	if current != "" && current == next {
		c.add("newPassword", "New password must be different from current password")
	}
	return c.err()
}

func UpdateProfile(req models.UpdateProfileRequest) error {
	c := checker{}
	if req.FirstName != nil {
		c.name("firstName", "First name", *req.FirstName)
	}
	if req.LastName != nil {
		c.name("lastName", "Last name", *req.LastName)
	}
	if req.Phone != nil {
		c.phone("phone", *req.Phone)
	}
	if req.Gender != nil {
		switch *req.Gender {
		case models.GenderMale, models.GenderFemale, models.GenderOther:
		default:
			c.add("gender", "Invalid gender")
		}
	}
	return c.err()
}
