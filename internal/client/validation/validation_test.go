package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
	return ve.Fields
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login(models.LoginRequest{Email: "test@example.com", Password: "password123"}))

	f := fields(t, Login(models.LoginRequest{Email: "nope", Password: ""}))
	assert.Equal(t, "Invalid email address", f["email"])
	assert.Equal(t, "Password is required", f["password"])

	f = fields(t, Login(models.LoginRequest{Email: "Name <a@b.co>", Password: "x"}))
	assert.Contains(t, f, "email")
}

func TestRegister(t *testing.T) {
	ok := models.RegisterRequest{
		Email:     "test@example.com",
		Password:  "Str0ng!pass",
		FirstName: "Jo",
		LastName:  "Doe",
		Phone:     "+37120000000",
	}
	assert.NoError(t, Register(ok, "Str0ng!pass", true))

	tests := []struct {
		name    string
		mutate  func(r *models.RegisterRequest)
		confirm string
		terms   bool
		field   string
		msg     string
	}{
		{"short first name", func(r *models.RegisterRequest) { r.FirstName = "J" }, "Str0ng!pass", true, "firstName", "First name must be at least 2 characters"},
		{"long last name", func(r *models.RegisterRequest) { r.LastName = strings.Repeat("x", 51) }, "Str0ng!pass", true, "lastName", "Last name must be less than 50 characters"},
		{"short password", func(r *models.RegisterRequest) { r.Password = "S0!a" }, "S0!a", true, "password", "Password must be at least 8 characters"},
		{"no upper", func(r *models.RegisterRequest) { r.Password = "str0ng!pass" }, "str0ng!pass", true, "password", "Password must contain at least one uppercase letter"},
		{"no lower", func(r *models.RegisterRequest) { r.Password = "STR0NG!PASS" }, "STR0NG!PASS", true, "password", "Password must contain at least one lowercase letter"},
		{"no digit", func(r *models.RegisterRequest) { r.Password = "Strong!pass" }, "Strong!pass", true, "password", "Password must contain at least one number"},
		{"no special", func(r *models.RegisterRequest) { r.Password = "Str0ngpass" }, "Str0ngpass", true, "password", "Password must contain at least one special character"},
		{"mismatch", func(r *models.RegisterRequest) {}, "other", true, "confirmPassword", "Passwords do not match"},
		{"no confirm", func(r *models.RegisterRequest) {}, "", true, "confirmPassword", "Please confirm your password"},
		{"bad phone", func(r *models.RegisterRequest) { r.Phone = "0123" }, "Str0ng!pass", true, "phone", "Please enter a valid phone number"},
		{"terms", func(r *models.RegisterRequest) {}, "Str0ng!pass", false, "acceptTerms", "You must accept the terms and conditions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ok
			tt.mutate(&r)
			f := fields(t, Register(r, tt.confirm, tt.terms))
			assert.Equal(t, tt.msg, f[tt.field])
			assert.Len(t, f, 1)
		})
	}
}

func TestPasswordFlows(t *testing.T) {
	assert.NoError(t, ForgotPassword("a@b.co"))
	assert.Error(t, ForgotPassword(""))

	assert.NoError(t, ResetPassword("Str0ng!pass", "Str0ng!pass"))
	f := fields(t, ResetPassword("Str0ng!pass", ""))
	assert.Equal(t, "Please confirm your new password", f["confirmPassword"])

	assert.NoError(t, ChangePassword("old", "Str0ng!pass", "Str0ng!pass"))
	f = fields(t, ChangePassword("Str0ng!pass", "Str0ng!pass", "Str0ng!pass"))
	assert.Equal(t, "New password must be different from current password", f["newPassword"])
	f = fields(t, ChangePassword("", "weak", "weak"))
	assert.Contains(t, f, "currentPassword")
	assert.Contains(t, f, "newPassword")
}

func TestUpdateProfile(t *testing.T) {
	name := "Al"
	assert.NoError(t, UpdateProfile(models.UpdateProfileRequest{FirstName: &name}))
	assert.NoError(t, UpdateProfile(models.UpdateProfileRequest{}))

	short := "A"
	g := models.Gender("robot")
	f := fields(t, UpdateProfile(models.UpdateProfileRequest{LastName: &short, Gender: &g}))
	assert.Contains(t, f, "lastName")
	assert.Contains(t, f, "gender")
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "validation failed: a: one; b: two", err.Error())
}
