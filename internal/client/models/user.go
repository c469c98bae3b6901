// Package models defines the client-side domain types shared by the
// repositories, services and state store.
package models

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Address struct {
	Street     string `json:"street,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	Country    string `json:"country,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
}

type Preferences struct {
	Language      string `json:"language"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

// User is the cached profile snapshot. It may be stale until the next
// profile fetch.
type User struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	FirstName     string       `json:"firstName"`
	LastName      string       `json:"lastName"`
	FullName      string       `json:"fullName"`
	Avatar        string       `json:"avatar,omitempty"`
	Phone         string       `json:"phone,omitempty"`
	DateOfBirth   string       `json:"dateOfBirth,omitempty"`
	Gender        Gender       `json:"gender,omitempty"`
	Address       *Address     `json:"address,omitempty"`
	Preferences   *Preferences `json:"preferences,omitempty"`
	DeviceID      string       `json:"deviceId,omitempty"`
	EmailVerified bool         `json:"emailVerified"`
	PhoneVerified bool         `json:"phoneVerified"`
	CreatedAt     string       `json:"createdAt,omitempty"`
	UpdatedAt     string       `json:"updatedAt,omitempty"`
}

// Tokens is the credential pair issued on login or registration.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"`
	TokenType    string `json:"tokenType"`
}

type LoginResponse struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// Session is the stored credential state.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	TokenType    string
	// ExpiresAt comes from the access token's exp claim; zero when the
	// token is opaque.
	ExpiresAt time.Time
}

// Expired reports whether the access token's exp claim is in the past.
// Tokens without a known expiry never report expired.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe,omitempty"`
	DeviceID   string `json:"deviceId,omitempty"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	DeviceID  string `json:"deviceId,omitempty"`
}

// UpdateProfileRequest carries only the fields to change; nil leaves a
// field untouched.
type UpdateProfileRequest struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	DateOfBirth *string
	Gender      *Gender
	DeviceID    *string
	Address     *Address
}

type MessageResponse struct {
	Message string `json:"message"`
}
