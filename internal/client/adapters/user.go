// Package adapters converts loosely shaped server payloads into models.
// The server is inconsistent about casing, so every field is looked up under
// both its snake_case and camelCase name.
package adapters

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/gophmobile/internal/client/models"
)

const (
	DefaultExpiresIn = 3600
	DefaultTokenType = "Bearer"
	DefaultLanguage  = "en"
	DefaultTheme     = "system"
)

// Raw is a decoded JSON object.
type Raw map[string]any

// Decode parses a JSON object. Null or empty input yields an empty Raw.
func Decode(data []byte) (Raw, error) {
	r := Raw{}
	if len(data) == 0 || string(data) == "null" {
		return r, nil
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return r, nil
}

// str returns the first key holding a non-empty value, rendered as a string.
func (r Raw) str(keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func (r Raw) truthy(keys ...string) bool {
	for _, k := range keys {
		if b, ok := r[k].(bool); ok && b {
			return true
		}
	}
	return false
}

func (r Raw) integer(keys ...string) int {
	for _, k := range keys {
		switch v := r[k].(type) {
		case float64:
			if v != 0 {
				return int(v)
			}
		case string:
			if n, err := strconv.Atoi(v); err == nil && n != 0 {
				return n
			}
		}
	}
	return 0
}

func (r Raw) object(keys ...string) Raw {
	for _, k := range keys {
		if m, ok := r[k].(map[string]any); ok {
			return Raw(m)
		}
	}
	return nil
}

// ToUser builds a user snapshot from a server user object.
func ToUser(r Raw) models.User {
	first := r.str("first_name", "firstName")
	last := r.str("last_name", "lastName")

	u := models.User{
		ID:            r.str("id", "_id"),
		Email:         r.str("email"),
		FirstName:     first,
		LastName:      last,
		FullName:      strings.TrimSpace(first + " " + last),
		Avatar:        r.str("avatar", "profile_image"),
		Phone:         r.str("phone", "phone_number"),
		DateOfBirth:   r.str("date_of_birth", "dateOfBirth"),
		Gender:        models.Gender(r.str("gender")),
		DeviceID:      r.str("device_id", "deviceId"),
		EmailVerified: r.truthy("email_verified", "emailVerified"),
		PhoneVerified: r.truthy("phone_verified", "phoneVerified"),
		CreatedAt:     r.str("created_at", "createdAt"),
		UpdatedAt:     r.str("updated_at", "updatedAt"),
	}

	if a := r.object("address"); a != nil {
		u.Address = &models.Address{
			Street:     a.str("street"),
			City:       a.str("city"),
			State:      a.str("state"),
			Country:    a.str("country"),
			PostalCode: a.str("postal_code", "postalCode"),
		}
	}

	prefs := models.Preferences{Language: DefaultLanguage, Theme: DefaultTheme, Notifications: true}
	if p := r.object("preferences"); p != nil {
		if v := p.str("language"); v != "" {
			prefs.Language = v
		}
		if v := p.str("theme"); v != "" {
			prefs.Theme = v
		}
		if v, ok := p["notifications"].(bool); ok {
			prefs.Notifications = v
		}
	}
	u.Preferences = &prefs

	return u
}

// ToUsers maps a list of server user objects.
func ToUsers(list []Raw) []models.User {
	out := make([]models.User, 0, len(list))
	for _, r := range list {
		out = append(out, ToUser(r))
	}
	return out
}

// ToLoginResponse splits a login or registration payload into the user and
// its tokens, applying the default expiry and token type.
func ToLoginResponse(r Raw) models.LoginResponse {
	user := r.object("user")
	if user == nil {
		user = Raw{}
	}

	tokens := r
	if nested := r.object("tokens"); nested != nil {
		tokens = nested
	}

	resp := models.LoginResponse{
		User: ToUser(user),
		Tokens: models.Tokens{
			AccessToken:  tokens.str("access_token", "accessToken"),
			RefreshToken: tokens.str("refresh_token", "refreshToken"),
			ExpiresIn:    tokens.integer("expires_in", "expiresIn"),
			TokenType:    tokens.str("token_type", "tokenType"),
		},
	}
	if resp.Tokens.ExpiresIn == 0 {
		resp.Tokens.ExpiresIn = DefaultExpiresIn
	}
	if resp.Tokens.TokenType == "" {
		resp.Tokens.TokenType = DefaultTokenType
	}
	return resp
}

// ToAPIUpdate renders a profile update in the server's snake_case format.
// Unset fields are omitted.
func ToAPIUpdate(req models.UpdateProfileRequest) map[string]any {
	out := map[string]any{}
	put := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}

	put("first_name", req.FirstName)
	put("last_name", req.LastName)
	put("phone", req.Phone)
	put("date_of_birth", req.DateOfBirth)
	put("device_id", req.DeviceID)
	if req.Gender != nil {
		out["gender"] = string(*req.Gender)
	}
	if a := req.Address; a != nil {
		out["address"] = map[string]any{
			"street":      a.Street,
			"city":        a.City,
			"state":       a.State,
			"country":     a.Country,
			"postal_code": a.PostalCode,
		}
	}
	return out
}
