// Package models defines client-side data models used by the NEXO client.
package models

import "time"

// User is the account record returned by the authentication endpoints.
type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	DisplayName       *string    `json:"display_name,omitempty"`
	Plan              string     `json:"plan"`
	AgeVerified       bool       `json:"age_verified"`
	TOSAccepted       bool       `json:"tos_accepted"`
	DateOfBirth       *string    `json:"date_of_birth,omitempty"`
	PreferredLanguage string     `json:"preferred_language"`
	CreatedAt         time.Time  `json:"created_at"`
	TrialEndsAt       *time.Time `json:"trial_ends_at,omitempty"`
}

// Name returns the display name, falling back to the email address.
func (u *User) Name() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Email
}

// InTrial reports whether the user's trial is still running at now.
func (u *User) InTrial(now time.Time) bool {
	return u != nil && u.TrialEndsAt != nil && now.Before(*u.TrialEndsAt)
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	DisplayName       string `json:"display_name,omitempty"`
	PreferredLanguage string `json:"preferred_language,omitempty"`
	DateOfBirth       string `json:"date_of_birth"`
	TOSAccepted       bool   `json:"tos_accepted"`
}

// AuthResponse is returned by /auth/login, /auth/register and /auth/me.
type AuthResponse struct {
	User    *User  `json:"user"`
	Message string `json:"message,omitempty"`
}
