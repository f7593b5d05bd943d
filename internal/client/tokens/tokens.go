// Package tokens inspects the session cookie the backend issues. The token is
// decoded without signature verification: the client has no key and uses the
// result only to show when the session expires. Whether the user is signed in
// is decided by the server alone.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nexo/internal/client/client"
	"github.com/dmitrijs2005/nexo/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("no session cookie")

// Claims is the subset of the session token the client reads.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
}

// Info describes a decoded session token.
type Info struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Expired reports whether the token has an expiry at or before now.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Remaining is the time left until expiry, zero when expired or unknown.
func (i Info) Remaining(now time.Time) time.Duration {
	if i.ExpiresAt.IsZero() || i.Expired(now) {
		return 0
	}
	return i.ExpiresAt.Sub(now)
}

// Inspect decodes a token string without verifying it.
func Inspect(token string) (Info, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Info{}, fmt.Errorf("decode session token: %w", err)
	}

	info := Info{Subject: claims.Subject}
	if info.Subject == "" {
		info.Subject = claims.UserID
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	return info, nil
}

// Manager reads the session token from the API client's cookie jar.
type Manager struct {
	cookies client.CookieStore
	now     func() time.Time
}

func NewManager(cookies client.CookieStore) *Manager {
	return &Manager{cookies: cookies, now: time.Now}
}

// Current decodes the session cookie, if any.
func (m *Manager) Current() (Info, error) {
	ck, ok := m.cookies.Cookie(common.SessionCookieName)
	if !ok || ck.Value == "" {
		return Info{}, ErrNoSession
	}
	return Inspect(ck.Value)
}

// ExpiresIn is the time left on the session cookie's token.
func (m *Manager) ExpiresIn() (time.Duration, error) {
	info, err := m.Current()
	if err != nil {
		return 0, err
	}
	return info.Remaining(m.now()), nil
}
