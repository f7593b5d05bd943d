// Package locale stores the user's preferred language and mirrors it into
// the NEXO_LOCALE cookie so the backend sees it on every request.
package locale

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/nexo/internal/client/client"
	"github.com/dmitrijs2005/nexo/internal/client/messages"
	"github.com/dmitrijs2005/nexo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nexo/internal/common"
)

// CookieMaxAgeDays is how long the locale cookie lives.
const CookieMaxAgeDays = 365

type Store struct {
	meta    metadata.Repository
	cookies client.CookieStore
}

func NewStore(meta metadata.Repository, cookies client.CookieStore) *Store {
	return &Store{meta: meta, cookies: cookies}
}

// Get returns the stored language code, or fallback normalized when nothing
// is stored.
func (s *Store) Get(ctx context.Context, fallback string) (string, error) {
	raw, err := s.meta.Get(ctx, metadata.KeyLocale)
	if err != nil {
		return "", fmt.Errorf("read locale: %w", err)
	}
	if len(raw) == 0 {
		return Normalize(fallback), nil
	}
	return Normalize(string(raw)), nil
}

// Set normalizes lang to a supported language, stores it and updates the
// cookie. It returns the stored value.
func (s *Store) Set(ctx context.Context, lang string) (string, error) {
	code := Normalize(lang)
	if err := s.meta.Set(ctx, metadata.KeyLocale, []byte(code)); err != nil {
		return "", fmt.Errorf("save locale: %w", err)
	}
	s.mirror(code)
	return code, nil
}

// Sync copies the stored preference into the cookie jar; used at startup.
func (s *Store) Sync(ctx context.Context, fallback string) (string, error) {
	code, err := s.Get(ctx, fallback)
	if err != nil {
		return "", err
	}
	s.mirror(code)
	return code, nil
}

func (s *Store) mirror(code string) {
	if s.cookies == nil {
		return
	}
	s.cookies.SetCookie(Cookie(code))
}

// Cookie builds the locale cookie for code.
func Cookie(code string) *http.Cookie {
	return &http.Cookie{
		Name:     common.LocaleCookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   CookieMaxAgeDays * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	}
}

// Normalize maps any language tag onto a supported two-letter code.
func Normalize(lang string) string {
	base, _ := messages.Match(lang).Base()
	return base.String()
}
