// Package metadata stores small client-side values (consent record, install
// prompt dismissal marker, locale preference, analytics identity) in the
// local SQLite database as key/value pairs.
package metadata

import (
	"context"
)

// Well-known keys.
const (
	KeyCookieConsent   = "cookie_consent"
	KeyInstallDismiss  = "pwa_install_dismissed"
	KeyLocale          = "locale"
	KeyAnalyticsAnonID = "analytics_anonymous_id"
)

// Repository is a durable key/value store. Get returns (nil, nil) for a
// missing key; Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
