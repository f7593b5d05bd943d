// Package client contains the transport and local-storage building blocks of
// the NEXO client runtime.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     NEXO backend: Login/Register/Logout/Me, onboarding status and profile,
//     and a liveness Ping.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient). The backend
//     keeps the session in a cookie, so HTTPClient owns a cookie jar and also
//     exposes it through CookieStore for the locale and token helpers.
//  3. Local persistence bootstrap (InitDatabase, Migrate) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Transport failures wrap ErrUnavailable. Non-2xx responses are returned as
// *APIError, which unwraps to a sentinel (ErrUnauthorized, ErrConflict,
// ErrValidation, ErrRateLimited, ErrUnavailable) so callers can use errors.Is
// for the category and errors.As for the server's detail message.
package client
