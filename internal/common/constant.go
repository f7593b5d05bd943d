// Package common holds names shared by the NEXO client packages: cookie
// names and small helpers.
package common

// SessionCookieName is the cookie the backend sets on login and clears on
// logout. It carries the session JWT.
const SessionCookieName = "nexo_session"

// LocaleCookieName carries the user's preferred language to the backend.
const LocaleCookieName = "NEXO_LOCALE"
