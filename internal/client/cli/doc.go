// Package cli provides the interactive NEXO command-line client.
//
// NewApp wires configuration, the local database, the API client and the
// state managers (session, consent, install/update prompt) into one App.
// App.Run restores the session, starts a background connectivity watcher
// and runs the REPL until the user exits.
//
// Key features:
//   - Register / Login / Logout / WhoAmI
//   - Cookie consent: show, accept, reject, save, history
//   - Install prompt and update notices
//   - Language preference and onboarding profile
//
// NewRootCmd exposes the same operations as cobra subcommands for
// non-interactive use. See App, StartOnlineStatusWatcher, and runREPL for
// details.
package cli
