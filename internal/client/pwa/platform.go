package pwa

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrPromptUnavailable = errors.New("install prompt unavailable")
	ErrUpdateUnavailable = errors.New("no update waiting")
)

// SkipWaiting is posted to a waiting service worker to activate it.
const SkipWaiting = "SKIP_WAITING"

// Outcome is the user's answer to the platform install prompt.
type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeDismissed Outcome = "dismissed"
)

// Hint is a coarse platform classification derived from the user agent.
type Hint string

const (
	HintIOS     Hint = "ios"
	HintAndroid Hint = "android"
	HintOther   Hint = "other"
)

// DeferredPrompt is the single-use install handle the platform hands out with
// an installable event.
type DeferredPrompt interface {
	// Prompt shows the platform install dialog.
	Prompt(ctx context.Context) error
	// UserChoice waits for the user's answer to the dialog.
	UserChoice(ctx context.Context) (Outcome, error)
}

// DisplayMode answers whether the app runs as an installed shell.
type DisplayMode interface {
	Standalone() bool
}

// ServiceWorker is the subset of the worker registry used for updates.
type ServiceWorker interface {
	// HasController reports whether a worker currently controls the app.
	HasController() bool
	// PostToWaiting sends msg to the installed-but-waiting worker.
	PostToWaiting(ctx context.Context, msg string) error
}

// Platform describes the host the client runs on.
type Platform interface {
	UserAgent() string
	DisplayMode() Capability[DisplayMode]
	ServiceWorker() Capability[ServiceWorker]
}

// HintFromUserAgent classifies a user-agent string.
func HintFromUserAgent(ua string) Hint {
	ua = strings.ToLower(ua)
	switch {
	case strings.Contains(ua, "iphone"), strings.Contains(ua, "ipad"), strings.Contains(ua, "ipod"):
		return HintIOS
	case strings.Contains(ua, "android"):
		return HintAndroid
	default:
		return HintOther
	}
}
