package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/nexo/internal/bus"
	"github.com/dmitrijs2005/nexo/internal/client/analytics"
	"github.com/dmitrijs2005/nexo/internal/client/client"
	"github.com/dmitrijs2005/nexo/internal/client/config"
	"github.com/dmitrijs2005/nexo/internal/client/locale"
	"github.com/dmitrijs2005/nexo/internal/client/messages"
	"github.com/dmitrijs2005/nexo/internal/client/notify"
	"github.com/dmitrijs2005/nexo/internal/client/pwa"
	"github.com/dmitrijs2005/nexo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nexo/internal/client/services"
	"github.com/dmitrijs2005/nexo/internal/client/tokens"
	"github.com/dmitrijs2005/nexo/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// apiClient is the backend client plus access to its cookie jar.
type apiClient interface {
	client.Client
	client.CookieStore
}

// App is the application root: every manager is built here once and
// shared by the REPL and the one-shot commands.
type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	api    apiClient
	events *bus.MemBus

	notifier   notify.Notifier
	translator *messages.Translator

	session    *services.SessionStore
	consent    *services.ConsentManager
	onboarding *services.OnboardingService
	install    *pwa.Manager
	tracker    *analytics.Tracker
	tokens     *tokens.Manager
	locale     *locale.Store

	modeMu sync.Mutex
	Mode   Mode

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and the API client and wires the
// managers. The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	log := logging.New(c.LogFormat, os.Stderr)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIURL, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(c, db, api, in, out, log), nil
}

func newApp(c *config.Config, db *sql.DB, api apiClient, in io.Reader, out io.Writer, log logging.Logger) *App {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	meta := metadata.NewSQLiteRepository(db)
	notifier := notify.NewConsole(out)
	translator := messages.NewTranslator(c.Locale)
	tracker := analytics.NewTracker(c.AnalyticsWriteKey, c.AnalyticsURL, meta, log)
	events := bus.NewMemBus(bus.MemBusConfig{})

	a := &App{
		config:     c,
		log:        log,
		db:         db,
		api:        api,
		events:     events,
		notifier:   notifier,
		translator: translator,
		session:    services.NewSessionStore(api, notifier, translator, log),
		consent:    services.NewConsentManager(db, c.ConsentVersion, tracker, log),
		onboarding: services.NewOnboardingService(api, log),
		tracker:    tracker,
		tokens:     tokens.NewManager(api),
		locale:     locale.NewStore(meta, api),
		reader:     bufio.NewReader(in),
		out:        out,
	}

	platform := &pwa.ShellPlatform{Agent: c.UserAgent, Standalone: c.Standalone}
	a.install = pwa.NewManager(events, platform, meta, pwa.Config{
		Cooldown:    c.InstallCooldown,
		PromptDelay: c.PromptDelay,
		Reload: func() {
			a.session.LoadUser(context.Background())
		},
	}, log)

	return a
}

// Start restores persisted preferences and the server session, then
// subscribes the install manager to platform events.
func (a *App) Start(ctx context.Context) {
	if code, err := a.locale.Sync(ctx, a.config.Locale); err != nil {
		a.log.Warn(ctx, "locale unavailable", "error", err)
	} else {
		a.setTranslator(messages.NewTranslator(code))
	}

	var signedIn atomic.Bool
	a.session.Subscribe(func(st services.SessionState) {
		switch {
		case st.User != nil:
			a.tracker.Identify(st.User.ID)
			signedIn.Store(true)
		case signedIn.Swap(false):
			if err := a.tracker.Reset(ctx); err != nil {
				a.log.Warn(ctx, "analytics reset failed", "error", err)
			}
		}
	})
	a.session.LoadUser(ctx)

	if a.consent.ShouldShowBanner(ctx) {
		a.printConsentBanner()
	}

	a.install.Start(ctx)
	if a.config.LaunchURL != "" {
		if _, err := a.install.HandleLaunchURL(a.config.LaunchURL); err != nil {
			a.log.Warn(ctx, "ignoring launch url", "error", err)
		}
	}
	if !a.config.Standalone {
		a.events.Publish(bus.NewEvent(bus.KindInstallable, &pwa.ConfirmPrompt{Ask: a.askInstall}))
	}
}

func (a *App) askInstall(context.Context) (bool, error) {
	return Confirm(a.reader, "Add NEXO to this device?", a.out)
}

// Run starts the app, blocks in the REPL until the user exits and then
// releases all resources.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Start(ctx)
	a.Root(ctx)
}

func (a *App) Close() error {
	var errs []error
	if a.install != nil {
		errs = append(errs, a.install.Close())
	}
	if a.events != nil {
		errs = append(errs, a.events.Close())
	}
	if a.api != nil {
		errs = append(errs, a.api.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session.State().IsAuthenticated
}

func (a *App) setTranslator(tr *messages.Translator) {
	a.translator = tr
	a.session.SetTranslator(tr)
}

// setMode records connectivity and publishes it on the event bus.
func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.modeMu.Unlock()

	if !changed {
		return
	}
	a.log.Info(context.Background(), fmt.Sprintf("Switched to %s mode", mode))

	kind := bus.KindOffline
	if mode == ModeOnline {
		kind = bus.KindOnline
	}
	if a.events != nil {
		a.events.Publish(bus.NewEvent(kind, nil))
	}
}

func (a *App) mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

// StartOnlineStatusWatcher pings the backend every interval until ctx is
// done and switches Mode accordingly.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.api.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ModeOffline)
	} else {
		a.setMode(ModeOnline)
	}
}
