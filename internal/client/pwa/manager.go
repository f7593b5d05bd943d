// Package pwa tracks whether the app can be installed, whether the user
// recently declined, and whether an update is waiting. Platform signals
// arrive on the event bus; the manager subscribes in Start and unsubscribes
// in Close.
package pwa

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/nexo/internal/bus"
	"github.com/dmitrijs2005/nexo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/nexo/internal/logging"
)

const (
	DefaultCooldown    = 4 * time.Hour
	DefaultPromptDelay = 3 * time.Second
)

// LaunchParam is the query parameter that asks for the install prompt.
const LaunchParam = "install"

// State is the install/update prompt state exposed to the presentation layer.
type State struct {
	HasDeferredPrompt   bool
	IsDismissedRecently bool
	IsStandalone        bool
	Platform            Hint
	IsOnline            bool
	TriggerPrompt       bool
	ShowPrompt          bool
	UpdateAvailable     bool
}

type Config struct {
	// Cooldown is how long a dismissal suppresses the prompt.
	Cooldown time.Duration
	// PromptDelay is the wait between an installable signal and showing the
	// prompt on non-iOS platforms.
	PromptDelay time.Duration
	// Reload is called once when a new service worker takes control.
	Reload func()
}

type Manager struct {
	bus      bus.EventBus
	platform Platform
	meta     metadata.Repository
	log      logging.Logger
	cfg      Config

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) (stop func() bool)

	mu        sync.Mutex
	state     State
	deferred  DeferredPrompt
	stopTimer func() bool
	reloaded  bool
	sub       bus.Subscription
	done      chan struct{}
	listeners map[int]func(State)
	nextID    int

	wg sync.WaitGroup
}

func NewManager(b bus.EventBus, p Platform, meta metadata.Repository, cfg Config, log logging.Logger) *Manager {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.PromptDelay <= 0 {
		cfg.PromptDelay = DefaultPromptDelay
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{
		bus:      b,
		platform: p,
		meta:     meta,
		cfg:      cfg,
		log:      log.With("component", "pwa"),
		now:      time.Now,
		afterFunc: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
		state:     State{Platform: HintOther, IsOnline: true},
		listeners: make(map[int]func(State)),
	}
}

// Start computes the initial state and subscribes to platform events.
// Calling Start on a running manager is a no-op.
func (m *Manager) Start(ctx context.Context) {
	hint := HintOther
	if m.platform != nil {
		hint = HintFromUserAgent(m.platform.UserAgent())
	}
	standalone := m.standalone(ctx)
	dismissed := m.IsDismissed(ctx)

	m.mu.Lock()
	if m.sub != nil {
		m.mu.Unlock()
		return
	}
	m.state.Platform = hint
	m.state.IsStandalone = standalone
	m.state.IsDismissedRecently = dismissed
	// iOS never offers an install handle; it gets manual instructions instead.
	if hint == HintIOS && !standalone && !dismissed {
		m.state.ShowPrompt = true
	}

	if m.bus != nil {
		m.sub = m.bus.Subscribe(
			bus.KindInstallable,
			bus.KindInstalled,
			bus.KindOnline,
			bus.KindOffline,
			bus.KindWorkerInstalled,
			bus.KindControllerChange,
		)
		m.done = make(chan struct{})
		m.wg.Add(1)
		go m.loop(m.sub, m.done)
	} else {
		m.log.Warn(ctx, "no event bus, install and update prompts disabled")
	}
	m.mu.Unlock()

	m.notify()
	m.log.Debug(ctx, "started", "platform", hint, "standalone", standalone, "dismissed", dismissed)
}

func (m *Manager) standalone(ctx context.Context) bool {
	if m.platform == nil {
		return false
	}
	dm, ok := m.platform.DisplayMode().Get()
	if !ok {
		m.log.Debug(ctx, "display mode query unavailable")
		return false
	}
	return dm.Standalone()
}

// Close unsubscribes from platform events and cancels a pending prompt.
func (m *Manager) Close() error {
	m.mu.Lock()
	sub, done := m.sub, m.done
	m.sub, m.done = nil, nil
	if m.stopTimer != nil {
		m.stopTimer()
		m.stopTimer = nil
	}
	m.mu.Unlock()

	if sub == nil {
		return nil
	}
	close(done)
	err := sub.Close()
	m.wg.Wait()
	return err
}

func (m *Manager) loop(sub bus.Subscription, done <-chan struct{}) {
	defer m.wg.Done()
	for {
		select {
		case <-done:
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			m.handle(context.Background(), ev)
		}
	}
}

func (m *Manager) handle(ctx context.Context, ev bus.Event) {
	switch ev.Kind {
	case bus.KindInstallable:
		m.onInstallable(ctx, ev)
	case bus.KindInstalled:
		m.set(func(s *State) {
			m.deferred = nil
			s.HasDeferredPrompt = false
			s.ShowPrompt = false
			s.TriggerPrompt = false
		})
	case bus.KindOnline:
		m.set(func(s *State) { s.IsOnline = true })
	case bus.KindOffline:
		m.set(func(s *State) { s.IsOnline = false })
	case bus.KindWorkerInstalled:
		m.onWorkerInstalled(ctx)
	case bus.KindControllerChange:
		m.onControllerChange(ctx)
	}
}

func (m *Manager) onInstallable(ctx context.Context, ev bus.Event) {
	prompt, ok := ev.Payload.(DeferredPrompt)
	if !ok || prompt == nil {
		m.log.Warn(ctx, "installable event without a prompt handle", "payload", fmt.Sprintf("%T", ev.Payload))
		return
	}

	// The cooldown may have lapsed since Start. Without storage the
	// in-memory dismissal stands for the whole session.
	dismissed := m.IsDismissed(ctx)

	m.mu.Lock()
	m.deferred = prompt
	m.state.HasDeferredPrompt = true
	if m.meta != nil {
		m.state.IsDismissedRecently = dismissed
	}
	schedule := m.state.Platform != HintIOS && !m.state.IsStandalone && !m.state.IsDismissedRecently
	if schedule {
		if m.stopTimer != nil {
			m.stopTimer()
		}
		m.stopTimer = m.afterFunc(m.cfg.PromptDelay, m.revealPrompt)
	}
	m.mu.Unlock()

	m.notify()
}

func (m *Manager) revealPrompt() {
	m.set(func(s *State) {
		m.stopTimer = nil
		if s.HasDeferredPrompt && !s.IsStandalone && !s.IsDismissedRecently {
			s.ShowPrompt = true
		}
	})
}

func (m *Manager) onWorkerInstalled(ctx context.Context) {
	sw, ok := m.serviceWorker()
	if !ok {
		m.log.Debug(ctx, "worker installed but service worker API unavailable")
		return
	}
	if !sw.HasController() {
		// First install: nothing to update from.
		return
	}
	m.set(func(s *State) { s.UpdateAvailable = true })
	m.log.Info(ctx, "update available")
}

func (m *Manager) onControllerChange(ctx context.Context) {
	m.mu.Lock()
	if m.reloaded || m.cfg.Reload == nil {
		m.mu.Unlock()
		return
	}
	m.reloaded = true
	reload := m.cfg.Reload
	m.mu.Unlock()

	m.log.Info(ctx, "new version took control, reloading")
	reload()
}

func (m *Manager) serviceWorker() (ServiceWorker, bool) {
	if m.platform == nil {
		return nil, false
	}
	return m.platform.ServiceWorker().Get()
}

// PromptInstall shows the platform install dialog. Without a captured handle
// it returns false and does not touch the platform. It returns true only when
// the user accepted, and the handle is then consumed.
func (m *Manager) PromptInstall(ctx context.Context) (bool, error) {
	m.mu.Lock()
	prompt := m.deferred
	m.mu.Unlock()

	if prompt == nil {
		return false, nil
	}

	if err := prompt.Prompt(ctx); err != nil {
		m.log.Warn(ctx, "install prompt failed", "error", err)
		return false, fmt.Errorf("install prompt: %w", err)
	}

	outcome, err := prompt.UserChoice(ctx)
	if err != nil {
		m.log.Warn(ctx, "install prompt choice failed", "error", err)
		return false, fmt.Errorf("install prompt: %w", err)
	}

	if outcome != OutcomeAccepted {
		m.log.Info(ctx, "install prompt declined")
		return false, nil
	}

	m.set(func(s *State) {
		if m.deferred == prompt {
			m.deferred = nil
		}
		s.HasDeferredPrompt = m.deferred != nil
		s.ShowPrompt = false
		s.TriggerPrompt = false
	})
	m.log.Info(ctx, "install accepted")
	return true, nil
}

// DismissInstall hides the prompt and starts the cooldown.
func (m *Manager) DismissInstall(ctx context.Context) error {
	ts := strconv.FormatInt(m.now().UnixMilli(), 10)

	m.set(func(s *State) {
		m.deferred = nil
		if m.stopTimer != nil {
			m.stopTimer()
			m.stopTimer = nil
		}
		s.HasDeferredPrompt = false
		s.ShowPrompt = false
		s.TriggerPrompt = false
		s.IsDismissedRecently = true
	})

	if m.meta == nil {
		return nil
	}
	if err := m.meta.Set(ctx, metadata.KeyInstallDismiss, []byte(ts)); err != nil {
		m.log.Warn(ctx, "could not persist install dismissal", "error", err)
		return fmt.Errorf("dismiss install: %w", err)
	}
	return nil
}

// IsDismissed reports whether a stored dismissal is younger than the cooldown.
func (m *Manager) IsDismissed(ctx context.Context) bool {
	if m.meta == nil {
		return false
	}
	raw, err := m.meta.Get(ctx, metadata.KeyInstallDismiss)
	if err != nil {
		m.log.Warn(ctx, "could not read install dismissal", "error", err)
		return false
	}
	if len(raw) == 0 {
		return false
	}
	ms, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		m.log.Warn(ctx, "bad install dismissal marker", "value", string(raw))
		return false
	}
	return m.now().Sub(time.UnixMilli(ms)) < m.cfg.Cooldown
}

// HandleLaunchURL looks for ?install=true. When present it requests the
// prompt and returns the URL without the parameter; otherwise raw is
// returned unchanged.
func (m *Manager) HandleLaunchURL(raw string) (string, error) {
	if raw == "" {
		return raw, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw, fmt.Errorf("launch url: %w", err)
	}

	q := u.Query()
	if !q.Has(LaunchParam) {
		return raw, nil
	}
	trigger := q.Get(LaunchParam) == "true"
	q.Del(LaunchParam)
	u.RawQuery = q.Encode()

	if trigger {
		m.set(func(s *State) { s.TriggerPrompt = true })
	}
	return u.String(), nil
}

// ActivateUpdate tells the waiting worker to take over. The reload happens
// when the platform reports the controller change.
func (m *Manager) ActivateUpdate(ctx context.Context) error {
	m.mu.Lock()
	available := m.state.UpdateAvailable
	m.mu.Unlock()
	if !available {
		return ErrUpdateUnavailable
	}

	sw, ok := m.serviceWorker()
	if !ok {
		return ErrUpdateUnavailable
	}
	if err := sw.PostToWaiting(ctx, SkipWaiting); err != nil {
		m.log.Warn(ctx, "could not activate update", "error", err)
		return fmt.Errorf("activate update: %w", err)
	}

	m.set(func(s *State) { s.UpdateAvailable = false })
	return nil
}

func (m *Manager) DismissUpdate() {
	m.set(func(s *State) { s.UpdateAvailable = false })
}

// ClearTrigger resets TriggerPrompt once the presentation layer handled it.
func (m *Manager) ClearTrigger() {
	m.set(func(s *State) { s.TriggerPrompt = false })
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn to be called after every state change. The returned
// func unregisters it.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *Manager) set(fn func(s *State)) {
	m.mu.Lock()
	fn(&m.state)
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) notify() {
	m.mu.Lock()
	snap := m.state
	listeners := make([]func(State), 0, len(m.listeners))
	for _, l := range m.listeners {
		listeners = append(listeners, l)
	}
	m.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}
