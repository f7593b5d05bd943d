package pwa

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/nexo/internal/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	uaAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Chrome/126.0 Mobile Safari/537.36"
	uaIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_5 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148"
	uaDesktop = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 Chrome/126.0 Safari/537.36"
)

var baseTime = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

type harness struct {
	m     *Manager
	meta  *memMeta
	timer *manualTimer
	now   time.Time
}

func newHarness(t *testing.T, p Platform) *harness {
	t.Helper()
	h := &harness{meta: newMemMeta(), timer: &manualTimer{}, now: baseTime}
	h.m = NewManager(nil, p, h.meta, Config{}, nil)
	h.m.now = func() time.Time { return h.now }
	h.m.afterFunc = h.timer.afterFunc
	return h
}

func androidPlatform() *fakePlatform {
	return &fakePlatform{ua: uaAndroid, standalone: Available[DisplayMode](staticDisplayMode(false))}
}

func installable(p DeferredPrompt) bus.Event {
	return bus.NewEvent(bus.KindInstallable, p)
}

func TestHintFromUserAgent(t *testing.T) {
	assert.Equal(t, HintIOS, HintFromUserAgent(uaIPhone))
	assert.Equal(t, HintIOS, HintFromUserAgent("Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)"))
	assert.Equal(t, HintAndroid, HintFromUserAgent(uaAndroid))
	assert.Equal(t, HintOther, HintFromUserAgent(uaDesktop))
	assert.Equal(t, HintOther, HintFromUserAgent(""))
}

func TestCapability(t *testing.T) {
	var zero Capability[DisplayMode]
	assert.False(t, zero.IsAvailable())

	c := Available[DisplayMode](staticDisplayMode(true))
	dm, ok := c.Get()
	require.True(t, ok)
	assert.True(t, dm.Standalone())

	_, ok = Unavailable[ServiceWorker]().Get()
	assert.False(t, ok)
}

func TestPromptInstall_NoHandle(t *testing.T) {
	h := newHarness(t, androidPlatform())
	h.m.Start(context.Background())

	ok, err := h.m.PromptInstall(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPromptInstall_Accepted(t *testing.T) {
	h := newHarness(t, androidPlatform())
	h.m.Start(context.Background())
	p := &fakePrompt{outcome: OutcomeAccepted}
	h.m.handle(context.Background(), installable(p))
	require.True(t, h.m.State().HasDeferredPrompt)

	ok, err := h.m.PromptInstall(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, p.prompted)

	st := h.m.State()
	assert.False(t, st.HasDeferredPrompt)
	assert.False(t, st.ShowPrompt)

	ok, err = h.m.PromptInstall(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, p.prompted, "handle is single use")
}

func TestPromptInstall_Dismissed(t *testing.T) {
	h := newHarness(t, androidPlatform())
	p := &fakePrompt{outcome: OutcomeDismissed}
	h.m.handle(context.Background(), installable(p))

	ok, err := h.m.PromptInstall(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPromptInstall_PlatformErrors(t *testing.T) {
	h := newHarness(t, androidPlatform())
	h.m.handle(context.Background(), installable(&fakePrompt{promptErr: errors.New("blocked")}))
	ok, err := h.m.PromptInstall(context.Background())
	require.Error(t, err)
	assert.False(t, ok)

	h.m.handle(context.Background(), installable(&fakePrompt{choiceErr: context.Canceled}))
	ok, err = h.m.PromptInstall(context.Background())
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

func TestInstallable_RevealsPromptAfterDelay(t *testing.T) {
	h := newHarness(t, androidPlatform())
	h.m.Start(context.Background())

	h.m.handle(context.Background(), installable(&fakePrompt{}))
	assert.False(t, h.m.State().ShowPrompt)
	assert.Equal(t, DefaultPromptDelay, h.timer.delay)

	require.NoError(t, h.timer.fire())
	assert.True(t, h.m.State().ShowPrompt)
}

func TestInstallable_NoPromptWhenStandalone(t *testing.T) {
	p := androidPlatform()
	p.standalone = Available[DisplayMode](staticDisplayMode(true))
	h := newHarness(t, p)
	h.m.Start(context.Background())

	h.m.handle(context.Background(), installable(&fakePrompt{}))
	require.Error(t, h.timer.fire(), "nothing scheduled")

	st := h.m.State()
	assert.True(t, st.IsStandalone)
	assert.True(t, st.HasDeferredPrompt)
	assert.False(t, st.ShowPrompt)
}

func TestInstallable_NoPromptWhenRecentlyDismissed(t *testing.T) {
	h := newHarness(t, androidPlatform())
	h.meta.m["pwa_install_dismissed"] = []byte(strconv.FormatInt(baseTime.Add(-time.Hour).UnixMilli(), 10))
	h.m.Start(context.Background())
	require.True(t, h.m.State().IsDismissedRecently)

	h.m.handle(context.Background(), installable(&fakePrompt{}))
	require.Error(t, h.timer.fire())
	assert.False(t, h.m.State().ShowPrompt)
}

func TestInstallable_PromptsAgainAfterCooldown(t *testing.T) {
	h := newHarness(t, androidPlatform())
	h.m.Start(context.Background())
	h.m.handle(context.Background(), installable(&fakePrompt{}))
	require.NoError(t, h.m.DismissInstall(context.Background()))
	require.True(t, h.m.State().IsDismissedRecently)

	h.now = baseTime.Add(DefaultCooldown + time.Minute)
	h.m.handle(context.Background(), installable(&fakePrompt{}))
	assert.False(t, h.m.State().IsDismissedRecently)

	require.NoError(t, h.timer.fire())
	assert.True(t, h.m.State().ShowPrompt)
}

func TestInstallable_IgnoresBadPayload(t *testing.T) {
	h := newHarness(t, androidPlatform())
	h.m.handle(context.Background(), bus.NewEvent(bus.KindInstallable, "not a prompt"))
	assert.False(t, h.m.State().HasDeferredPrompt)
}

func TestIOS_ShowsManualInstructions(t *testing.T) {
	h := newHarness(t, &fakePlatform{ua: uaIPhone})
	h.m.Start(context.Background())

	st := h.m.State()
	assert.Equal(t, HintIOS, st.Platform)
	assert.True(t, st.ShowPrompt)
	assert.False(t, st.HasDeferredPrompt)
	assert.False(t, st.IsStandalone, "unavailable display mode means not standalone")
}

func TestDismissInstall(t *testing.T) {
	h := newHarness(t, androidPlatform())
	h.m.Start(context.Background())
	h.m.handle(context.Background(), installable(&fakePrompt{}))

	require.NoError(t, h.m.DismissInstall(context.Background()))

	st := h.m.State()
	assert.True(t, st.IsDismissedRecently)
	assert.False(t, st.ShowPrompt)
	assert.False(t, st.HasDeferredPrompt)
	assert.True(t, h.timer.stopped)
	assert.Equal(t, strconv.FormatInt(baseTime.UnixMilli(), 10), string(h.meta.m["pwa_install_dismissed"]))

	assert.True(t, h.m.IsDismissed(context.Background()), "true right after dismissing")

	h.now = baseTime.Add(DefaultCooldown + time.Millisecond)
	assert.False(t, h.m.IsDismissed(context.Background()), "false once the cooldown passed")
}

func TestIsDismissed_Cooldown(t *testing.T) {
	cases := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"five hours ago", 5 * time.Hour, false},
		{"one hour ago", time.Hour, true},
		{"just now", 0, true},
		{"exactly at cooldown", 4 * time.Hour, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, androidPlatform())
			h.meta.m["pwa_install_dismissed"] = []byte(strconv.FormatInt(baseTime.Add(-tc.age).UnixMilli(), 10))
			assert.Equal(t, tc.want, h.m.IsDismissed(context.Background()))
		})
	}
}

func TestIsDismissed_MissingOrBrokenMarker(t *testing.T) {
	h := newHarness(t, androidPlatform())
	assert.False(t, h.m.IsDismissed(context.Background()))

	h.meta.m["pwa_install_dismissed"] = []byte("yesterday")
	assert.False(t, h.m.IsDismissed(context.Background()))

	h.meta.err = errors.New("disk")
	assert.False(t, h.m.IsDismissed(context.Background()))
}

func TestDismissInstall_StorageError(t *testing.T) {
	h := newHarness(t, androidPlatform())
	h.meta.err = errors.New("disk")

	require.Error(t, h.m.DismissInstall(context.Background()))
	assert.True(t, h.m.State().IsDismissedRecently)
}

func TestHandleLaunchURL(t *testing.T) {
	h := newHarness(t, androidPlatform())

	out, err := h.m.HandleLaunchURL("https://app.nexo.chat/dashboard?install=true&tab=chats")
	require.NoError(t, err)
	assert.Equal(t, "https://app.nexo.chat/dashboard?tab=chats", out)
	assert.True(t, h.m.State().TriggerPrompt)

	h.m.ClearTrigger()
	out, err = h.m.HandleLaunchURL("https://app.nexo.chat/?install=false")
	require.NoError(t, err)
	assert.Equal(t, "https://app.nexo.chat/", out)
	assert.False(t, h.m.State().TriggerPrompt)

	out, err = h.m.HandleLaunchURL("https://app.nexo.chat/chat")
	require.NoError(t, err)
	assert.Equal(t, "https://app.nexo.chat/chat", out)

	_, err = h.m.HandleLaunchURL("http://[::1")
	require.Error(t, err)
}

func TestOnlineOffline(t *testing.T) {
	h := newHarness(t, androidPlatform())
	assert.True(t, h.m.State().IsOnline)

	h.m.handle(context.Background(), bus.NewEvent(bus.KindOffline, nil))
	assert.False(t, h.m.State().IsOnline)

	h.m.handle(context.Background(), bus.NewEvent(bus.KindOnline, nil))
	assert.True(t, h.m.State().IsOnline)
}

func TestInstalledClearsHandle(t *testing.T) {
	h := newHarness(t, androidPlatform())
	h.m.handle(context.Background(), installable(&fakePrompt{}))
	h.m.handle(context.Background(), bus.NewEvent(bus.KindInstalled, nil))

	ok, err := h.m.PromptInstall(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, h.m.State().HasDeferredPrompt)
}

func TestUpdateFlow(t *testing.T) {
	w := &fakeWorker{controller: true}
	p := androidPlatform()
	p.worker = Available[ServiceWorker](w)

	reloads := 0
	h := newHarness(t, p)
	h.m.cfg.Reload = func() { reloads++ }

	require.ErrorIs(t, h.m.ActivateUpdate(context.Background()), ErrUpdateUnavailable)

	h.m.handle(context.Background(), bus.NewEvent(bus.KindWorkerInstalled, nil))
	require.True(t, h.m.State().UpdateAvailable)

	require.NoError(t, h.m.ActivateUpdate(context.Background()))
	assert.Equal(t, []string{SkipWaiting}, w.posted)
	assert.False(t, h.m.State().UpdateAvailable)

	h.m.handle(context.Background(), bus.NewEvent(bus.KindControllerChange, nil))
	h.m.handle(context.Background(), bus.NewEvent(bus.KindControllerChange, nil))
	assert.Equal(t, 1, reloads)
}

func TestUpdate_FirstInstallIsNotAnUpdate(t *testing.T) {
	p := androidPlatform()
	p.worker = Available[ServiceWorker](&fakeWorker{controller: false})
	h := newHarness(t, p)

	h.m.handle(context.Background(), bus.NewEvent(bus.KindWorkerInstalled, nil))
	assert.False(t, h.m.State().UpdateAvailable)
}

func TestUpdate_WorkerUnavailable(t *testing.T) {
	h := newHarness(t, androidPlatform())
	h.m.handle(context.Background(), bus.NewEvent(bus.KindWorkerInstalled, nil))
	assert.False(t, h.m.State().UpdateAvailable)
}

func TestUpdate_PostFailureKeepsFlag(t *testing.T) {
	w := &fakeWorker{controller: true, err: errors.New("gone")}
	p := androidPlatform()
	p.worker = Available[ServiceWorker](w)
	h := newHarness(t, p)

	h.m.handle(context.Background(), bus.NewEvent(bus.KindWorkerInstalled, nil))
	require.Error(t, h.m.ActivateUpdate(context.Background()))
	assert.True(t, h.m.State().UpdateAvailable)

	h.m.DismissUpdate()
	assert.False(t, h.m.State().UpdateAvailable)
}

func TestStartClose_SubscriptionLifecycle(t *testing.T) {
	b := bus.NewMemBus(bus.MemBusConfig{})
	defer b.Close()

	m := NewManager(b, androidPlatform(), newMemMeta(), Config{}, nil)
	m.Start(context.Background())
	m.Start(context.Background())
	assert.Equal(t, 1, b.Subscribers(bus.KindOffline))

	b.Publish(bus.NewEvent(bus.KindOffline, nil))
	require.Eventually(t, func() bool { return !m.State().IsOnline }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Close())
	assert.Equal(t, 0, b.Subscribers(bus.KindOffline))
	require.NoError(t, m.Close())

	b.Publish(bus.NewEvent(bus.KindOnline, nil))
	time.Sleep(10 * time.Millisecond)
	assert.False(t, m.State().IsOnline, "no events after Close")
}

func TestStart_ConcurrentCallsSubscribeOnce(t *testing.T) {
	b := bus.NewMemBus(bus.MemBusConfig{})
	defer b.Close()

	m := NewManager(b, androidPlatform(), newMemMeta(), Config{}, nil)
	t.Cleanup(func() { _ = m.Close() })

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Start(context.Background())
		}()
	}
	wg.Wait()

	for _, kind := range []bus.Kind{bus.KindInstallable, bus.KindOffline, bus.KindControllerChange} {
		assert.Equal(t, 1, b.Subscribers(kind), kind)
	}
}

func TestSubscribe(t *testing.T) {
	h := newHarness(t, androidPlatform())
	var got []State
	unsubscribe := h.m.Subscribe(func(s State) { got = append(got, s) })

	h.m.handle(context.Background(), bus.NewEvent(bus.KindOffline, nil))
	require.Len(t, got, 1)
	assert.False(t, got[0].IsOnline)

	unsubscribe()
	h.m.handle(context.Background(), bus.NewEvent(bus.KindOnline, nil))
	assert.Len(t, got, 1)
}
