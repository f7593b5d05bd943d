package pwa

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakePrompt struct {
	outcome   Outcome
	promptErr error
	choiceErr error
	prompted  int
}

func (p *fakePrompt) Prompt(context.Context) error {
	p.prompted++
	return p.promptErr
}

func (p *fakePrompt) UserChoice(context.Context) (Outcome, error) {
	return p.outcome, p.choiceErr
}

type fakeWorker struct {
	controller bool
	posted     []string
	err        error
}

func (w *fakeWorker) HasController() bool { return w.controller }

func (w *fakeWorker) PostToWaiting(_ context.Context, msg string) error {
	w.posted = append(w.posted, msg)
	return w.err
}

type fakePlatform struct {
	ua         string
	standalone Capability[DisplayMode]
	worker     Capability[ServiceWorker]
}

func (p *fakePlatform) UserAgent() string                        { return p.ua }
func (p *fakePlatform) DisplayMode() Capability[DisplayMode]     { return p.standalone }
func (p *fakePlatform) ServiceWorker() Capability[ServiceWorker] { return p.worker }

type memMeta struct {
	mu  sync.Mutex
	m   map[string][]byte
	err error
}

func newMemMeta() *memMeta { return &memMeta{m: map[string][]byte{}} }

func (r *memMeta) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.m[key], nil
}

func (r *memMeta) Set(_ context.Context, key string, v []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.m[key] = v
	return nil
}

func (r *memMeta) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.m, key)
	return nil
}

// manualTimer replaces time.AfterFunc; fire runs the scheduled func.
type manualTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	f       func()
	stopped bool
}

func (t *manualTimer) afterFunc(d time.Duration, f func()) func() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.delay, t.f, t.stopped = d, f, false
	return func() bool {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.stopped = true
		return true
	}
}

func (t *manualTimer) fire() error {
	t.mu.Lock()
	f, stopped := t.f, t.stopped
	t.mu.Unlock()
	if f == nil || stopped {
		return errors.New("no timer scheduled")
	}
	f()
	return nil
}
