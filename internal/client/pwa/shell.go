package pwa

import (
	"context"
	"sync"
)

// ShellPlatform is the host used by the command-line client. The display mode
// comes from configuration and there is no service worker.
type ShellPlatform struct {
	Agent      string
	Standalone bool
}

type staticDisplayMode bool

func (m staticDisplayMode) Standalone() bool { return bool(m) }

func (p *ShellPlatform) UserAgent() string { return p.Agent }

func (p *ShellPlatform) DisplayMode() Capability[DisplayMode] {
	return Available[DisplayMode](staticDisplayMode(p.Standalone))
}

func (p *ShellPlatform) ServiceWorker() Capability[ServiceWorker] {
	return Unavailable[ServiceWorker]()
}

// ConfirmPrompt is a DeferredPrompt that asks a yes/no question. Ask is called
// by Prompt; UserChoice returns the answer to the latest Prompt. The handle
// can be prompted again after a decline.
type ConfirmPrompt struct {
	Ask func(ctx context.Context) (bool, error)

	mu       sync.Mutex
	answered chan struct{}
	outcome  Outcome
}

// pending returns the channel of the current round, opening a new round
// when there is none or the last one was answered.
func (p *ConfirmPrompt) pending() chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.answered != nil {
		select {
		case <-p.answered:
		default:
			return p.answered
		}
	}
	p.answered = make(chan struct{})
	p.outcome = ""
	return p.answered
}

func (p *ConfirmPrompt) Prompt(ctx context.Context) error {
	if p.Ask == nil {
		return ErrPromptUnavailable
	}
	round := p.pending()

	ok, err := p.Ask(ctx)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-round:
		// A concurrent Prompt answered this round first.
		return nil
	default:
	}
	p.outcome = OutcomeDismissed
	if ok {
		p.outcome = OutcomeAccepted
	}
	close(round)
	return nil
}

func (p *ConfirmPrompt) UserChoice(ctx context.Context) (Outcome, error) {
	p.mu.Lock()
	round := p.answered
	if round == nil {
		round = make(chan struct{})
		p.answered = round
	}
	p.mu.Unlock()

	select {
	case <-round:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.outcome, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

var (
	_ Platform       = (*ShellPlatform)(nil)
	_ DeferredPrompt = (*ConfirmPrompt)(nil)
)
