// Package services contains the client-side state managers of NEXO: the
// session store, the cookie-consent manager and the onboarding service.
// Each manager is an explicit object built once at application start and
// injected where it is needed.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/nexo/internal/client/client"
	"github.com/dmitrijs2005/nexo/internal/client/messages"
	"github.com/dmitrijs2005/nexo/internal/client/models"
	"github.com/dmitrijs2005/nexo/internal/client/notify"
	"github.com/dmitrijs2005/nexo/internal/logging"
)

// SessionState is the client-side reflection of server-verified
// authentication. The zero value is the logged-out initial state.
type SessionState struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// SessionStore holds the current session and mutates it through login,
// register, logout and reload. IsAuthenticated is only ever set from a
// successful server response.
//
// Operations are neither queued nor de-duplicated: when two requests race,
// the one that resolves last wins. Each state change is applied under a lock,
// so State never returns a partially applied update.
type SessionStore struct {
	client   client.Client
	notifier notify.Notifier
	log      logging.Logger

	mu         sync.RWMutex
	state      SessionState
	translator *messages.Translator
	listeners  map[int]func(SessionState)
	nextID     int
}

// NewSessionStore builds a store in the initial (logged-out) state.
func NewSessionStore(c client.Client, n notify.Notifier, tr *messages.Translator, log logging.Logger) *SessionStore {
	if n == nil {
		n = notify.Nop{}
	}
	if tr == nil {
		tr = messages.NewTranslator("")
	}
	if log == nil {
		log = logging.Nop()
	}
	return &SessionStore{
		client:     c,
		notifier:   n,
		translator: tr,
		log:        log.With("component", "session"),
		listeners:  make(map[int]func(SessionState)),
	}
}

// State returns a snapshot of the session.
func (s *SessionStore) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Subscribe registers fn to be called with a snapshot after every change.
// The returned func unregisters it.
func (s *SessionStore) Subscribe(fn func(SessionState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// SetTranslator switches the language of error and notification messages.
func (s *SessionStore) SetTranslator(tr *messages.Translator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.translator = tr
}

// Login authenticates with the backend. On failure the parsed message is
// stored in Error and the error is returned so the caller can keep the form.
func (s *SessionStore) Login(ctx context.Context, creds models.Credentials) error {
	tr := s.tr()
	id := s.notifier.Loading(tr.T(messages.SigningIn))
	s.update(func(st *SessionState) {
		st.IsLoading = true
		st.Error = ""
	})

	user, err := s.client.Login(ctx, creds)
	if err != nil {
		msg := tr.FromError(err)
		s.update(func(st *SessionState) {
			*st = SessionState{Error: msg}
		})
		s.notifier.Error(id, msg)
		s.log.Warn(ctx, "login failed", "error", err)
		return fmt.Errorf("login: %w", err)
	}

	s.update(func(st *SessionState) {
		*st = SessionState{User: user, IsAuthenticated: true}
	})
	s.notifier.Success(id, tr.T(messages.SignedIn, user.Name()))
	s.log.Info(ctx, "logged in", "user_id", user.ID)
	return nil
}

// Register creates an account and then logs in with the same email and
// password to establish the session.
func (s *SessionStore) Register(ctx context.Context, req models.RegisterRequest) error {
	tr := s.tr()
	id := s.notifier.Loading(tr.T(messages.CreatingAccount))
	s.update(func(st *SessionState) {
		st.IsLoading = true
		st.Error = ""
	})

	if _, err := s.client.Register(ctx, req); err != nil {
		msg := tr.FromError(err)
		s.update(func(st *SessionState) {
			*st = SessionState{Error: msg}
		})
		s.notifier.Error(id, msg)
		s.log.Warn(ctx, "registration failed", "error", err)
		return fmt.Errorf("register: %w", err)
	}

	s.notifier.Success(id, tr.T(messages.AccountCreated))
	s.log.Info(ctx, "registered", "email", req.Email)

	return s.Login(ctx, models.Credentials{Email: req.Email, Password: req.Password})
}

// Logout asks the server to end the session. A server failure is logged
// and does not prevent the local reset.
func (s *SessionStore) Logout(ctx context.Context) {
	s.SetLoading(true)

	if err := s.client.Logout(ctx); err != nil {
		s.log.Warn(ctx, "server logout failed", "error", err)
	}

	s.update(func(st *SessionState) {
		*st = SessionState{}
	})
	s.notifier.Success(0, s.tr().T(messages.SignedOut))
}

// LoadUser rebuilds the session from GET /auth/me. Any failure, including the
// expected 401 of a logged-out visitor, silently resets to the initial state.
func (s *SessionStore) LoadUser(ctx context.Context) {
	s.SetLoading(true)

	user, err := s.client.Me(ctx)
	if err != nil {
		s.update(func(st *SessionState) {
			*st = SessionState{}
		})
		if errors.Is(err, client.ErrUnauthorized) {
			s.log.Debug(ctx, "no active session")
		} else {
			s.log.Warn(ctx, "session reload failed", "error", err)
		}
		return
	}

	s.update(func(st *SessionState) {
		*st = SessionState{User: user, IsAuthenticated: true}
	})
}

func (s *SessionStore) ClearError() {
	s.update(func(st *SessionState) {
		st.Error = ""
	})
}

func (s *SessionStore) SetLoading(loading bool) {
	s.update(func(st *SessionState) {
		st.IsLoading = loading
	})
}

func (s *SessionStore) tr() *messages.Translator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.translator
}

// update applies fn under the lock and notifies listeners with the result.
func (s *SessionStore) update(fn func(st *SessionState)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.snapshot()
	listeners := make([]func(SessionState), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

// snapshot copies the state; the caller must hold the lock.
func (s *SessionStore) snapshot() SessionState {
	snap := s.state
	if snap.User != nil {
		u := *snap.User
		snap.User = &u
	}
	return snap
}
