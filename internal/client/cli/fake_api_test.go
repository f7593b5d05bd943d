package cli

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/nexo/internal/client/client"
	"github.com/dmitrijs2005/nexo/internal/client/config"
	"github.com/dmitrijs2005/nexo/internal/client/models"
	"github.com/dmitrijs2005/nexo/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeAPI implements apiClient without a network.
type fakeAPI struct {
	mu sync.Mutex

	user     *models.User
	loginErr error
	regErr   error
	meErr    error
	pingErr  error

	status    *models.OnboardingStatus
	createErr error

	lastLogin    models.Credentials
	lastRegister models.RegisterRequest
	lastProfile  models.OnboardingProfile
	calls        []string
	cookies      map[string]*http.Cookie
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{cookies: map[string]*http.Cookie{}, meErr: client.ErrUnauthorized}
}

func (f *fakeAPI) record(c string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeAPI) Close() error { return nil }

func (f *fakeAPI) Login(_ context.Context, creds models.Credentials) (*models.User, error) {
	f.record("login")
	f.lastLogin = creds
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.meErr = nil
	return f.user, nil
}

func (f *fakeAPI) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	f.record("register")
	f.lastRegister = req
	if f.regErr != nil {
		return nil, f.regErr
	}
	return &models.AuthResponse{User: f.user}, nil
}

func (f *fakeAPI) Logout(context.Context) error {
	f.record("logout")
	f.meErr = client.ErrUnauthorized
	return nil
}

func (f *fakeAPI) Me(context.Context) (*models.User, error) {
	f.record("me")
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.user, nil
}

func (f *fakeAPI) Ping(context.Context) error {
	f.record("ping")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

func (f *fakeAPI) OnboardingStatus(context.Context) (*models.OnboardingStatus, error) {
	f.record("onboarding_status")
	return f.status, nil
}

func (f *fakeAPI) CreateOnboardingProfile(_ context.Context, p models.OnboardingProfile) error {
	f.record("onboarding_create")
	f.lastProfile = p
	return f.createErr
}

func (f *fakeAPI) UpdateOnboardingProfile(_ context.Context, p models.OnboardingProfile) error {
	f.record("onboarding_update")
	f.lastProfile = p
	return nil
}

func (f *fakeAPI) SetCookie(c *http.Cookie) { f.cookies[c.Name] = c }

func (f *fakeAPI) Cookie(name string) (*http.Cookie, bool) {
	c, ok := f.cookies[name]
	return c, ok
}

// newTestApp builds an App over an in-memory database and api. input is
// what the user "types".
func newTestApp(t *testing.T, api *fakeAPI, input string) (*App, *bytes.Buffer) {
	t.Helper()
	return newTestAppWith(t, api, input, nil)
}

// newTestAppWith lets the caller adjust the defaults before the managers
// are built.
func newTestAppWith(t *testing.T, api *fakeAPI, input string, tweak func(*config.Config)) (*App, *bytes.Buffer) {
	t.Helper()

	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	if tweak != nil {
		tweak(cfg)
	}

	var out bytes.Buffer
	a := newApp(cfg, db, api, strings.NewReader(input), &out, logging.Nop())
	t.Cleanup(func() { _ = a.Close() })
	return a, &out
}

func testUser() *models.User {
	name := "Ana"
	return &models.User{ID: "u1", Email: "ana@nexo.chat", DisplayName: &name, Plan: "free"}
}
