package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/nexo/internal/client/models"
)

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	mu sync.Mutex

	LoginUser *models.User
	LoginErr  error

	RegisterResp *models.AuthResponse
	RegisterErr  error

	LogoutErr error

	MeUser *models.User
	MeErr  error

	PingErr error

	StatusResp *models.OnboardingStatus
	StatusErr  error
	CreateErr  error
	UpdateErr  error

	// recorded calls
	Calls        []string
	LastLogin    models.Credentials
	LastRegister models.RegisterRequest
	LastProfile  models.OnboardingProfile
	LoginHook    func()
}

func (f *fakeClient) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	f.record("login")
	f.LastLogin = creds
	if f.LoginHook != nil {
		f.LoginHook()
	}
	return f.LoginUser, f.LoginErr
}

func (f *fakeClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	f.record("register")
	f.LastRegister = req
	return f.RegisterResp, f.RegisterErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.record("logout")
	return f.LogoutErr
}

func (f *fakeClient) Me(ctx context.Context) (*models.User, error) {
	f.record("me")
	return f.MeUser, f.MeErr
}

func (f *fakeClient) Ping(ctx context.Context) error {
	f.record("ping")
	return f.PingErr
}

func (f *fakeClient) OnboardingStatus(ctx context.Context) (*models.OnboardingStatus, error) {
	f.record("onboarding_status")
	return f.StatusResp, f.StatusErr
}

func (f *fakeClient) CreateOnboardingProfile(ctx context.Context, p models.OnboardingProfile) error {
	f.record("onboarding_create")
	f.LastProfile = p
	return f.CreateErr
}

func (f *fakeClient) UpdateOnboardingProfile(ctx context.Context, p models.OnboardingProfile) error {
	f.record("onboarding_update")
	f.LastProfile = p
	return f.UpdateErr
}
