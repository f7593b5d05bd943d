package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/nexo/internal/client/models"
)

// Client is the contract of the NEXO backend used by the client runtime.
type Client interface {
	Close() error
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	Ping(ctx context.Context) error
	OnboardingStatus(ctx context.Context) (*models.OnboardingStatus, error)
	CreateOnboardingProfile(ctx context.Context, p models.OnboardingProfile) error
	UpdateOnboardingProfile(ctx context.Context, p models.OnboardingProfile) error
}

// CookieStore exposes the cookies the client sends to the backend.
type CookieStore interface {
	SetCookie(c *http.Cookie)
	Cookie(name string) (*http.Cookie, bool)
}
