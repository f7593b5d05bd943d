package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/nexo/internal/client/models"
)

const maxErrorBody = 64 << 10

// HTTPClient talks JSON to the NEXO REST API. The server keeps the session
// in a cookie, so the client owns a cookie jar scoped to the base URL.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	jar     http.CookieJar
}

func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api url %q: scheme must be http or https", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: u,
		jar:     jar,
		http:    &http.Client{Timeout: timeout, Jar: jar},
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("login: %w: no user", ErrMalformedResponse)
	}
	return resp.User, nil
}

func (c *HTTPClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, fmt.Errorf("me: %w: no user", ErrMalformedResponse)
	}
	return resp.User, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *HTTPClient) OnboardingStatus(ctx context.Context) (*models.OnboardingStatus, error) {
	var resp models.OnboardingStatus
	if err := c.do(ctx, http.MethodGet, "/onboarding/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) CreateOnboardingProfile(ctx context.Context, p models.OnboardingProfile) error {
	return c.do(ctx, http.MethodPost, "/onboarding/profile", p, nil)
}

func (c *HTTPClient) UpdateOnboardingProfile(ctx context.Context, p models.OnboardingProfile) error {
	return c.do(ctx, http.MethodPut, "/onboarding/profile", p, nil)
}

// SetCookie stores a cookie for the API origin. Path defaults to "/".
func (c *HTTPClient) SetCookie(ck *http.Cookie) {
	if ck.Path == "" {
		ck.Path = "/"
	}
	c.jar.SetCookies(c.baseURL, []*http.Cookie{ck})
}

// Cookie returns the named cookie the jar would send to the API.
func (c *HTTPClient) Cookie(name string) (*http.Cookie, bool) {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == name {
			return ck, true
		}
	}
	return nil, false
}

func (c *HTTPClient) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Detail: parseDetail(raw)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: %w: %v", method, path, ErrMalformedResponse, err)
	}
	return nil
}

func mapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// parseDetail extracts a human-readable message from the error bodies the
// backend produces: {"detail": "..."}, {"detail": [{"msg": "..."}]},
// {"message": "..."} or {"error": "..."}. Anything else, such as a proxy's
// HTML error page, yields "".
func parseDetail(raw []byte) string {
	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

var (
	_ Client      = (*HTTPClient)(nil)
	_ CookieStore = (*HTTPClient)(nil)
)
