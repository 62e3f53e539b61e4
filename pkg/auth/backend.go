package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Backend is the external auth collaborator. Implementations talk to
// the storefront's identity service; the session store only records
// their results.
type Backend interface {
	// Login exchanges credentials for a grant.
	Login(ctx context.Context, creds Credentials) (Grant, error)

	// Register creates an account and returns a grant for it.
	Register(ctx context.Context, reg Registration) (Grant, error)

	// CurrentUser fetches the user the tokens belong to. Invalid
	// tokens fail the call; the store treats that as a failed refresh.
	CurrentUser(ctx context.Context, tokens Tokens) (User, error)

	// RequestVerificationCode asks the backend to send a code to
	// target (email address or phone number).
	RequestVerificationCode(ctx context.Context, target string) error

	// VerifyCode checks a previously requested code.
	VerifyCode(ctx context.Context, target, code string) error

	// ResetPassword sets a new password after code verification.
	ResetPassword(ctx context.Context, target, code, newPassword string) error
}

// HTTPBackend talks JSON over HTTP to the identity service.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
}

// HTTPBackendOption configures HTTPBackend behavior.
type HTTPBackendOption func(*httpBackendConfig)

type httpBackendConfig struct {
	client *http.Client
}

// WithHTTPClient sets the HTTP client. Default: a client with a
// 15 second timeout.
func WithHTTPClient(client *http.Client) HTTPBackendOption {
	return func(c *httpBackendConfig) {
		c.client = client
	}
}

// NewHTTPBackend creates a backend client for the given base URL.
func NewHTTPBackend(baseURL string, opts ...HTTPBackendOption) *HTTPBackend {
	cfg := &httpBackendConfig{
		client: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &HTTPBackend{
		baseURL: baseURL,
		client:  cfg.client,
	}
}

// apiError is the error payload the identity service returns.
type apiError struct {
	Message string `json:"message"`
}

// Login implements Backend.
func (b *HTTPBackend) Login(ctx context.Context, creds Credentials) (Grant, error) {
	var grant Grant
	err := b.post(ctx, "/auth/login", creds, "", &grant)
	return grant, err
}

// Register implements Backend.
func (b *HTTPBackend) Register(ctx context.Context, reg Registration) (Grant, error) {
	var grant Grant
	err := b.post(ctx, "/auth/register", reg, "", &grant)
	return grant, err
}

// CurrentUser implements Backend.
func (b *HTTPBackend) CurrentUser(ctx context.Context, tokens Tokens) (User, error) {
	var user User
	err := b.get(ctx, "/auth/me", tokens.Access, &user)
	return user, err
}

// RequestVerificationCode implements Backend.
func (b *HTTPBackend) RequestVerificationCode(ctx context.Context, target string) error {
	body := map[string]string{"target": target}
	return b.post(ctx, "/auth/verification/request", body, "", nil)
}

// VerifyCode implements Backend.
func (b *HTTPBackend) VerifyCode(ctx context.Context, target, code string) error {
	body := map[string]string{"target": target, "code": code}
	return b.post(ctx, "/auth/verification/confirm", body, "", nil)
}

// ResetPassword implements Backend.
func (b *HTTPBackend) ResetPassword(ctx context.Context, target, code, newPassword string) error {
	body := map[string]string{"target": target, "code": code, "password": newPassword}
	return b.post(ctx, "/auth/password/reset", body, "", nil)
}

func (b *HTTPBackend) post(ctx context.Context, path string, body any, bearer string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("auth: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("auth: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return b.do(req, out)
}

func (b *HTTPBackend) get(ctx context.Context, path, bearer string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("auth: build request: %w", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	return b.do(req, out)
}

func (b *HTTPBackend) do(req *http.Request, out any) error {
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("auth: %s", apiErr.Message)
		}
		return fmt.Errorf("auth: %s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("auth: decode response: %w", err)
	}
	return nil
}
