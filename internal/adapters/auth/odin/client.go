package odin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-sync/internal/platform/httpclient"
	"pet-sync/internal/ports/auth"
)

var (
	ErrOdinNotConfigured = errors.New("odin client not configured")
	ErrOdinUnauthorized  = errors.New("odin unauthorized")
	ErrOdinUpstream      = errors.New("odin upstream error")
)

const (
	verifyPath       = "/v1/tokens/verify"
	defaultKeyHeader = "X-Api-Key"
	defaultTimeout   = 5 * time.Second
)

// Config del cliente Odin (IAM que verifica los tokens de sesión).
type Config struct {
	BaseURL      string
	APIKey       string
	APIKeyHeader string // default X-Api-Key

	Timeout   time.Duration
	Transport http.RoundTripper // tests
}

// Client habla con Odin; la API key va en cada request.
type Client struct {
	http    *httpclient.Client
	service http.Header
}

func NewClient(cfg Config) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc, err := httpclient.New(httpclient.Config{
		BaseURL:   strings.TrimSpace(cfg.BaseURL),
		Timeout:   timeout,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("odin: %w", err)
	}

	service := http.Header{}
	if key := strings.TrimSpace(cfg.APIKey); key != "" {
		header := strings.TrimSpace(cfg.APIKeyHeader)
		if header == "" {
			header = defaultKeyHeader
		}
		service.Set(header, key)
	}

	return &Client{http: hc, service: service}, nil
}

// IsConfigured: hace falta URL y API key.
func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && len(c.service) > 0
}

type tokenInfo struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	TenantID string `json:"tenant_id"`
}

func (t tokenInfo) claims(token string) (auth.Claims, error) {
	uid := strings.TrimSpace(t.UserID)
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrOdinUpstream)
	}
	return auth.Claims{
		UserID:   uid,
		Email:    strings.TrimSpace(t.Email),
		TenantID: strings.TrimSpace(t.TenantID),
		Token:    token,
	}, nil
}

// VerifyToken pide a Odin las claims de un bearer token.
// 401/403 => ErrOdinUnauthorized; cualquier otro fallo => ErrOdinUpstream.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrOdinNotConfigured
	}
	if token = strings.TrimSpace(token); token == "" {
		return auth.Claims{}, ErrOdinUnauthorized
	}

	h := c.service.Clone()
	h.Set("Authorization", "Bearer "+token)

	var info tokenInfo
	err := c.http.DoJSON(ctx, http.MethodPost, verifyPath, h, map[string]string{"token": token}, &info)
	switch code := httpclient.StatusCode(err); {
	case err == nil:
		return info.claims(token)
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return auth.Claims{}, ErrOdinUnauthorized
	default:
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrOdinUpstream, err)
	}
}
