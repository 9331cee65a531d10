package odin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-sync/internal/ports/auth"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var ErrTokenEmpty = errors.New("token is empty")

const defaultCacheSize = 1024

// Verifier implementa auth.AuthVerifier sobre Odin. Una sesión de vista hace
// varios requests por segundo con el mismo token; los tokens válidos quedan
// en cache hasta CacheTTL.
type Verifier struct {
	client *Client
	cache  *expirable.LRU[string, auth.Claims]
}

type VerifierOptions struct {
	CacheSize int
	CacheTTL  time.Duration // <= 0 => sin cache
}

func NewVerifier(client *Client, opts VerifierOptions) *Verifier {
	v := &Verifier{client: client}
	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = defaultCacheSize
		}
		v.cache = expirable.NewLRU[string, auth.Claims](size, nil, opts.CacheTTL)
	}
	return v
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrOdinNotConfigured
	}
	if token = strings.TrimSpace(token); token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	if v.cache != nil {
		if c, ok := v.cache.Get(token); ok {
			return c, nil
		}
	}

	claims, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("odin verify failed: %w", err)
	}
	if v.cache != nil {
		v.cache.Add(token, claims)
	}
	return claims, nil
}
