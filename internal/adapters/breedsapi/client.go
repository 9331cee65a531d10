package breedsapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"pet-sync/internal/platform/httpclient"
	"pet-sync/internal/ports/collaborators"
)

const DefaultPath = "/breeds"

// Client es el colaborador REST: GET /breeds => ["labrador", ...].
type Client struct {
	http    *httpclient.Client
	path    string
	headers http.Header
}

var _ collaborators.BreedLister = (*Client)(nil)

func NewClient(hc *httpclient.Client, path string, headers http.Header) *Client {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	return &Client{http: hc, path: path, headers: headers.Clone()}
}

func (c *Client) ListBreeds(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.http.DoJSON(ctx, http.MethodGet, c.path, c.headers, nil, &out); err != nil {
		return nil, fmt.Errorf("list breeds: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
