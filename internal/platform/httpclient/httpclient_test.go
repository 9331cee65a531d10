package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestDoJSON_SendsBodyAndHeaders(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/graphql" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing auth header")
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing content type")
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["q"]})
	}))
	defer ts.Close()

	c, err := New(Config{BaseURL: ts.URL + "/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer tok")

	var out struct {
		Echo string `json:"echo"`
	}
	if err := c.DoJSON(context.Background(), http.MethodPost, "graphql", h, map[string]string{"q": "hi"}, &out); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if out.Echo != "hi" {
		t.Fatalf("expected echo hi, got %q", out.Echo)
	}
}

func TestDoJSON_PropagatesRequestID(t *testing.T) {
	got := make(chan string, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get(chimw.RequestIDHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c, _ := New(Config{BaseURL: ts.URL})
	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "req-42")
	if err := c.DoJSON(ctx, http.MethodGet, "/breeds", nil, nil, nil); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if id := <-got; id != "req-42" {
		t.Fatalf("expected request id forwarded, got %q", id)
	}
}

func TestDoJSON_Non2xx_ReturnsHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, _ := New(Config{})
	err := c.DoJSON(context.Background(), http.MethodGet, ts.URL+"/breeds", nil, nil, nil)
	if StatusCode(err) != http.StatusBadGateway {
		t.Fatalf("expected 502 HTTPError, got %v", err)
	}
}

func TestDoJSON_RelativeWithoutBaseURL(t *testing.T) {
	c, _ := New(Config{})
	err := c.DoJSON(context.Background(), http.MethodGet, "/breeds", nil, nil, nil)
	if !errors.Is(err, ErrNeedBaseURL) {
		t.Fatalf("expected ErrNeedBaseURL, got %v", err)
	}

	var nilClient *Client
	if err := nilClient.DoJSON(context.Background(), http.MethodGet, "/x", nil, nil, nil); !errors.Is(err, ErrNilClient) {
		t.Fatalf("expected ErrNilClient, got %v", err)
	}
}

func TestNew_InvalidBaseURL(t *testing.T) {
	if _, err := New(Config{BaseURL: "::not a url"}); err == nil {
		t.Fatalf("expected error")
	}
}
