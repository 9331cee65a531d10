package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pet-sync/internal/router"
	"pet-sync/internal/session"
)

type snapshot struct {
	SessionID string `json:"session_id"`
	Loading   bool   `json:"loading"`
	Breeds    []string
	Pets      []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Age       int    `json:"age"`
		Status    string `json:"status"`
		AlbumPath string `json:"album_path"`
	} `json:"pets"`
	Failures []struct {
		Kind string `json:"kind"`
	} `json:"failures"`
}

func newStack(t *testing.T) (backendURL, apiURL string) {
	t.Helper()

	backend := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	t.Cleanup(backend.Close)

	factory, err := router.BackendCollaborators(router.BackendOptions{
		BaseURL: backend.URL,
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("BackendCollaborators: %v", err)
	}

	mgr := session.NewManager(session.Config{}, factory, nil)
	t.Cleanup(mgr.Shutdown)

	api := httptest.NewServer(router.NewSessionRouter(router.SessionOptions{Manager: mgr}))
	t.Cleanup(api.Close)

	return backend.URL, api.URL
}

func TestHTTP_EndToEnd_CreateThroughSession(t *testing.T) {
	_, apiURL := newStack(t)
	ownerID := "owner-1"

	// 1) Owner abre sesión; el backend arranca vacío pero con razas
	sessionID := openSession(t, apiURL, ownerID)
	snap := waitSnapshot(t, apiURL, sessionID, ownerID, func(s snapshot) bool { return !s.Loading })
	if len(snap.Breeds) == 0 || len(snap.Pets) != 0 {
		t.Fatalf("unexpected initial snapshot %#v", snap)
	}

	// 2) Completa el draft
	{
		st, body := doReq(t, apiURL, "PATCH", "/sessions/"+sessionID+"/draft", ownerID, map[string]any{
			"name":  "Milo",
			"breed": "beagle",
			"age":   4,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update draft, got %d body=%s", st, string(body))
		}
	}

	// 3) Crea: 202 con el pet pendiente
	{
		st, body := doReq(t, apiURL, "POST", "/sessions/"+sessionID+"/pets", ownerID, nil)
		if st != http.StatusAccepted {
			t.Fatalf("expected 202 create pet, got %d body=%s", st, string(body))
		}
	}

	// 4) El write termina y el pet queda confirmado con id del backend
	snap = waitSnapshot(t, apiURL, sessionID, ownerID, func(s snapshot) bool {
		return len(s.Pets) == 1 && s.Pets[0].Status == "confirmed"
	})
	if snap.Pets[0].ID == "" || snap.Pets[0].AlbumPath != "private/owner-1/Milo/" {
		t.Fatalf("unexpected confirmed pet %#v", snap.Pets[0])
	}

	// 5) Una sesión nueva ve el pet desde el backend
	other := openSession(t, apiURL, ownerID)
	snap = waitSnapshot(t, apiURL, other, ownerID, func(s snapshot) bool { return !s.Loading })
	if len(snap.Pets) != 1 || snap.Pets[0].Name != "Milo" || snap.Pets[0].Age != 4 {
		t.Fatalf("expected Milo loaded from backend, got %#v", snap.Pets)
	}

	// 6) Otro usuario no ve la sesión ni los pets
	{
		st, _ := doReq(t, apiURL, "GET", "/sessions/"+sessionID, "intruder", nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for other user, got %d", st)
		}
	}
	intruderSession := openSession(t, apiURL, "intruder")
	snap = waitSnapshot(t, apiURL, intruderSession, "intruder", func(s snapshot) bool { return !s.Loading })
	if len(snap.Pets) != 0 {
		t.Fatalf("pets must be scoped to owner, got %#v", snap.Pets)
	}
}

func TestHTTP_Backend_RequiresClaims(t *testing.T) {
	backendURL, _ := newStack(t)

	if st, _ := doReq(t, backendURL, "GET", "/breeds", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", st)
	}

	st, body := doReq(t, backendURL, "GET", "/breeds", "owner-1", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 breeds, got %d", st)
	}
	var breeds []string
	if err := json.Unmarshal(body, &breeds); err != nil || len(breeds) == 0 {
		t.Fatalf("expected bare breed array, got %s", string(body))
	}

	if st, _ := doReq(t, backendURL, "GET", "/health", "", nil); st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
}

func TestHTTP_SessionAPI_HealthAndDocs(t *testing.T) {
	_, apiURL := newStack(t)

	if st, _ := doReq(t, apiURL, "GET", "/health", "", nil); st != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", st)
	}
	if st, _ := doReq(t, apiURL, "POST", "/sessions", "", nil); st != http.StatusUnauthorized {
		t.Fatalf("expected 401 open session without claims, got %d", st)
	}

	st, body := doReq(t, apiURL, "GET", "/swagger/doc.json", "", nil)
	if st != http.StatusOK || !bytes.Contains(body, []byte("/sessions/{sessionID}/pets")) {
		t.Fatalf("expected swagger doc, got %d body=%s", st, string(body))
	}
}

func TestBackendCollaborators_RequiresBaseURL(t *testing.T) {
	if _, err := router.BackendCollaborators(router.BackendOptions{}); err == nil {
		t.Fatalf("expected error without base url")
	}
}

func openSession(t *testing.T, baseURL, userID string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/sessions", userID, nil)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 open session, got %d body=%s", st, string(body))
	}

	var resp snapshot
	_ = json.Unmarshal(body, &resp)
	if resp.SessionID == "" {
		t.Fatalf("open session: missing id body=%s", string(body))
	}
	return resp.SessionID
}

func waitSnapshot(t *testing.T, baseURL, sessionID, userID string, cond func(snapshot) bool) snapshot {
	t.Helper()

	deadline := time.Now().Add(3 * time.Second)
	var last snapshot
	for time.Now().Before(deadline) {
		st, body := doReq(t, baseURL, "GET", "/sessions/"+sessionID, userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 snapshot, got %d body=%s", st, string(body))
		}
		last = snapshot{}
		if err := json.Unmarshal(body, &last); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		if cond(last) {
			return last
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("snapshot condition not met, last=%#v", last)
	return last
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
