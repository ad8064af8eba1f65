package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type staticCreds struct {
	token string
	err   error
}

func (s staticCreds) Token(ctx context.Context) (string, error) {
	return s.token, s.err
}

func TestClient_Do_Success(t *testing.T) {
	// Mock server
	var gotAuth, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{"place_id":1,"name":"Osam Hill"}`))
	}))
	defer server.Close()

	c, err := NewClient(Config{BaseURL: server.URL}, staticCreds{token: "tok123"}, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	payload, err := c.Do(context.Background(), http.MethodGet, "/places/1", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Payload is returned verbatim
	if string(payload) != `{"place_id":1,"name":"Osam Hill"}` {
		t.Errorf("payload reshaped: %s", payload)
	}
	if gotAuth != "Bearer tok123" {
		t.Errorf("got Authorization %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("missing X-Request-ID header")
	}
}

func TestClient_Do_ErrorIsClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Place not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL}, nil, nil)

	_, err := c.Do(context.Background(), http.MethodGet, "/places/999", nil, nil)
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if ae.StatusCode != 404 {
		t.Errorf("got StatusCode %d, want 404", ae.StatusCode)
	}
	if ae.Message != "Place not found" {
		t.Errorf("got message %q", ae.Message)
	}
}

func TestClient_Do_NetworkErrorIsClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	c, _ := NewClient(Config{BaseURL: server.URL}, nil, nil)

	_, err := c.Do(context.Background(), http.MethodGet, "/places", nil, nil)
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if ae.StatusCode != 0 {
		t.Errorf("got StatusCode %d, want 0 for network failure", ae.StatusCode)
	}
}

func TestClient_Do_TimeoutSynthesizes408(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL, Timeout: 20 * time.Millisecond}, nil, nil)

	_, err := c.Do(context.Background(), http.MethodGet, "/slow", nil, nil)
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if ae.StatusCode != 408 {
		t.Errorf("got StatusCode %d, want 408", ae.StatusCode)
	}
}

func TestClient_Do_CredentialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request dispatched despite credential failure")
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL}, staticCreds{err: errors.New("keychain locked")}, nil)

	_, err := c.Do(context.Background(), http.MethodGet, "/places", nil, nil)
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if ae.StatusCode != 401 {
		t.Errorf("got StatusCode %d, want 401", ae.StatusCode)
	}
}

func TestClient_Do_LoadingBalancedOnEveryPath(t *testing.T) {
	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer okServer.Close()
	failServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}))
	defer failServer.Close()

	l := NewLoadingTracker()
	var mu sync.Mutex
	starts := 0
	l.Notify(func(loading bool) {
		if loading {
			mu.Lock()
			starts++
			mu.Unlock()
		}
	})

	// Success path
	okClient, _ := NewClient(Config{BaseURL: okServer.URL}, nil, l)
	if _, err := okClient.Do(context.Background(), http.MethodGet, "/places", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Failure path
	failClient, _ := NewClient(Config{BaseURL: failServer.URL}, nil, l)
	_, _ = failClient.Do(context.Background(), http.MethodGet, "/places", nil, nil)
	// Failure before dispatch
	badCreds, _ := NewClient(Config{BaseURL: okServer.URL}, staticCreds{err: errors.New("no token")}, l)
	_, _ = badCreds.Do(context.Background(), http.MethodGet, "/places", nil, nil)

	if l.Loading() {
		t.Error("loading still true; a Stop was leaked")
	}
	mu.Lock()
	defer mu.Unlock()
	if starts != 3 {
		t.Errorf("got %d start transitions, want 3", starts)
	}
}

func TestClient_Do_Untracked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	l := NewLoadingTracker()
	tracked := false
	l.Notify(func(bool) { tracked = true })

	c, _ := NewClient(Config{BaseURL: server.URL}, nil, l)
	if _, err := c.Do(context.Background(), http.MethodGet, "/health", nil, &CallOptions{Untracked: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tracked {
		t.Error("untracked call touched the loading tracker")
	}
}

func TestGet_DecodesPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("missing query parameter, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`[{"name":"a"},{"name":"b"}]`))
	}))
	defer server.Close()

	c, _ := NewClient(Config{BaseURL: server.URL}, nil, nil)

	type item struct {
		Name string `json:"name"`
	}
	out, err := Get[[]item](context.Background(), c, "/places", &CallOptions{
		Query: map[string][]string{"limit": {"5"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0].Name != "a" {
		t.Errorf("got %+v", out)
	}
}
