package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(&http.Client{Timeout: 5 * time.Second}, zerolog.Nop())
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestDoSucceedsWithoutRetry(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`ok`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	body, err := c.Do(context.Background(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if string(body) != "ok" {
		t.Fatalf("body = %q, want %q", body, "ok")
	}
	if hits != 1 {
		t.Fatalf("server hit %d times, want 1", hits)
	}
}

func TestDoRetriesThenSucceeds(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits <= 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`late`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	body, err := c.Do(context.Background(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("Do returned error after recoverable failures: %v", err)
	}
	if string(body) != "late" {
		t.Fatalf("body = %q, want %q", body, "late")
	}
	if hits != 4 {
		t.Fatalf("server hit %d times, want 4", hits)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"overloaded"}`))
	}))
	defer srv.Close()

	c := newTestClient(t)
	_, err := c.Do(context.Background(), http.MethodGet, srv.URL, nil)
	if err == nil {
		t.Fatal("Do returned nil error, want status error")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", statusErr.StatusCode)
	}
	if string(statusErr.Body) != `{"error":"overloaded"}` {
		t.Fatalf("Body = %q, want the upstream error payload", statusErr.Body)
	}
	if hits != 4 {
		t.Fatalf("server hit %d times, want 4 (1 attempt + 3 retries)", hits)
	}
}

func TestDoStopsWhenContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(&http.Client{Timeout: 5 * time.Second}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	c.sleep = func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := c.Do(ctx, http.MethodGet, srv.URL, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}

func TestPostJSONRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if key := r.Header.Get("apikey"); key != "0000000000" {
			t.Errorf("apikey header = %q, want anonymous key", key)
		}
		var in struct {
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if in.Prompt != "a cat" {
			t.Errorf("prompt = %q, want %q", in.Prompt, "a cat")
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "job-1"})
	}))
	defer srv.Close()

	c := newTestClient(t)
	c.Header = http.Header{"apikey": {"0000000000"}}

	var out struct {
		ID string `json:"id"`
	}
	payload := map[string]string{"prompt": "a cat"}
	if err := c.PostJSON(context.Background(), srv.URL, payload, &out); err != nil {
		t.Fatalf("PostJSON returned error: %v", err)
	}
	if out.ID != "job-1" {
		t.Fatalf("id = %q, want %q", out.ID, "job-1")
	}
}
