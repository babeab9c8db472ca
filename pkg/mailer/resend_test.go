package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"upperroom/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Service: "test"})
}

func TestSendPostsPayload(t *testing.T) {
	var got sendRequest
	var auth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := NewResendClient("key-123", "Rota <noreply@example.org>", 5*time.Second, testLogger()).WithEndpoint(ts.URL)
	if err := c.Send(context.Background(), "jane@example.org", "Hello", "<p>Hi</p>"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if auth != "Bearer key-123" {
		t.Errorf("auth header = %q", auth)
	}
	if len(got.To) != 1 || got.To[0] != "jane@example.org" {
		t.Errorf("to = %v", got.To)
	}
	if got.Subject != "Hello" {
		t.Errorf("subject = %q", got.Subject)
	}
}

func TestSendErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	c := NewResendClient("key-123", "Rota <noreply@example.org>", 5*time.Second, testLogger()).WithEndpoint(ts.URL)
	if err := c.Send(context.Background(), "jane@example.org", "Hello", "x"); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestSendNoAPIKeyIsNoop(t *testing.T) {
	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer ts.Close()

	c := NewResendClient("", "Rota <noreply@example.org>", 5*time.Second, testLogger()).WithEndpoint(ts.URL)
	if err := c.Send(context.Background(), "jane@example.org", "Hello", "x"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if called {
		t.Error("send should be a no-op without an API key")
	}
}
