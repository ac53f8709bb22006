package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/auditor/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("config.LoadFrom() error = %v", err)
	}
	cfg.Logging.Level = "error"
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	return cfg
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(testConfig(t))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func TestRouter(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.http.http.Handler

	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		contains string
	}{
		{"root redirects to app", "GET", "/", http.StatusFound, ""},
		{"healthz", "GET", "/healthz", http.StatusOK, `"ok"`},
		{"readyz before startup", "GET", "/readyz", http.StatusServiceUnavailable, "not ready"},
		{"app page", "GET", "/app/", http.StatusOK, "Universal Sustainability Auditor"},
		{"create session", "POST", "/api/sessions", http.StatusCreated, `"id"`},
		{"unknown api route", "GET", "/api/nothing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.status)
			}
			if tt.contains != "" && !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body missing %q: %s", tt.contains, rec.Body.String())
			}
		})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if loc := rec.Header().Get("Location"); loc != "/app/" {
		t.Errorf("redirect location: got %q, want /app/", loc)
	}
}

func TestRunServesUntilCancelled(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, 5*time.Second)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for !srv.infra.Lifecycle.Ready() {
		if time.Now().After(deadline) {
			t.Fatal("server never became ready")
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec := httptest.NewRecorder()
	srv.http.http.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/readyz", nil))

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode readyz: %v", err)
	}
	if rec.Code != http.StatusOK || body["status"] != "ready" {
		t.Errorf("readyz: got %d %v", rec.Code, body)
	}

	srv.infra.Sessions.Create()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	if n := srv.infra.Sessions.Count(); n != 0 {
		t.Errorf("sessions after shutdown: got %d, want 0", n)
	}
}
