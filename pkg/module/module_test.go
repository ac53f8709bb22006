package module_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/JaimeStill/auditor/pkg/module"
)

func mustModule(t *testing.T, prefix string, h http.Handler) *module.Module {
	t.Helper()
	m, err := module.New(prefix, h)
	if err != nil {
		t.Fatalf("New(%q) error = %v", prefix, err)
	}
	return m
}

func TestNewPrefixValidation(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantErr bool
	}{
		{"api", "/api", false},
		{"app", "/app", false},
		{"empty", "", true},
		{"root", "/", true},
		{"no leading slash", "api", true},
		{"multi-level", "/api/v1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := module.New(tt.prefix, http.NewServeMux())
			if tt.wantErr {
				if !errors.Is(err, module.ErrInvalidPrefix) {
					t.Errorf("error = %v, want ErrInvalidPrefix", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m.Prefix() != tt.prefix {
				t.Errorf("prefix: got %s, want %s", m.Prefix(), tt.prefix)
			}
		})
	}
}

func TestServePrefixStripping(t *testing.T) {
	mux := http.NewServeMux()

	var receivedPath string
	mux.HandleFunc("GET /sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		receivedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	m := mustModule(t, "/api", mux)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/sessions/abc", nil)
	m.Serve(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if receivedPath != "/sessions/abc" {
		t.Errorf("inner path: got %s, want /sessions/abc", receivedPath)
	}
	if req.URL.Path != "/api/sessions/abc" {
		t.Errorf("original request mutated: %s", req.URL.Path)
	}
}

func TestModuleMiddlewareOrder(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	m := mustModule(t, "/api", mux)

	var order []string
	for _, name := range []string{"outer", "inner"} {
		m.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	rec := httptest.NewRecorder()
	m.Serve(rec, httptest.NewRequest("GET", "/api", nil))

	if !slices.Equal(order, []string{"outer", "inner"}) {
		t.Errorf("middleware order = %v", order)
	}
}

func TestRouterDispatch(t *testing.T) {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /sessions", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("api"))
	})

	appMux := http.NewServeMux()
	appMux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("app"))
	})

	router := module.NewRouter()
	if err := router.Mount(mustModule(t, "/api", apiMux)); err != nil {
		t.Fatal(err)
	}
	if err := router.Mount(mustModule(t, "/app", appMux)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		method   string
		path     string
		wantBody string
	}{
		{"api module", "POST", "/api/sessions", "api"},
		{"api trailing slash", "POST", "/api/sessions/", "api"},
		{"app module", "GET", "/app", "app"},
		{"app trailing slash", "GET", "/app/", "app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rec.Code)
			}
			if body := rec.Body.String(); body != tt.wantBody {
				t.Errorf("body: got %s, want %s", body, tt.wantBody)
			}
		})
	}

	if got := router.Prefixes(); !slices.Equal(got, []string{"/api", "/app"}) {
		t.Errorf("Prefixes() = %v", got)
	}
}

func TestRouterRejectsDuplicateMount(t *testing.T) {
	router := module.NewRouter()
	if err := router.Mount(mustModule(t, "/api", http.NewServeMux())); err != nil {
		t.Fatal(err)
	}
	if err := router.Mount(mustModule(t, "/api", http.NewServeMux())); err == nil {
		t.Error("expected error mounting a second module at /api")
	}
}

func TestRouterNativeFallback(t *testing.T) {
	router := module.NewRouter()
	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body != "ok" {
		t.Errorf("body: got %s, want ok", body)
	}
}
