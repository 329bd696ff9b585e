package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noteshub/noteshub/internal/http/handlers"
)

func TestHealthEndpoints(t *testing.T) {
	h := handlers.NewHealthHandler(nil)

	tests := []struct {
		name     string
		handler  gin.HandlerFunc
		wantBody map[string]any
	}{
		{name: "root", handler: h.Root, wantBody: map[string]any{"status": "OK"}},
		{name: "health", handler: h.Health, wantBody: map[string]any{"ok": true}},
		{name: "healthz", handler: h.Healthz, wantBody: map[string]any{"status": "ok"}},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(http.MethodGet, "/probe", tt.handler)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

			if w.Code != http.StatusOK {
				t.Fatalf("got status %d", w.Code)
			}

			var body map[string]any

			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("bad body: %v", err)
			}

			for k, v := range tt.wantBody {
				if body[k] != v {
					t.Errorf("body[%q] = %v, want %v", k, body[k], v)
				}
			}
		})
	}
}

func TestReadyz(t *testing.T) {
	tests := []struct {
		name           string
		ping           func() error
		wantStatusCode int
	}{
		{
			name:           "no_store_is_ready",
			ping:           nil,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "store_reachable",
			ping:           func() error { return nil },
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "store_down",
			ping:           func() error { return errors.New("connection refused") },
			wantStatusCode: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewHealthHandler(tt.ping)
			r := setupRouter(http.MethodGet, "/readyz", h.Readyz)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d", w.Code, tt.wantStatusCode)
			}
		})
	}
}

func TestVersionHandler(t *testing.T) {
	h := handlers.VersionHandler(handlers.VersionInfo{
		Version:   "1.2.3",
		Commit:    "abc123",
		BuildDate: "2026-08-30",
	})

	r := setupRouter(http.MethodGet, "/version", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/version", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}

	var body map[string]string

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}

	if body["version"] != "1.2.3" || body["commit"] != "abc123" || body["buildDate"] != "2026-08-30" {
		t.Errorf("unexpected payload: %v", body)
	}
}
