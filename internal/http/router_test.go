package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/noteshub/noteshub/internal/config"
	"github.com/noteshub/noteshub/internal/http/handlers"
	"github.com/noteshub/noteshub/internal/observability"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()

	log := slog.New(slog.NewJSONHandler(io.Discard, nil))

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	cfg := config.Config{
		Env:          "dev",
		MaxBodyBytes: 1 << 20,
		RateLimit:    0, // off for tests
		RateWindow:   time.Minute,
	}

	return NewRouter(log, nil, prom, reg, cfg, handlers.VersionInfo{Version: "test"})
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var rd io.Reader

	if body != "" {
		rd = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, rd)

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

// Exercises the whole chain against the in-memory store: create a user, give
// it a note, search, patch, and cascade-delete.
func TestRouterNoteLifecycle(t *testing.T) {
	r := testRouter(t)

	// user first, so the note can reference it
	w := doJSON(r, nethttp.MethodPost, "/users", `{"email": "owner@example.com"}`)

	if w.Code != nethttp.StatusCreated {
		t.Fatalf("create user: %d %s", w.Code, w.Body.String())
	}

	var owner struct {
		ID int64 `json:"id"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &owner); err != nil {
		t.Fatal(err)
	}

	w = doJSON(r, nethttp.MethodPost, "/notes", `{"title": "Hello", "body": "say hello", "user_id": 1}`)

	if w.Code != nethttp.StatusCreated {
		t.Fatalf("create note: %d %s", w.Code, w.Body.String())
	}

	var created struct {
		ID     int64  `json:"id"`
		Title  string `json:"title"`
		UserID *int64 `json:"user_id"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}

	if created.Title != "Hello" || created.UserID == nil || *created.UserID != owner.ID {
		t.Fatalf("unexpected note: %+v", created)
	}

	// another note that should not match the search
	w = doJSON(r, nethttp.MethodPost, "/notes", `{"title": "bye"}`)

	if w.Code != nethttp.StatusCreated {
		t.Fatalf("create second note: %d", w.Code)
	}

	w = doJSON(r, nethttp.MethodGet, "/notes?q=HELLO", "")

	if w.Code != nethttp.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}

	var listed struct {
		Items []json.RawMessage `json:"items"`
		Total int               `json:"total"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil {
		t.Fatal(err)
	}

	if listed.Total != 1 || len(listed.Items) != 1 {
		t.Fatalf("search found %d/%d items", len(listed.Items), listed.Total)
	}

	// PATCH keeps the title
	w = doJSON(r, nethttp.MethodPatch, "/notes/1", `{"body": "updated"}`)

	if w.Code != nethttp.StatusOK {
		t.Fatalf("patch: %d %s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), `"title":"Hello"`) {
		t.Errorf("patch lost the title: %s", w.Body.String())
	}

	// deleting the owner cascades to its note
	w = doJSON(r, nethttp.MethodDelete, "/users/1", "")

	if w.Code != nethttp.StatusNoContent {
		t.Fatalf("delete user: %d", w.Code)
	}

	w = doJSON(r, nethttp.MethodGet, "/notes/1", "")

	if w.Code != nethttp.StatusNotFound {
		t.Fatalf("note survived the cascade: %d", w.Code)
	}

	// the unowned note is still there
	w = doJSON(r, nethttp.MethodGet, "/notes/2", "")

	if w.Code != nethttp.StatusOK {
		t.Fatalf("unowned note missing: %d", w.Code)
	}
}

func TestRouterProbesAndMetrics(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{"/", "/health", "/healthz", "/readyz", "/version", "/metrics"} {
		w := doJSON(r, nethttp.MethodGet, path, "")

		if w.Code != nethttp.StatusOK {
			t.Errorf("%s: got status %d", path, w.Code)
		}
	}
}

func TestRouterRejectsNonJSONWrites(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(nethttp.MethodPost, "/notes", bytes.NewBufferString("title=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != nethttp.StatusUnsupportedMediaType {
		t.Fatalf("got status %d, want 415", w.Code)
	}
}

func TestRouterRejectsOversizedBody(t *testing.T) {
	r := testRouter(t)

	// the test config caps bodies at 1 MiB
	huge := `{"title": "big", "body": "` + strings.Repeat("x", 2<<20) + `"}`

	w := doJSON(r, nethttp.MethodPost, "/notes", huge)

	if w.Code != nethttp.StatusRequestEntityTooLarge {
		t.Fatalf("got status %d, want 413, body=%s", w.Code, w.Body.String())
	}

	var body struct {
		Error string `json:"error"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}

	if body.Error != "payload_too_large" {
		t.Errorf("error kind = %q", body.Error)
	}
}

func TestRouterErrorEnvelope(t *testing.T) {
	r := testRouter(t)

	w := doJSON(r, nethttp.MethodPost, "/notes", `{"title": ""}`)

	if w.Code != nethttp.StatusUnprocessableEntity {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var body struct {
		Error     string `json:"error"`
		Message   string `json:"message"`
		RequestID string `json:"requestId"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}

	if body.Error != "validation_error" {
		t.Errorf("error kind = %q", body.Error)
	}

	if body.RequestID == "" {
		t.Error("missing requestId")
	}

	if w.Header().Get("X-Request-Id") == "" {
		t.Error("missing X-Request-Id header")
	}
}
