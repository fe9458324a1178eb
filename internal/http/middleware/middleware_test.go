package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerStatus(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		status  int
		level   zapcore.Level
	}{
		{"no write", func(w http.ResponseWriter, r *http.Request) {}, http.StatusOK, zapcore.InfoLevel},
		{"body only", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) }, http.StatusOK, zapcore.InfoLevel},
		{"not found", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNotFound) }, http.StatusNotFound, zapcore.InfoLevel},
		{"server error", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) }, http.StatusBadGateway, zapcore.WarnLevel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			h := chimw.RequestID(Logger(zap.New(core))(tc.handler))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events", nil))

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("entries = %d, want 1", len(entries))
			}
			e := entries[0]
			if e.Level != tc.level {
				t.Errorf("level = %v, want %v", e.Level, tc.level)
			}
			fields := e.ContextMap()
			if got := fields["status"]; got != int64(tc.status) {
				t.Errorf("status = %v, want %d", got, tc.status)
			}
			if fields["path"] != "/api/events" || fields["method"] != http.MethodGet {
				t.Errorf("fields = %v", fields)
			}
			if id, _ := fields["request_id"].(string); id == "" {
				t.Error("request_id missing")
			}
		})
	}
}

func TestCORS(t *testing.T) {
	h := CORS([]string{"https://cal.example"}, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="x.ics"`)
	}))

	preflight := httptest.NewRequest(http.MethodOptions, "/api/events/1", nil)
	preflight.Header.Set("Origin", "https://cal.example")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, preflight)
	if got := rec.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(got, http.MethodPut) {
		t.Errorf("PUT preflight: Allow-Methods = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://cal.example" {
		t.Errorf("Allow-Origin = %q", got)
	}

	patch := httptest.NewRequest(http.MethodOptions, "/api/events/1", nil)
	patch.Header.Set("Origin", "https://cal.example")
	patch.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, patch)
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "" {
		t.Errorf("PATCH preflight allowed: %q", got)
	}

	get := httptest.NewRequest(http.MethodGet, "/api/events/export", nil)
	get.Header.Set("Origin", "https://cal.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, get)
	if got := rec.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "Content-Disposition") {
		t.Errorf("Expose-Headers = %q", got)
	}

	other := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	other.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}
