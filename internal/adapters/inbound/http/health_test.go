package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/archon-research/stl/stl-lend/internal/testutil"
)

// mockHealthChecker is a test implementation of HealthChecker
type mockHealthChecker struct {
	ready   bool
	healthy bool
}

func (m *mockHealthChecker) IsReady() bool   { return m.ready }
func (m *mockHealthChecker) IsHealthy() bool { return m.healthy }

func serveProbe(t *testing.T, checker *mockHealthChecker, shuttingDown bool, path string) (int, map[string]any) {
	t.Helper()
	var flag atomic.Bool
	flag.Store(shuttingDown)

	mux := http.NewServeMux()
	NewProbes(checker, &flag, testutil.DiscardLogger()).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	return rec.Code, body
}

func TestProbes(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		ready        bool
		healthy      bool
		shuttingDown bool
		wantCode     int
		wantStatus   string
	}{
		{name: "ready", path: "/health/ready", ready: true, wantCode: http.StatusOK, wantStatus: "ready"},
		{name: "not ready", path: "/health/ready", ready: false, wantCode: http.StatusServiceUnavailable, wantStatus: "not_ready"},
		{name: "ready but shutting down", path: "/health/ready", ready: true, shuttingDown: true, wantCode: http.StatusServiceUnavailable, wantStatus: "shutting_down"},
		{name: "live", path: "/health/live", healthy: true, wantCode: http.StatusOK, wantStatus: "alive"},
		{name: "live while token source failing", path: "/health/live", ready: false, healthy: false, wantCode: http.StatusOK, wantStatus: "alive"},
		{name: "live but shutting down", path: "/health/live", healthy: true, shuttingDown: true, wantCode: http.StatusServiceUnavailable, wantStatus: "shutting_down"},
		{name: "health ok", path: "/health", ready: true, healthy: true, wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "health ok while not ready", path: "/health", ready: false, healthy: true, wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "health degraded", path: "/health", ready: true, healthy: false, wantCode: http.StatusServiceUnavailable, wantStatus: "degraded"},
		{name: "health shutting down", path: "/health", ready: true, healthy: true, shuttingDown: true, wantCode: http.StatusServiceUnavailable, wantStatus: "shutting_down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := serveProbe(t, &mockHealthChecker{ready: tt.ready, healthy: tt.healthy}, tt.shuttingDown, tt.path)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if body["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %s", body["status"], tt.wantStatus)
			}
		})
	}
}

func TestProbes_HealthDetail(t *testing.T) {
	_, body := serveProbe(t, &mockHealthChecker{ready: false, healthy: true}, false, "/health")
	if body["ready"] != false || body["healthy"] != true || body["shuttingDown"] != false {
		t.Errorf("body = %v", body)
	}
}

func TestProbes_NilFlag(t *testing.T) {
	mux := http.NewServeMux()
	NewProbes(&mockHealthChecker{ready: true}, nil, nil).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("code = %d, want 200", rec.Code)
	}
}
