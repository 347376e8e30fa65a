package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWithRequestMetricsPassesThrough(t *testing.T) {
	handler := WithRequestMetrics(nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected status %d, got %d", http.StatusTeapot, rec.Code)
	}
	if rec.Body.String() != "short and stout" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestWithRequestMetricsDefaultStatus(t *testing.T) {
	// A handler that never calls WriteHeader should still record 200.
	var recorded *statusRecorder
	handler := WithRequestMetrics(nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded = w.(*statusRecorder)
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if recorded == nil {
		t.Fatal("handler was not invoked")
	}
	if recorded.status != http.StatusOK {
		t.Errorf("expected implicit status 200, got %d", recorded.status)
	}
}
