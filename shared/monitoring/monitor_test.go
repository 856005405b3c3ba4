package monitoring

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestMonitorHealth(t *testing.T) {
	m := NewMonitor()
	if !m.IsHealthy() {
		t.Error("Monitor with no runs should be healthy")
	}
	if m.GetStatusSummary() != "No runs yet" {
		t.Errorf("Unexpected summary: %s", m.GetStatusSummary())
	}

	m.RecordCriticalFailure(errors.New("fetch failed"), time.Second)
	if m.IsHealthy() {
		t.Error("Monitor should be unhealthy after a critical failure")
	}

	m.RecordPartialFailure(errors.New("location fallback"), time.Second)
	if m.IsHealthy() {
		t.Error("Partial failure should not change health")
	}

	m.RecordSuccess("table refreshed", time.Second)
	if !m.IsHealthy() {
		t.Error("Monitor should be healthy after a success")
	}
	if !strings.Contains(m.GetStatusSummary(), "2 runs, 1 failed") {
		t.Errorf("Unexpected summary: %s", m.GetStatusSummary())
	}
}

func TestHealthServerRoutes(t *testing.T) {
	m := NewMonitor()
	h := NewHealthServer(m, "0")

	tests := []struct {
		name         string
		setup        func()
		path         string
		expectStatus int
	}{
		{"Healthy", func() {}, "/health", http.StatusOK},
		{"Unhealthy", func() { m.RecordCriticalFailure(errors.New("boom"), 0) }, "/health", http.StatusServiceUnavailable},
		{"Status always OK", func() {}, "/status", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			rec := httptest.NewRecorder()
			h.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if rec.Code != tt.expectStatus {
				t.Errorf("Expected status %d, got %d", tt.expectStatus, rec.Code)
			}
		})
	}
}
