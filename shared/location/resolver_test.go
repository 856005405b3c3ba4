package location

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"forecast-agent/internal/models"
	"forecast-agent/shared/config"
	"forecast-agent/shared/fetch"
)

func TestStaticResolver(t *testing.T) {
	want := models.GeoCoordinate{Latitude: 1.29, Longitude: 103.85}

	got, err := NewStaticResolver(want, true).CurrentCoordinate(context.Background())
	if err != nil {
		t.Fatalf("CurrentCoordinate failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %v, got %v", want, got)
	}

	_, err = NewStaticResolver(want, false).CurrentCoordinate(context.Background())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("Expected ErrPermissionDenied, got %v", err)
	}
}

func TestIPResolver(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		status    int
		granted   bool
		expect    models.GeoCoordinate
		expectErr bool
	}{
		{
			name:    "Successful lookup",
			body:    `{"status":"success","lat":48.8566,"lon":2.3522}`,
			status:  http.StatusOK,
			granted: true,
			expect:  models.GeoCoordinate{Latitude: 48.8566, Longitude: 2.3522},
		},
		{
			name:      "Lookup reports failure",
			body:      `{"status":"fail","message":"private range"}`,
			status:    http.StatusOK,
			granted:   true,
			expectErr: true,
		},
		{
			name:      "Server error",
			status:    http.StatusInternalServerError,
			granted:   true,
			expectErr: true,
		},
		{
			name:      "Permission denied",
			status:    http.StatusOK,
			body:      `{"status":"success","lat":1,"lon":1}`,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			resolver := NewIPResolver(fetch.NewClient(fetch.Options{}), server.URL, tt.granted)
			got, err := resolver.CurrentCoordinate(context.Background())

			if (err != nil) != tt.expectErr {
				t.Fatalf("Expected error=%v, got %v", tt.expectErr, err)
			}
			if !tt.expectErr && got != tt.expect {
				t.Errorf("Expected %v, got %v", tt.expect, got)
			}
			if !tt.granted && !errors.Is(err, ErrPermissionDenied) {
				t.Errorf("Expected ErrPermissionDenied, got %v", err)
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := &config.LocationConfig{Mode: config.LocationModeIP, IPLookupURL: "http://ip.test"}
	if _, ok := FromConfig(cfg, fetch.NewClient(fetch.Options{})).(*IPResolver); !ok {
		t.Error("Expected IPResolver for ip mode")
	}

	cfg.Mode = config.LocationModeStatic
	if _, ok := FromConfig(cfg, nil).(*StaticResolver); !ok {
		t.Error("Expected StaticResolver for static mode")
	}
}

func TestFallback(t *testing.T) {
	cfg := &config.LocationConfig{FallbackLatitude: 52.52, FallbackLongitude: 13.41}
	if got := Fallback(cfg); got.Latitude != 52.52 || got.Longitude != 13.41 {
		t.Errorf("Unexpected fallback %v", got)
	}
}
