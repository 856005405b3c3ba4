package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PORT", "")
	t.Setenv("WEATHER_BASE_URL", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Weather.BaseURL != "https://api.open-meteo.com/v1/forecast" {
		t.Errorf("Unexpected base URL: %s", cfg.Weather.BaseURL)
	}
	if cfg.Weather.Timeout != 5*time.Second {
		t.Errorf("Expected 5s timeout, got %v", cfg.Weather.Timeout)
	}
	if cfg.Weather.MaxAttempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", cfg.Weather.MaxAttempts)
	}
	if cfg.Weather.RetryDelay != time.Second {
		t.Errorf("Expected 1s retry delay, got %v", cfg.Weather.RetryDelay)
	}
	if cfg.Weather.MaxForecastDays != 17 {
		t.Errorf("Expected 17 max days, got %d", cfg.Weather.MaxForecastDays)
	}
	if cfg.Location.FallbackLatitude != 52.52 || cfg.Location.FallbackLongitude != 13.41 {
		t.Errorf("Unexpected fallback coordinate: %.2f, %.2f", cfg.Location.FallbackLatitude, cfg.Location.FallbackLongitude)
	}
	if cfg.Location.Mode != LocationModeStatic {
		t.Errorf("Expected static location mode, got %s", cfg.Location.Mode)
	}
	if cfg.Kafka.Enabled() {
		t.Error("Kafka should be disabled without brokers")
	}
	if cfg.Email.Enabled() {
		t.Error("Email should be disabled without credentials")
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
weather:
  timezone: Europe/Berlin
  timeout: 2s
  max_attempts: 5
  retry_delay: 250ms
  rate_limit_rps: 0.5
location:
  mode: ip
  permission_granted: true
  latitude: 48.8566
  longitude: 2.3522
kafka:
  brokers: ["localhost:9092"]
monitoring:
  health_port: 9000
schedule: "0 0 * * * *"
`)
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Weather.Timezone != "Europe/Berlin" {
		t.Errorf("Expected Europe/Berlin, got %s", cfg.Weather.Timezone)
	}
	if cfg.Weather.Timeout != 2*time.Second {
		t.Errorf("Expected 2s timeout, got %v", cfg.Weather.Timeout)
	}
	if cfg.Weather.MaxAttempts != 5 {
		t.Errorf("Expected 5 attempts, got %d", cfg.Weather.MaxAttempts)
	}
	if cfg.Weather.RetryDelay != 250*time.Millisecond {
		t.Errorf("Expected 250ms retry delay, got %v", cfg.Weather.RetryDelay)
	}
	if cfg.Location.Mode != LocationModeIP || !cfg.Location.PermissionGranted {
		t.Errorf("Unexpected location config: %+v", cfg.Location)
	}
	if !cfg.Kafka.Enabled() || cfg.Kafka.Topic != "forecast.notifications" {
		t.Errorf("Unexpected kafka config: %+v", cfg.Kafka)
	}
	if cfg.Monitoring.HealthPort != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Monitoring.HealthPort)
	}
	if cfg.Schedule != "0 0 * * * *" {
		t.Errorf("Unexpected schedule: %s", cfg.Schedule)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"Unknown timezone", "weather:\n  timezone: Mars/Olympus\n"},
		{"Negative attempts", "weather:\n  max_attempts: -1\n"},
		{"Bad location mode", "location:\n  mode: gps\n"},
		{"Latitude out of range", "location:\n  latitude: 123\n"},
		{"Malformed yaml", "weather: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", writeConfig(t, tt.contents))
			if _, err := Load(); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	cfg := &Config{Email: EmailConfig{SMTPServer: "smtp.example.com", Username: "u", Password: "p", ToEmail: "to@example.com"}}
	if err := cfg.ValidateEmail(); err != nil {
		t.Errorf("Expected valid email config, got %v", err)
	}

	cfg.Email.Password = ""
	if err := cfg.ValidateEmail(); err == nil {
		t.Error("Expected error for missing password")
	}
}

func TestLoadZeroValuesMeanDefault(t *testing.T) {
	path := writeConfig(t, `
weather:
  retry_delay: 0s
location:
  fallback_latitude: 0
  fallback_longitude: 0
`)
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Weather.RetryDelay != time.Second {
		t.Errorf("Expected 0s retry delay to become 1s, got %v", cfg.Weather.RetryDelay)
	}
	if cfg.Location.FallbackLatitude != 52.52 || cfg.Location.FallbackLongitude != 13.41 {
		t.Errorf("Expected 0,0 fallback to become 52.52,13.41, got %.2f,%.2f", cfg.Location.FallbackLatitude, cfg.Location.FallbackLongitude)
	}
}
