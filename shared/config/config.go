package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	LocationModeStatic = "static"
	LocationModeIP     = "ip"
)

type Config struct {
	Weather    WeatherConfig    `yaml:"weather"`
	Location   LocationConfig   `yaml:"location"`
	Email      EmailConfig      `yaml:"email"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
}

// WeatherConfig zero values mean "use the default": a retry_delay of 0s is
// replaced by 1s, so there is always a pause between attempts.
type WeatherConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Timezone        string        `yaml:"timezone"`
	Timeout         time.Duration `yaml:"timeout"`
	MaxAttempts     int           `yaml:"max_attempts"`
	RetryDelay      time.Duration `yaml:"retry_delay"`
	MaxForecastDays int           `yaml:"max_forecast_days"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
}

type LocationConfig struct {
	Mode              string  `yaml:"mode"`
	PermissionGranted bool    `yaml:"permission_granted"`
	Latitude          float64 `yaml:"latitude"`
	Longitude         float64 `yaml:"longitude"`
	IPLookupURL       string  `yaml:"ip_lookup_url"`
	// Fallback 0,0 is treated as unset and replaced by 52.52,13.41
	FallbackLatitude  float64 `yaml:"fallback_latitude"`
	FallbackLongitude float64 `yaml:"fallback_longitude"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Enabled reports whether enough SMTP settings are present to send mail
func (e EmailConfig) Enabled() bool {
	return e.SMTPServer != "" && e.Username != "" && e.Password != "" && e.ToEmail != ""
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic"`
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

// Load reads CONFIG_FILE (default config.yaml). A missing file is not an
// error: every setting has a default or an environment fallback.
func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(configFile)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() {
	if c.Email.Username == "" {
		c.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if c.Email.Password == "" {
		c.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}
	if len(c.Kafka.Brokers) == 0 {
		if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
			c.Kafka.Brokers = strings.Split(brokers, ",")
		}
	}
	if c.Weather.BaseURL == "" {
		c.Weather.BaseURL = os.Getenv("WEATHER_BASE_URL")
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = getEnvAsInt("PORT", 0)
	}
}

func (c *Config) applyDefaults() {
	if c.Weather.BaseURL == "" {
		c.Weather.BaseURL = "https://api.open-meteo.com/v1/forecast"
	}
	if c.Weather.Timezone == "" {
		c.Weather.Timezone = "Asia/Singapore"
	}
	if c.Weather.Timeout == 0 {
		c.Weather.Timeout = 5 * time.Second
	}
	if c.Weather.MaxAttempts == 0 {
		c.Weather.MaxAttempts = 3
	}
	if c.Weather.RetryDelay == 0 {
		c.Weather.RetryDelay = time.Second
	}
	if c.Weather.MaxForecastDays == 0 {
		c.Weather.MaxForecastDays = 17
	}

	if c.Location.Mode == "" {
		c.Location.Mode = LocationModeStatic
	}
	if c.Location.IPLookupURL == "" {
		c.Location.IPLookupURL = "http://ip-api.com/json"
	}
	if c.Location.FallbackLatitude == 0 && c.Location.FallbackLongitude == 0 {
		c.Location.FallbackLatitude = 52.52
		c.Location.FallbackLongitude = 13.41
	}

	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "forecast.notifications"
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Schedule == "" {
		c.Schedule = "0 */30 * * * *" // every 30 minutes
	}
}

func (c *Config) validate() error {
	if c.Weather.Timeout < 0 {
		return fmt.Errorf("weather timeout must not be negative")
	}
	if c.Weather.MaxAttempts < 1 {
		return fmt.Errorf("weather max_attempts must be at least 1, got %d", c.Weather.MaxAttempts)
	}
	if c.Weather.RetryDelay < 0 {
		return fmt.Errorf("weather retry_delay must not be negative")
	}
	if c.Weather.MaxForecastDays < 1 {
		return fmt.Errorf("weather max_forecast_days must be at least 1, got %d", c.Weather.MaxForecastDays)
	}
	if c.Weather.RateLimitRPS < 0 {
		return fmt.Errorf("weather rate_limit_rps must not be negative")
	}
	if _, err := time.LoadLocation(c.Weather.Timezone); err != nil {
		return fmt.Errorf("unknown weather timezone %q: %w", c.Weather.Timezone, err)
	}
	if c.Location.Mode != LocationModeStatic && c.Location.Mode != LocationModeIP {
		return fmt.Errorf("location mode must be %q or %q, got %q", LocationModeStatic, LocationModeIP, c.Location.Mode)
	}
	if !validCoordinate(c.Location.Latitude, c.Location.Longitude) {
		return fmt.Errorf("location latitude/longitude out of range (%.4f, %.4f)", c.Location.Latitude, c.Location.Longitude)
	}
	if !validCoordinate(c.Location.FallbackLatitude, c.Location.FallbackLongitude) {
		return fmt.Errorf("fallback latitude/longitude out of range (%.4f, %.4f)", c.Location.FallbackLatitude, c.Location.FallbackLongitude)
	}
	return nil
}

// ValidateEmail checks the settings needed by the email notifier
func (c *Config) ValidateEmail() error {
	if c.Email.SMTPServer == "" {
		return fmt.Errorf("SMTP server is required (email.smtp_server)")
	}
	if c.Email.Username == "" {
		return fmt.Errorf("Email username is required (set EMAIL_USERNAME or email.username)")
	}
	if c.Email.Password == "" {
		return fmt.Errorf("Email password is required (set EMAIL_PASSWORD or email.password)")
	}
	if c.Email.ToEmail == "" {
		return fmt.Errorf("Recipient is required (email.to_email)")
	}
	return nil
}

func validCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
