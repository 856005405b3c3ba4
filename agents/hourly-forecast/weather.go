package hourlyforecast

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"time"

	"forecast-agent/internal/models"
	"forecast-agent/shared/config"
	"forecast-agent/shared/fetch"

	"golang.org/x/time/rate"
)

// ForecastQuery selects the coordinate and window of one forecast request.
// Zero Days or an empty Timezone leave the server defaults in place.
type ForecastQuery struct {
	Coordinate models.GeoCoordinate
	Days       int
	Timezone   string
}

// WeatherClient handles interactions with the Open-Meteo API
type WeatherClient struct {
	config *config.WeatherConfig
	client *fetch.Client
}

func NewWeatherClient(cfg *config.WeatherConfig) *WeatherClient {
	opts := fetch.Options{
		Timeout:     cfg.Timeout,
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
	}
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst < 1 {
			burst = 1
		}
		opts.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}

	return &WeatherClient{
		config: cfg,
		client: fetch.NewClient(opts),
	}
}

// ForecastURL builds the hourly temperature request for q
func (w *WeatherClient) ForecastURL(q ForecastQuery) string {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(q.Coordinate.Latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(q.Coordinate.Longitude, 'f', -1, 64))
	params.Set("hourly", "temperature_2m")
	if q.Timezone != "" {
		params.Set("timezone", q.Timezone)
	}
	if q.Days > 0 {
		params.Set("forecast_days", strconv.Itoa(q.Days))
	}
	return w.config.BaseURL + "?" + params.Encode()
}

// FetchHourly fetches the hourly temperature series and merges it into points
func (w *WeatherClient) FetchHourly(ctx context.Context, q ForecastQuery) ([]models.ForecastPoint, error) {
	reqURL := w.ForecastURL(q)
	log.Printf("Fetching hourly forecast from: %s", reqURL)

	var apiResp models.ForecastResponse
	if err := w.client.PerformWithRetry(ctx, fetch.Request{URL: reqURL}, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to fetch hourly forecast: %w", err)
	}

	location := time.UTC
	if apiResp.Timezone != "" {
		loaded, err := time.LoadLocation(apiResp.Timezone)
		if err != nil {
			log.Printf("Warning: Failed to load timezone %s, using UTC: %v", apiResp.Timezone, err)
		} else {
			location = loaded
		}
	}

	points, err := apiResp.Hourly.Points(location)
	if err != nil {
		return nil, &fetch.Error{Kind: fetch.KindMalformedResponse, Method: "GET", URL: reqURL, Err: err}
	}

	return points, nil
}
