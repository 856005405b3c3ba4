package models

import (
	"fmt"
	"time"
)

// OpenMeteoTimeLayout is the timestamp layout used by Open-Meteo hourly series
const OpenMeteoTimeLayout = "2006-01-02T15:04"

// GeoCoordinate is a latitude/longitude pair in decimal degrees
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c GeoCoordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Latitude, c.Longitude)
}

// ForecastResponse represents the hourly temperature response from Open-Meteo API
type ForecastResponse struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Timezone  string       `json:"timezone"`
	Hourly    HourlySeries `json:"hourly"`
}

// HourlySeries holds the two parallel arrays returned by the API
type HourlySeries struct {
	Time        []string  `json:"time"`
	Temperature []float64 `json:"temperature_2m"`
}

// ForecastPoint is a single hourly temperature reading
type ForecastPoint struct {
	Time         time.Time `json:"time"`
	TemperatureC float64   `json:"temperature_c"`
}

// Points merges the time and temperature arrays by index. Both arrays must have
// the same length; the server order (ascending) is kept as-is.
func (h HourlySeries) Points(location *time.Location) ([]ForecastPoint, error) {
	if len(h.Time) != len(h.Temperature) {
		return nil, fmt.Errorf("hourly series length mismatch: %d times, %d temperatures", len(h.Time), len(h.Temperature))
	}
	if location == nil {
		location = time.UTC
	}

	points := make([]ForecastPoint, len(h.Time))
	for i, timeStr := range h.Time {
		parsed, err := time.ParseInLocation(OpenMeteoTimeLayout, timeStr, location)
		if err != nil {
			return nil, fmt.Errorf("failed to parse hourly time %q: %w", timeStr, err)
		}
		points[i] = ForecastPoint{Time: parsed, TemperatureC: h.Temperature[i]}
	}

	return points, nil
}

// TableRow is a forecast point formatted for the table view
type TableRow struct {
	Time         string  `json:"time"`          // "2006-01-02 15:00"
	TemperatureC float64 `json:"temperature_c"`
}

// ChartSeries is the raw series plotted by the chart view
type ChartSeries struct {
	Times         []string  `json:"times"`
	Labels        []string  `json:"labels"`
	TemperaturesC []float64 `json:"temperatures_c"`
}
