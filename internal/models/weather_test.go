package models

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestHourlySeriesPoints(t *testing.T) {
	series := HourlySeries{
		Time:        []string{"2024-05-01T00:00", "2024-05-01T01:00", "2024-05-01T02:00"},
		Temperature: []float64{11.2, 10.8, 10.1},
	}

	points, err := series.Points(time.UTC)
	if err != nil {
		t.Fatalf("Points failed: %v", err)
	}

	want := []ForecastPoint{
		{Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), TemperatureC: 11.2},
		{Time: time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC), TemperatureC: 10.8},
		{Time: time.Date(2024, 5, 1, 2, 0, 0, 0, time.UTC), TemperatureC: 10.1},
	}
	if diff := cmp.Diff(want, points); diff != "" {
		t.Errorf("Points mismatch (-want +got):\n%s", diff)
	}
}

func TestHourlySeriesPointsPreservesLengthAndOrder(t *testing.T) {
	for _, n := range []int{0, 1, 24, 24 * 17} {
		series := HourlySeries{}
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < n; i++ {
			series.Time = append(series.Time, start.Add(time.Duration(i)*time.Hour).Format(OpenMeteoTimeLayout))
			series.Temperature = append(series.Temperature, float64(i))
		}

		points, err := series.Points(nil)
		if err != nil {
			t.Fatalf("n=%d: Points failed: %v", n, err)
		}
		if len(points) != n {
			t.Fatalf("n=%d: expected %d points, got %d", n, n, len(points))
		}
		for i, p := range points {
			if p.TemperatureC != float64(i) {
				t.Errorf("n=%d: point %d has temperature %.1f", n, i, p.TemperatureC)
			}
			if i > 0 && !p.Time.After(points[i-1].Time) {
				t.Errorf("n=%d: point %d is not after point %d", n, i, i-1)
			}
		}
	}
}

func TestHourlySeriesPointsErrors(t *testing.T) {
	tests := []struct {
		name   string
		series HourlySeries
	}{
		{
			name:   "Length mismatch",
			series: HourlySeries{Time: []string{"2024-05-01T00:00"}, Temperature: []float64{1, 2}},
		},
		{
			name:   "Bad timestamp",
			series: HourlySeries{Time: []string{"yesterday"}, Temperature: []float64{1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.series.Points(time.UTC); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestGeoCoordinateString(t *testing.T) {
	c := GeoCoordinate{Latitude: 52.52, Longitude: 13.41}
	if got := c.String(); got != "52.5200,13.4100" {
		t.Errorf("Expected '52.5200,13.4100', got '%s'", got)
	}
}
