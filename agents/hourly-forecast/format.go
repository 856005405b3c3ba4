package hourlyforecast

import (
	"fmt"
	"time"

	"forecast-agent/internal/models"
)

// FormatTableTime renders a point as "YYYY-MM-DD HH:00"
func FormatTableTime(t time.Time) string {
	return t.Format("2006-01-02 15:00")
}

// FormatChartLabel renders an axis label without zero padding, e.g. "2024-5-1 7:00"
func FormatChartLabel(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d %d:00", t.Year(), int(t.Month()), t.Day(), t.Hour())
}

func tableRows(points []models.ForecastPoint) []models.TableRow {
	rows := make([]models.TableRow, len(points))
	for i, p := range points {
		rows[i] = models.TableRow{Time: FormatTableTime(p.Time), TemperatureC: p.TemperatureC}
	}
	return rows
}

func chartSeries(points []models.ForecastPoint) models.ChartSeries {
	series := models.ChartSeries{
		Times:         make([]string, len(points)),
		Labels:        make([]string, len(points)),
		TemperaturesC: make([]float64, len(points)),
	}
	for i, p := range points {
		series.Times[i] = p.Time.Format(models.OpenMeteoTimeLayout)
		series.Labels[i] = FormatChartLabel(p.Time)
		series.TemperaturesC[i] = p.TemperatureC
	}
	return series
}
