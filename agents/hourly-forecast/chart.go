package hourlyforecast

import (
	"context"
	"log"
	"sync"

	"forecast-agent/internal/models"
	"forecast-agent/shared/location"
	"forecast-agent/shared/notify"
)

// ChartState is a snapshot of the chart view
type ChartState struct {
	Loading       bool                 `json:"loading"`
	Series        models.ChartSeries   `json:"series"`
	Coordinate    models.GeoCoordinate `json:"coordinate"`
	UsingFallback bool                 `json:"using_fallback"`
	Reason        string               `json:"reason,omitempty"`
}

// HasData reports whether the chart has any point to draw
func (s ChartState) HasData() bool {
	return len(s.Series.Times) > 0
}

// Chart holds the series for the default forecast window. A failed refresh
// keeps the previous series.
type Chart struct {
	fetcher  Fetcher
	resolver location.Resolver
	notifier notify.Notifier
	fallback models.GeoCoordinate

	mu    sync.Mutex
	state ChartState
}

func NewChart(fetcher Fetcher, resolver location.Resolver, notifier notify.Notifier, fallback models.GeoCoordinate) *Chart {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &Chart{
		fetcher:  fetcher,
		resolver: resolver,
		notifier: notifier,
		fallback: fallback,
	}
}

func (c *Chart) State() ChartState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Series returns the current chart series
func (c *Chart) Series() models.ChartSeries {
	return c.State().Series
}

func (c *Chart) HasData() bool {
	return c.State().HasData()
}

// Refresh re-resolves the location and reloads the series with the server's
// default window. It is a no-op while a refresh is already running.
func (c *Chart) Refresh(ctx context.Context) ChartState {
	c.mu.Lock()
	if c.state.Loading {
		state := c.state
		c.mu.Unlock()
		return state
	}
	c.state.Loading = true
	c.mu.Unlock()

	coordinate, locErr := resolveCoordinate(ctx, c.resolver, c.fallback, c.notifier)
	points, err := c.fetcher.FetchHourly(ctx, ForecastQuery{Coordinate: coordinate})

	c.mu.Lock()
	c.state.Loading = false
	c.state.Coordinate = coordinate
	c.state.UsingFallback = locErr != nil
	if err != nil {
		c.state.Reason = err.Error()
	} else {
		c.state.Series = chartSeries(points)
		c.state.Reason = ""
	}
	state := c.state
	c.mu.Unlock()

	if err != nil {
		log.Printf("Warning: Failed to load chart series: %v", err)
		c.notifier.Notify(notify.SeverityError, "Error", FetchFailedMessage)
	}
	return state
}
