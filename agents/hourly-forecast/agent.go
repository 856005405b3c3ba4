package hourlyforecast

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"forecast-agent/shared/config"
	"forecast-agent/shared/fetch"
	"forecast-agent/shared/location"
	"forecast-agent/shared/notify"
	"forecast-agent/shared/scheduler"
)

// ForecastMetrics represents the metrics collected during a forecast refresh
type ForecastMetrics struct {
	TableStatus   Status `json:"table_status"`
	TableDays     int    `json:"table_days"`
	TableRows     int    `json:"table_rows"`
	ChartPoints   int    `json:"chart_points"`
	UsingFallback bool   `json:"using_fallback"`
}

// GetSummary implements the scheduler.Metrics interface
func (m ForecastMetrics) GetSummary() string {
	summary := fmt.Sprintf("table %s with %d rows over %d day(s), chart with %d points",
		m.TableStatus, m.TableRows, m.TableDays, m.ChartPoints)
	if m.UsingFallback {
		summary += " (fallback location)"
	}
	return summary
}

// HourlyForecastAgent implements the scheduler.Agent interface. It owns the
// paginated table and the chart and serves both over HTTP.
type HourlyForecastAgent struct {
	config   *config.Config
	fetcher  Fetcher
	resolver location.Resolver
	inbox    *notify.Inbox
	notifier notify.Notifier
	email    *notify.EmailNotifier
	kafka    *notify.KafkaNotifier
	table    *Controller
	chart    *Chart
}

func NewHourlyForecastAgent(cfg *config.Config) *HourlyForecastAgent {
	return &HourlyForecastAgent{
		config: cfg,
	}
}

func (a *HourlyForecastAgent) Name() string {
	return "Hourly Forecast Agent"
}

func (a *HourlyForecastAgent) Initialize() error {
	log.Printf("Initializing %s...", a.Name())

	if a.fetcher == nil {
		a.fetcher = NewWeatherClient(&a.config.Weather)
		log.Println("Weather client initialized")
	}

	if a.resolver == nil {
		lookup := fetch.NewClient(fetch.Options{Timeout: a.config.Weather.Timeout})
		a.resolver = location.FromConfig(&a.config.Location, lookup)
		log.Printf("Location resolver initialized (mode: %s)", a.config.Location.Mode)
	}

	if a.inbox == nil {
		a.inbox = notify.NewInbox(0)
	}

	if a.notifier == nil {
		notifiers := notify.Multi{notify.LogNotifier{}, a.inbox}
		if a.config.Email.Enabled() {
			if err := a.config.ValidateEmail(); err != nil {
				return fmt.Errorf("invalid email configuration: %w", err)
			}
			a.email = notify.NewEmailNotifier(&a.config.Email)
			notifiers = append(notifiers, a.email)
			log.Printf("Email notifications enabled for %s", a.config.Email.ToEmail)
		}
		if a.config.Kafka.Enabled() {
			a.kafka = notify.NewKafkaNotifier(a.config.Kafka.Brokers, a.config.Kafka.Topic)
			notifiers = append(notifiers, a.kafka)
			log.Printf("Kafka notifications enabled on topic %s", a.config.Kafka.Topic)
		}
		a.notifier = notifiers
	}

	fallback := location.Fallback(&a.config.Location)

	if a.table == nil {
		a.table = NewController(a.fetcher, a.resolver, a.notifier, ControllerOptions{
			MaxDays:  a.config.Weather.MaxForecastDays,
			Timezone: a.config.Weather.Timezone,
			Fallback: fallback,
		})
	}

	if a.chart == nil {
		a.chart = NewChart(a.fetcher, a.resolver, a.notifier, fallback)
	}

	log.Printf("Configured with up to %d forecast days in %s", a.config.Weather.MaxForecastDays, a.config.Weather.Timezone)
	return nil
}

// Table returns the paginated table controller
func (a *HourlyForecastAgent) Table() *Controller {
	return a.table
}

func (a *HourlyForecastAgent) Chart() *Chart {
	return a.chart
}

// Notifications drains the pending one-shot notifications
func (a *HourlyForecastAgent) Notifications() []notify.Notification {
	if a.inbox == nil {
		return nil
	}
	return a.inbox.Drain()
}

// RunOnce refreshes the chart and performs the initial table load. Once the
// table holds data, its window is left to the user.
func (a *HourlyForecastAgent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	startTime := time.Now()

	table := a.table.State()
	if table.Status == StatusIdle || (table.Status == StatusFailed && len(table.Points) == 0) {
		log.Println("Loading forecast table...")
		table = a.table.Refresh(ctx)
	}

	log.Println("Refreshing forecast chart...")
	chart := a.chart.Refresh(ctx)

	metrics := ForecastMetrics{
		TableStatus:   table.Status,
		TableDays:     table.Days,
		TableRows:     len(table.Rows),
		ChartPoints:   len(chart.Series.Times),
		UsingFallback: table.UsingFallback || chart.UsingFallback,
	}

	tableFailed := table.Status == StatusFailed
	chartFailed := chart.Reason != ""

	if tableFailed && chartFailed {
		err := fmt.Errorf("failed to load forecast: %s", chart.Reason)
		if events != nil && events.OnCriticalFailure != nil {
			events.OnCriticalFailure(err, time.Since(startTime))
		}
		return err
	}

	var partial error
	if tableFailed {
		partial = errors.Join(partial, fmt.Errorf("table refresh failed: %s", table.Reason))
	}
	if chartFailed {
		partial = errors.Join(partial, fmt.Errorf("chart refresh failed: %s", chart.Reason))
	}
	if metrics.UsingFallback {
		partial = errors.Join(partial, errors.New("location unavailable, using fallback coordinate"))
	}
	if partial != nil && events != nil && events.OnPartialFailure != nil {
		events.OnPartialFailure(partial, time.Since(startTime))
	}

	duration := time.Since(startTime)
	if events != nil && events.OnSuccess != nil {
		events.OnSuccess(metrics, duration)
	}

	log.Printf("Forecast refresh complete: %s", metrics.GetSummary())
	return nil
}

// Close flushes and releases the notification sinks
func (a *HourlyForecastAgent) Close() error {
	var errs []error
	if a.email != nil {
		errs = append(errs, a.email.Close())
	}
	if a.kafka != nil {
		errs = append(errs, a.kafka.Close())
	}
	return errors.Join(errs...)
}
