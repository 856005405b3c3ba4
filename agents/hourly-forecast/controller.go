package hourlyforecast

import (
	"context"
	"errors"
	"log"
	"sync"

	"forecast-agent/internal/models"
	"forecast-agent/shared/location"
	"forecast-agent/shared/notify"
)

const (
	FetchFailedMessage    = "request failed, please retry later"
	LocationFailedMessage = "failed to get location, please check location permission"
)

// Fetcher retrieves the merged hourly series for a query
type Fetcher interface {
	FetchHourly(ctx context.Context, q ForecastQuery) ([]models.ForecastPoint, error)
}

// ControllerOptions configures a Controller
type ControllerOptions struct {
	MaxDays  int
	Timezone string
	Fallback models.GeoCoordinate
}

// Controller drives the paginated table: it grows the forecast window one
// day at a time and re-fetches the whole window on every step. At most one
// fetch is in flight; requests arriving while loading are ignored.
type Controller struct {
	fetcher  Fetcher
	resolver location.Resolver
	notifier notify.Notifier
	timezone string
	fallback models.GeoCoordinate

	mu          sync.Mutex
	state       State
	subscribers map[int]func(State)
	nextID      int
}

func NewController(fetcher Fetcher, resolver location.Resolver, notifier notify.Notifier, opts ControllerOptions) *Controller {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	if opts.MaxDays < 1 {
		opts.MaxDays = 17
	}

	return &Controller{
		fetcher:     fetcher,
		resolver:    resolver,
		notifier:    notifier,
		timezone:    opts.Timezone,
		fallback:    opts.Fallback,
		state:       NewState(opts.MaxDays),
		subscribers: make(map[int]func(State)),
	}
}

// State returns the current snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to receive every new state. The returned function
// removes the subscription.
func (c *Controller) Subscribe(fn func(State)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Refresh resets the window to one day, re-resolves the location and
// fetches. It is used for the initial load as well as pull-to-refresh.
func (c *Controller) Refresh(ctx context.Context) State {
	state, cmd := c.dispatch(RefreshRequested{})
	if cmd != CommandResolveAndFetch {
		return state
	}

	coordinate, err := resolveCoordinate(ctx, c.resolver, c.fallback, c.notifier)
	state, _ = c.dispatch(LocationResolved{Coordinate: coordinate, Fallback: err != nil})

	return c.fetch(ctx, state)
}

// LoadMore grows the window by one day and fetches it. Past the maximum the
// table becomes exhausted without any network call.
func (c *Controller) LoadMore(ctx context.Context) State {
	state, cmd := c.dispatch(LoadMoreRequested{})
	switch cmd {
	case CommandNotifyExhausted:
		log.Printf("Forecast window already at %d days, nothing more to load", state.Days)
		c.notifier.Notify(notify.SeverityInfo, "Info", NoMoreDataMessage)
		return state
	case CommandFetch:
		return c.fetch(ctx, state)
	}
	return state
}

// OnFetchSettled applies the outcome of a fetch. Results arriving while no
// fetch is outstanding are ignored.
func (c *Controller) OnFetchSettled(points []models.ForecastPoint, err error) State {
	if err != nil {
		state, cmd := c.dispatch(FetchFailed{Err: err})
		if cmd == CommandNotifyFailure {
			log.Printf("Warning: Failed to load %d-day forecast: %v", state.Days, err)
			c.notifier.Notify(notify.SeverityError, "Error", FetchFailedMessage)
		}
		return state
	}

	state, _ := c.dispatch(FetchSucceeded{Points: points})
	return state
}

func (c *Controller) fetch(ctx context.Context, state State) State {
	points, err := c.fetcher.FetchHourly(ctx, ForecastQuery{
		Coordinate: state.Coordinate,
		Days:       state.Days,
		Timezone:   c.timezone,
	})
	return c.OnFetchSettled(points, err)
}

func (c *Controller) dispatch(e Event) (State, Command) {
	c.mu.Lock()
	prev := c.state.Revision
	next, cmd := Reduce(c.state, e)
	c.state = next

	var subscribers []func(State)
	if next.Revision != prev {
		subscribers = make([]func(State), 0, len(c.subscribers))
		for _, fn := range c.subscribers {
			subscribers = append(subscribers, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}
	return next, cmd
}

// resolveCoordinate returns the current coordinate, or the fallback together
// with the resolution error after notifying the user.
func resolveCoordinate(ctx context.Context, resolver location.Resolver, fallback models.GeoCoordinate, notifier notify.Notifier) (models.GeoCoordinate, error) {
	if resolver == nil {
		return fallback, nil
	}

	coordinate, err := resolver.CurrentCoordinate(ctx)
	if err == nil {
		return coordinate, nil
	}

	if errors.Is(err, location.ErrPermissionDenied) {
		log.Printf("Warning: Location permission denied, using fallback %s", fallback)
	} else {
		log.Printf("Warning: Failed to resolve location, using fallback %s: %v", fallback, err)
	}
	notifier.Notify(notify.SeverityError, "Error", LocationFailedMessage)

	return fallback, err
}
