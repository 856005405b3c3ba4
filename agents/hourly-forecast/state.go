package hourlyforecast

import (
	"fmt"

	"forecast-agent/internal/models"
)

const (
	// NoMoreDataMessage is shown once the window cannot grow any further
	NoMoreDataMessage = "no more data"
	// LoadMoreMessage is the table footer while more days can be requested
	LoadMoreMessage = "load more"
)

// Status is the acquisition status of the paginated table
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusExhausted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusExhausted:
		return "exhausted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for candidate := StatusIdle; candidate <= StatusFailed; candidate++ {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// State is a snapshot of the paginated table. Points and Rows are replaced
// wholesale on every successful fetch and never mutated in place, so
// snapshots may share them.
type State struct {
	Status        Status
	Days          int
	MaxDays       int
	Points        []models.ForecastPoint
	Rows          []models.TableRow
	HasMore       bool
	Reason        string
	Coordinate    models.GeoCoordinate
	UsingFallback bool
	// Revision increases on every transition; no-op events leave it unchanged
	Revision uint64
}

func NewState(maxDays int) State {
	return State{
		Status:  StatusIdle,
		Days:    1,
		MaxDays: maxDays,
		HasMore: true,
	}
}

// Footer is the text shown below the table
func (s State) Footer() string {
	if s.HasMore {
		return LoadMoreMessage
	}
	if s.Reason != "" {
		return s.Reason
	}
	return NoMoreDataMessage
}

// Event is an input to Reduce
type Event interface {
	isEvent()
}

type RefreshRequested struct{}

type LoadMoreRequested struct{}

// LocationResolved records the coordinate the next fetch will use
type LocationResolved struct {
	Coordinate models.GeoCoordinate
	Fallback   bool
}

type FetchSucceeded struct {
	Points []models.ForecastPoint
}

type FetchFailed struct {
	Err error
}

func (RefreshRequested) isEvent()  {}
func (LoadMoreRequested) isEvent() {}
func (LocationResolved) isEvent()  {}
func (FetchSucceeded) isEvent()    {}
func (FetchFailed) isEvent()       {}

// Command is the side effect the caller must perform after a transition
type Command int

const (
	CommandNone Command = iota
	// CommandResolveAndFetch resolves the location, then fetches the window
	CommandResolveAndFetch
	// CommandFetch fetches the window for the current coordinate
	CommandFetch
	CommandNotifyExhausted
	CommandNotifyFailure
)

// Reduce applies e to s. It performs no I/O; the returned Command tells the
// caller what to do next.
func Reduce(s State, e Event) (State, Command) {
	switch ev := e.(type) {
	case RefreshRequested:
		if s.Status == StatusLoading {
			return s, CommandNone
		}
		s.Days = 1
		s.HasMore = true
		s.Reason = ""
		s.Status = StatusLoading
		s.Revision++
		return s, CommandResolveAndFetch

	case LoadMoreRequested:
		if s.Status == StatusLoading || s.Status == StatusExhausted || len(s.Points) == 0 {
			return s, CommandNone
		}
		if s.Days+1 > s.MaxDays {
			s.Days = s.MaxDays
			s.Status = StatusExhausted
			s.HasMore = false
			s.Reason = NoMoreDataMessage
			s.Revision++
			return s, CommandNotifyExhausted
		}
		s.Days++
		s.Reason = ""
		s.Status = StatusLoading
		s.Revision++
		return s, CommandFetch

	case LocationResolved:
		if s.Status != StatusLoading {
			return s, CommandNone
		}
		s.Coordinate = ev.Coordinate
		s.UsingFallback = ev.Fallback
		s.Revision++
		return s, CommandNone

	case FetchSucceeded:
		if s.Status != StatusLoading {
			return s, CommandNone
		}
		s.Points = ev.Points
		s.Rows = tableRows(ev.Points)
		s.Status = StatusReady
		s.HasMore = true
		s.Reason = ""
		s.Revision++
		return s, CommandNone

	case FetchFailed:
		if s.Status != StatusLoading {
			return s, CommandNone
		}
		s.Status = StatusFailed
		s.Reason = FetchFailedMessage
		if ev.Err != nil {
			s.Reason = ev.Err.Error()
		}
		s.Revision++
		return s, CommandNotifyFailure
	}

	return s, CommandNone
}
