package hourlyforecast

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"forecast-agent/internal/models"
	"forecast-agent/shared/notify"

	"github.com/gorilla/mux"
)

// TableView is the JSON shape of the table state served to the UI
type TableView struct {
	Status        Status               `json:"status"`
	Days          int                  `json:"days"`
	MaxDays       int                  `json:"max_days"`
	HasMore       bool                 `json:"has_more"`
	Footer        string               `json:"footer"`
	Reason        string               `json:"reason,omitempty"`
	Coordinate    models.GeoCoordinate `json:"coordinate"`
	UsingFallback bool                 `json:"using_fallback"`
	Revision      uint64               `json:"revision"`
	Rows          []models.TableRow    `json:"rows"`
}

// NewTableView converts a table state into its JSON view
func NewTableView(s State) TableView {
	rows := s.Rows
	if rows == nil {
		rows = []models.TableRow{}
	}
	return TableView{
		Status:        s.Status,
		Days:          s.Days,
		MaxDays:       s.MaxDays,
		HasMore:       s.HasMore,
		Footer:        s.Footer(),
		Reason:        s.Reason,
		Coordinate:    s.Coordinate,
		UsingFallback: s.UsingFallback,
		Revision:      s.Revision,
		Rows:          rows,
	}
}

// ChartView is the JSON shape of the chart state
type ChartView struct {
	ChartState
	HasData bool `json:"has_data"`
}

// RegisterRoutes mounts the view API on r
func (a *HourlyForecastAgent) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/table", a.getTable).Methods("GET")
	api.HandleFunc("/table/refresh", a.refreshTable).Methods("POST")
	api.HandleFunc("/table/more", a.loadMore).Methods("POST")
	api.HandleFunc("/chart", a.getChart).Methods("GET")
	api.HandleFunc("/chart/refresh", a.refreshChart).Methods("POST")
	api.HandleFunc("/notifications", a.getNotifications).Methods("GET")
}

func (a *HourlyForecastAgent) getTable(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NewTableView(a.table.State()))
}

// The operations outlive the request: a client hanging up must not fail the
// shared table for everyone else.
func (a *HourlyForecastAgent) refreshTable(w http.ResponseWriter, r *http.Request) {
	state := a.table.Refresh(context.WithoutCancel(r.Context()))
	writeJSON(w, http.StatusOK, NewTableView(state))
}

func (a *HourlyForecastAgent) loadMore(w http.ResponseWriter, r *http.Request) {
	state := a.table.LoadMore(context.WithoutCancel(r.Context()))
	writeJSON(w, http.StatusOK, NewTableView(state))
}

func (a *HourlyForecastAgent) getChart(w http.ResponseWriter, r *http.Request) {
	state := a.chart.State()
	writeJSON(w, http.StatusOK, ChartView{ChartState: state, HasData: state.HasData()})
}

func (a *HourlyForecastAgent) refreshChart(w http.ResponseWriter, r *http.Request) {
	state := a.chart.Refresh(context.WithoutCancel(r.Context()))
	writeJSON(w, http.StatusOK, ChartView{ChartState: state, HasData: state.HasData()})
}

func (a *HourlyForecastAgent) getNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := a.Notifications()
	if notifications == nil {
		notifications = []notify.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: failed to encode response: %v", err)
	}
}
