package hourlyforecast

import (
	"context"
	"errors"
	"testing"

	"forecast-agent/shared/location"
	"forecast-agent/shared/notify"
)

func TestChartRefresh(t *testing.T) {
	fetcher := &fakeFetcher{}
	notifier := &recordingNotifier{}
	chart := NewChart(fetcher, location.NewStaticResolver(home, true), notifier, fallback)

	if chart.HasData() {
		t.Fatal("Expected empty chart before refresh")
	}

	state := chart.Refresh(context.Background())

	if !state.HasData() || len(state.Series.Times) != 7*24 {
		t.Fatalf("Expected 168 points, got %d", len(state.Series.Times))
	}
	if state.Series.Times[1] != "2024-05-01T01:00" || state.Series.Labels[1] != "2024-5-1 1:00" {
		t.Errorf("Unexpected series entry: time=%s label=%s", state.Series.Times[1], state.Series.Labels[1])
	}
	if q := fetcher.calls()[0]; q.Days != 0 || q.Timezone != "" || q.Coordinate != home {
		t.Errorf("Expected default window at %s, got %+v", home, q)
	}
	if len(notifier.sent) != 0 {
		t.Errorf("Expected no notifications, got %v", notifier.texts)
	}
}

func TestChartFailureKeepsSeries(t *testing.T) {
	fetcher := &fakeFetcher{}
	notifier := &recordingNotifier{}
	chart := NewChart(fetcher, location.NewStaticResolver(home, true), notifier, fallback)
	chart.Refresh(context.Background())

	fetcher.setErr(errors.New("timeout"))
	state := chart.Refresh(context.Background())

	if !state.HasData() || state.Reason != "timeout" || state.Loading {
		t.Errorf("Expected previous series with reason, got has_data=%v reason=%q loading=%v", state.HasData(), state.Reason, state.Loading)
	}
	if notifier.count(notify.SeverityError) != 1 {
		t.Errorf("Expected one error notification, got %v", notifier.texts)
	}
}

func TestChartRefreshIgnoredWhileLoading(t *testing.T) {
	fetcher := &fakeFetcher{block: make(chan struct{}), started: make(chan struct{}, 2)}
	chart := NewChart(fetcher, location.NewStaticResolver(home, false), &recordingNotifier{}, fallback)

	done := make(chan ChartState)
	go func() { done <- chart.Refresh(context.Background()) }()
	<-fetcher.started

	if state := chart.Refresh(context.Background()); !state.Loading {
		t.Error("Expected concurrent refresh to observe loading")
	}

	close(fetcher.block)
	state := <-done
	if !state.UsingFallback || state.Coordinate != fallback {
		t.Errorf("Expected fallback coordinate, got %+v", state.Coordinate)
	}
	if n := len(fetcher.calls()); n != 1 {
		t.Errorf("Expected one fetch, got %d", n)
	}
}
