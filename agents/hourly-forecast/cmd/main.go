package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	hourlyforecast "forecast-agent/agents/hourly-forecast"
	"forecast-agent/shared/config"
	"forecast-agent/shared/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	agent := hourlyforecast.NewHourlyForecastAgent(cfg)
	defer func() {
		if err := agent.Close(); err != nil {
			log.Printf("Warning: failed to close agent: %v", err)
		}
	}()
	s := scheduler.New(cfg, agent)

	if len(os.Args) > 1 && os.Args[1] == "--once" {
		fmt.Println("Running once...")
		if err := agent.Initialize(); err != nil {
			log.Fatalf("Failed to initialize agent: %v", err)
		}

		if err := s.RunOnce(ctx); err != nil {
			log.Fatalf("Failed to run: %v", err)
		}
		printTable(agent.Table().State())
		return
	}

	fmt.Println("Starting scheduler...")

	if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Scheduler failed: %v", err)
	}
}

func printTable(state hourlyforecast.State) {
	fmt.Printf("Hourly forecast for %s (%d day(s), %s)\n", state.Coordinate, state.Days, state.Status)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTEMPERATURE")
	for _, row := range state.Rows {
		fmt.Fprintf(tw, "%s\t%.1f°C\n", row.Time, row.TemperatureC)
	}
	tw.Flush()

	fmt.Println(state.Footer())
}
