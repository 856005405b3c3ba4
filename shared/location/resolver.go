package location

import (
	"context"
	"errors"
	"fmt"
	"log"

	"forecast-agent/internal/models"
	"forecast-agent/shared/config"
	"forecast-agent/shared/fetch"
)

// ErrPermissionDenied is returned when location access has not been granted
var ErrPermissionDenied = errors.New("location permission not granted")

// Resolver provides the device's current coordinate
type Resolver interface {
	CurrentCoordinate(ctx context.Context) (models.GeoCoordinate, error)
}

// StaticResolver returns a configured coordinate once permission is granted
type StaticResolver struct {
	coordinate models.GeoCoordinate
	granted    bool
}

func NewStaticResolver(coordinate models.GeoCoordinate, permissionGranted bool) *StaticResolver {
	return &StaticResolver{coordinate: coordinate, granted: permissionGranted}
}

func (s *StaticResolver) CurrentCoordinate(ctx context.Context) (models.GeoCoordinate, error) {
	if !s.granted {
		return models.GeoCoordinate{}, ErrPermissionDenied
	}
	if err := ctx.Err(); err != nil {
		return models.GeoCoordinate{}, err
	}
	return s.coordinate, nil
}

// IPResolver approximates the coordinate from the public IP address using an
// ip-api.com compatible endpoint.
type IPResolver struct {
	client  *fetch.Client
	url     string
	granted bool
}

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func NewIPResolver(client *fetch.Client, url string, permissionGranted bool) *IPResolver {
	return &IPResolver{client: client, url: url, granted: permissionGranted}
}

func (r *IPResolver) CurrentCoordinate(ctx context.Context) (models.GeoCoordinate, error) {
	if !r.granted {
		return models.GeoCoordinate{}, ErrPermissionDenied
	}

	log.Printf("Resolving location from: %s", r.url)

	var resp ipLookupResponse
	if err := r.client.Perform(ctx, fetch.Request{URL: r.url}, &resp); err != nil {
		return models.GeoCoordinate{}, fmt.Errorf("failed to look up location: %w", err)
	}
	if resp.Status != "" && resp.Status != "success" {
		return models.GeoCoordinate{}, fmt.Errorf("location lookup failed: %s", resp.Message)
	}

	return models.GeoCoordinate{Latitude: resp.Lat, Longitude: resp.Lon}, nil
}

// FromConfig builds the resolver selected by cfg.Mode
func FromConfig(cfg *config.LocationConfig, client *fetch.Client) Resolver {
	if cfg.Mode == config.LocationModeIP {
		return NewIPResolver(client, cfg.IPLookupURL, cfg.PermissionGranted)
	}
	return NewStaticResolver(models.GeoCoordinate{Latitude: cfg.Latitude, Longitude: cfg.Longitude}, cfg.PermissionGranted)
}

// Fallback returns the coordinate used when resolution fails
func Fallback(cfg *config.LocationConfig) models.GeoCoordinate {
	return models.GeoCoordinate{Latitude: cfg.FallbackLatitude, Longitude: cfg.FallbackLongitude}
}
