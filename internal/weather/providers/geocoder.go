package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// geocoder keeps its API key in a package variable.
var geocoderMu sync.Mutex

// GoogleGeocoder resolves city names through the Google Geocoding API.
type GoogleGeocoder struct {
	apiKey string
	lookup func(geocoder.Address) (geocoder.Location, error)
}

// NewGoogleGeocoder returns a geocoder, or nil when apiKey is empty.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	if apiKey == "" {
		return nil
	}
	return &GoogleGeocoder{
		apiKey: apiKey,
		lookup: geocoder.Geocoding,
	}
}

// Geocode implements weather.Geocoder.
func (g *GoogleGeocoder) Geocode(ctx context.Context, city string) (weather.Coordinates, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return weather.Coordinates{}, fmt.Errorf("%w: empty city name", weather.ErrInvalidCity)
	}
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: %w", weather.ErrNetwork, err)
	}

	geocoderMu.Lock()
	geocoder.ApiKey = g.apiKey
	loc, err := g.lookup(geocoder.Address{City: city})
	geocoderMu.Unlock()

	if err != nil {
		return weather.Coordinates{}, fmt.Errorf("%w: geocoding %q: %w", weather.ErrNetwork, city, err)
	}
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return weather.Coordinates{}, fmt.Errorf("%w: no geocoding result for %q", weather.ErrInvalidCity, city)
	}

	return weather.Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}, nil
}

var _ weather.Geocoder = (*GoogleGeocoder)(nil)
