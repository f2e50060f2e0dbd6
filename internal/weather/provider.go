package weather

import (
	"context"
	"time"
)

// Client abstracts the upstream weather API (OpenWeatherMap).
type Client interface {
	Name() string
	FetchCurrent(ctx context.Context, city string) (CurrentConditions, error)
	FetchCurrentByCoordinates(ctx context.Context, coord Coordinates) (CurrentConditions, error)
	// FetchForecast returns the raw three-hourly list in upstream order.
	FetchForecast(ctx context.Context, coord Coordinates) ([]ForecastEntry, error)
}

// HourlyClient is implemented by clients that can fetch the hourly forecast.
type HourlyClient interface {
	FetchHourly(ctx context.Context, coord Coordinates) ([]ForecastEntry, error)
}

// Geocoder resolves a free-form city name into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, city string) (Coordinates, error)
}

// Store is the contract the in-memory store (and any future persistent store) must satisfy.
type Store interface {
	SaveReport(key string, report Report)
	GetLatest(key string) (Report, error)
	GetRange(key string, from, to time.Time) ([]Report, error)
	SetLastCity(city string)
	LastCity() (string, bool)
}
