package weather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Service orchestrates upstream fetches, daily reduction and the report store.
type Service struct {
	store    Store
	client   Client
	geocoder Geocoder

	hourlyEnabled bool
	now           func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithGeocoder enables Search.
func WithGeocoder(g Geocoder) Option {
	return func(s *Service) {
		s.geocoder = g
	}
}

// WithHourlyForecast makes HourlyChart fetch the upstream hourly forecast
// instead of serving the static series.
func WithHourlyForecast(enabled bool) Option {
	return func(s *Service) {
		s.hourlyEnabled = enabled
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service.
func NewService(store Store, client Client, opts ...Option) *Service {
	s := &Service{
		store:  store,
		client: client,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// Lookup fetches current conditions for a city and, using the coordinates
// from that response, the daily forecast. A successful current fetch makes
// city the remembered last city. A failed forecast is reported on the Report
// and does not fail the lookup.
func (s *Service) Lookup(ctx context.Context, city string) (Report, error) {
	return s.lookupCity(ctx, city, true)
}

// Refresh is Lookup without touching the remembered last city.
func (s *Service) Refresh(ctx context.Context, city string) (Report, error) {
	return s.lookupCity(ctx, city, false)
}

func (s *Service) lookupCity(ctx context.Context, city string, remember bool) (Report, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return Report{}, fmt.Errorf("%w: empty city name", ErrInvalidCity)
	}
	if s.client == nil {
		return Report{}, fmt.Errorf("%w: no weather client configured", ErrNetwork)
	}

	current, err := s.client.FetchCurrent(ctx, city)
	if err != nil {
		log.Warn().Err(err).Str("city", city).Str("client", s.client.Name()).Msg("current weather fetch failed")
		return Report{}, err
	}
	if remember {
		s.store.SetLastCity(city)
	}

	report := s.completeReport(ctx, current)
	s.store.SaveReport(CityKey(city), report)
	return report, nil
}

// LookupCoordinates is Lookup keyed by device coordinates. It does not change
// the remembered last city.
func (s *Service) LookupCoordinates(ctx context.Context, coord Coordinates) (Report, error) {
	if s.client == nil {
		return Report{}, fmt.Errorf("%w: no weather client configured", ErrNetwork)
	}

	current, err := s.client.FetchCurrentByCoordinates(ctx, coord)
	if err != nil {
		log.Warn().Err(err).Str("coord", coord.Key()).Msg("current weather fetch failed")
		return Report{}, err
	}

	report := s.completeReport(ctx, current)
	s.store.SaveReport(coord.Key(), report)
	return report, nil
}

func (s *Service) completeReport(ctx context.Context, current CurrentConditions) Report {
	report := Report{
		Current:   current,
		Daily:     []ForecastEntry{},
		FetchedAt: s.now().UTC(),
	}

	daily, err := s.DailyForecast(ctx, current.Coordinates)
	if err != nil {
		log.Warn().Err(err).Str("city", current.City).Msg("forecast fetch failed; returning current conditions only")
		report.ForecastError = UserMessage(err)
		return report
	}
	report.Daily = daily
	return report
}

// DailyForecast fetches the three-hourly forecast for coord and reduces it to
// one entry per calendar day.
func (s *Service) DailyForecast(ctx context.Context, coord Coordinates) ([]ForecastEntry, error) {
	if s.client == nil {
		return nil, fmt.Errorf("%w: no weather client configured", ErrNetwork)
	}

	raw, err := s.client.FetchForecast(ctx, coord)
	if err != nil {
		return nil, err
	}

	daily := ReduceToDaily(raw)
	log.Debug().Int("raw", len(raw)).Int("daily", len(daily)).Str("coord", coord.Key()).Msg("forecast reduced")
	return daily, nil
}

// HourlyChart returns the hourly chart series. Without hourly fetching, or
// when the fetch fails, it is the static sample series.
func (s *Service) HourlyChart(ctx context.Context, coord Coordinates) []HourlyPoint {
	if !s.hourlyEnabled {
		return StaticHourlyChart()
	}

	hc, ok := s.client.(HourlyClient)
	if !ok {
		return StaticHourlyChart()
	}

	entries, err := hc.FetchHourly(ctx, coord)
	if err != nil || len(entries) == 0 {
		log.Warn().Err(err).Str("coord", coord.Key()).Msg("hourly forecast unavailable; using static series")
		return StaticHourlyChart()
	}
	return HourlyChartFromEntries(entries)
}

// Search geocodes a city into a map pin.
func (s *Service) Search(ctx context.Context, city string) (MapPin, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return MapPin{}, fmt.Errorf("%w: empty city name", ErrInvalidCity)
	}
	if s.geocoder == nil {
		return MapPin{}, ErrGeocoderDisabled
	}

	coord, err := s.geocoder.Geocode(ctx, city)
	if err != nil {
		log.Warn().Err(err).Str("city", city).Msg("geocoding failed")
		return MapPin{}, err
	}
	return MapPin{Title: city, Coordinates: coord}, nil
}

// Latest delegates to the underlying store.
func (s *Service) Latest(city string) (Report, error) {
	return s.store.GetLatest(CityKey(city))
}

// History returns the stored reports for a city fetched within [from, to].
func (s *Service) History(city string, from, to time.Time) ([]Report, error) {
	return s.store.GetRange(CityKey(city), from, to)
}

// LastCity returns the most recently looked-up city, if any.
func (s *Service) LastCity() (string, bool) {
	return s.store.LastCity()
}

// RefreshLastCity re-runs Lookup for the remembered city. It is a no-op when
// no city has been looked up yet.
func (s *Service) RefreshLastCity(ctx context.Context) error {
	city, ok := s.store.LastCity()
	if !ok {
		return nil
	}
	_, err := s.Refresh(ctx, city)
	return err
}
