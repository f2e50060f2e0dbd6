package weather_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

type stubClient struct {
	current     weather.CurrentConditions
	currentErr  error
	forecast    []weather.ForecastEntry
	forecastErr error
	hourly      []weather.ForecastEntry
	hourlyErr   error

	forecastCoord weather.Coordinates
	cities        []string
}

func (s *stubClient) Name() string { return "stub" }

func (s *stubClient) FetchCurrent(_ context.Context, city string) (weather.CurrentConditions, error) {
	s.cities = append(s.cities, city)
	return s.current, s.currentErr
}

func (s *stubClient) FetchCurrentByCoordinates(_ context.Context, _ weather.Coordinates) (weather.CurrentConditions, error) {
	return s.current, s.currentErr
}

func (s *stubClient) FetchForecast(_ context.Context, coord weather.Coordinates) ([]weather.ForecastEntry, error) {
	s.forecastCoord = coord
	return s.forecast, s.forecastErr
}

func (s *stubClient) FetchHourly(_ context.Context, _ weather.Coordinates) ([]weather.ForecastEntry, error) {
	return s.hourly, s.hourlyErr
}

type stubGeocoder struct {
	coord weather.Coordinates
	err   error
}

func (g stubGeocoder) Geocode(_ context.Context, _ string) (weather.Coordinates, error) {
	return g.coord, g.err
}

func threeHourly(days int) []weather.ForecastEntry {
	var out []weather.ForecastEntry
	for d := 0; d < days; d++ {
		for h := 0; h < 24; h += 3 {
			out = append(out, weather.ForecastEntry{
				ID:            fmt.Sprintf("%d-%d", d, h),
				TimestampText: fmt.Sprintf("2024-09-%02d %02d:00:00", 16+d, h),
				TempMax:       float64(280 + d),
			})
		}
	}
	return out
}

var fixedNow = time.Date(2024, time.September, 16, 12, 0, 0, 0, time.UTC)

func newTestService(client weather.Client, opts ...weather.Option) (*weather.Service, *store.MemoryStore) {
	st := store.NewMemoryStore(10, 0)
	opts = append(opts, weather.WithClock(func() time.Time { return fixedNow }))
	return weather.NewService(st, client, opts...), st
}

func TestLookupReducesForecastAndRemembersCity(t *testing.T) {
	client := &stubClient{
		current:  weather.CurrentConditions{City: "Plano", Coordinates: weather.Coordinates{Lat: 33.0198, Lon: -96.6989}},
		forecast: threeHourly(5),
	}
	svc, _ := newTestService(client)

	report, err := svc.Lookup(context.Background(), "  Plano ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Daily) != 5 {
		t.Fatalf("expected 5 daily entries, got %d", len(report.Daily))
	}
	if report.Daily[0].TimestampText != "2024-09-16" || report.Daily[0].ID != "0-0" {
		t.Errorf("first day = %+v", report.Daily[0])
	}
	if client.forecastCoord != client.current.Coordinates {
		t.Errorf("forecast fetched for %+v, want %+v", client.forecastCoord, client.current.Coordinates)
	}
	if !report.FetchedAt.Equal(fixedNow) {
		t.Errorf("FetchedAt = %v, want %v", report.FetchedAt, fixedNow)
	}

	if city, ok := svc.LastCity(); !ok || city != "Plano" {
		t.Errorf("LastCity = %q, %v; want Plano, true", city, ok)
	}

	latest, err := svc.Latest("plano")
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(latest.Daily) != 5 {
		t.Errorf("stored report has %d days, want 5", len(latest.Daily))
	}
}

func TestLookupInvalidCity(t *testing.T) {
	client := &stubClient{currentErr: fmt.Errorf("%w: upstream status 404", weather.ErrInvalidCity)}
	svc, _ := newTestService(client)

	_, err := svc.Lookup(context.Background(), "Invalid City")
	if !errors.Is(err, weather.ErrInvalidCity) {
		t.Fatalf("expected ErrInvalidCity, got %v", err)
	}
	if got := weather.UserMessage(err); got != "Invalid city name. Please try again." {
		t.Errorf("UserMessage = %q", got)
	}
	if _, ok := svc.LastCity(); ok {
		t.Errorf("failed lookup must not change the last city")
	}

	if _, err := svc.Lookup(context.Background(), "   "); !errors.Is(err, weather.ErrInvalidCity) {
		t.Errorf("blank city: expected ErrInvalidCity, got %v", err)
	}
	if len(client.cities) != 1 {
		t.Errorf("blank city must not reach the client; calls = %v", client.cities)
	}
}

func TestLookupForecastFailureKeepsCurrent(t *testing.T) {
	client := &stubClient{
		current:     weather.CurrentConditions{City: "Oslo"},
		forecastErr: fmt.Errorf("%w: timeout", weather.ErrNetwork),
	}
	svc, _ := newTestService(client)

	report, err := svc.Lookup(context.Background(), "Oslo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Current.City != "Oslo" {
		t.Errorf("Current.City = %q", report.Current.City)
	}
	if report.ForecastError == "" {
		t.Errorf("expected ForecastError to be set")
	}
	if report.Daily == nil || len(report.Daily) != 0 {
		t.Errorf("Daily = %v, want empty", report.Daily)
	}
}

func TestRefreshDoesNotChangeLastCity(t *testing.T) {
	client := &stubClient{current: weather.CurrentConditions{City: "X"}, forecast: threeHourly(1)}
	svc, st := newTestService(client)
	st.SetLastCity("Plano")

	if _, err := svc.Refresh(context.Background(), "Oslo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if city, _ := svc.LastCity(); city != "Plano" {
		t.Errorf("LastCity = %q, want Plano", city)
	}

	if err := svc.RefreshLastCity(context.Background()); err != nil {
		t.Fatalf("RefreshLastCity: %v", err)
	}
	if got := client.cities; len(got) != 2 || got[1] != "Plano" {
		t.Errorf("client calls = %v", got)
	}
}

func TestRefreshLastCityWithoutCity(t *testing.T) {
	client := &stubClient{}
	svc, _ := newTestService(client)

	if err := svc.RefreshLastCity(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.cities) != 0 {
		t.Errorf("no lookup expected, got %v", client.cities)
	}
}

func TestLookupCoordinates(t *testing.T) {
	client := &stubClient{
		current:  weather.CurrentConditions{City: "Here", Coordinates: weather.Coordinates{Lat: 1, Lon: 2}},
		forecast: threeHourly(2),
	}
	svc, st := newTestService(client)

	report, err := svc.LookupCoordinates(context.Background(), weather.Coordinates{Lat: 1, Lon: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.Daily) != 2 {
		t.Errorf("expected 2 days, got %d", len(report.Daily))
	}
	if _, ok := svc.LastCity(); ok {
		t.Errorf("coordinate lookups must not set the last city")
	}
	if _, err := st.GetLatest(weather.Coordinates{Lat: 1, Lon: 2}.Key()); err != nil {
		t.Errorf("report not stored under coordinate key: %v", err)
	}
}

func TestHourlyChart(t *testing.T) {
	hourly := []weather.ForecastEntry{{TimestampText: "2024-09-16 13:00:00", Temperature: 293.15}}

	disabled, _ := newTestService(&stubClient{hourly: hourly})
	if got := disabled.HourlyChart(context.Background(), weather.Coordinates{}); len(got) != len(weather.StaticHourlyChart()) {
		t.Errorf("disabled hourly: got %d points, want static series", len(got))
	}

	enabled, _ := newTestService(&stubClient{hourly: hourly}, weather.WithHourlyForecast(true))
	if got := enabled.HourlyChart(context.Background(), weather.Coordinates{}); len(got) != 1 || got[0].Time != "1pm" {
		t.Errorf("enabled hourly: got %+v", got)
	}

	failing, _ := newTestService(&stubClient{hourlyErr: weather.ErrNetwork}, weather.WithHourlyForecast(true))
	if got := failing.HourlyChart(context.Background(), weather.Coordinates{}); len(got) != len(weather.StaticHourlyChart()) {
		t.Errorf("failing hourly: got %d points, want static series", len(got))
	}
}

func TestSearch(t *testing.T) {
	svc, _ := newTestService(&stubClient{})
	if _, err := svc.Search(context.Background(), "Plano"); !errors.Is(err, weather.ErrGeocoderDisabled) {
		t.Errorf("expected ErrGeocoderDisabled, got %v", err)
	}

	coord := weather.Coordinates{Lat: 33.0198, Lon: -96.6989}
	svc, _ = newTestService(&stubClient{}, weather.WithGeocoder(stubGeocoder{coord: coord}))
	pin, err := svc.Search(context.Background(), "Plano")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pin.Title != "Plano" || pin.Coordinates != coord {
		t.Errorf("pin = %+v", pin)
	}
}

func TestServiceWithoutClient(t *testing.T) {
	svc, _ := newTestService(nil)
	if _, err := svc.Lookup(context.Background(), "Plano"); !errors.Is(err, weather.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
	if _, err := svc.DailyForecast(context.Background(), weather.Coordinates{}); !errors.Is(err, weather.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}
