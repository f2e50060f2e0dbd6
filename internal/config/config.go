package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	GeocoderAPIKey     string

	// HTTPTimeout bounds every outbound request.
	HTTPTimeout time.Duration

	// Outbound rate limit shared by all upstream calls.
	OutboundRPS   float64
	OutboundBurst int

	// RefreshInterval controls how often the scheduler refreshes cities.
	RefreshInterval time.Duration

	// Cities refreshed by the scheduler in addition to the last looked-up city.
	Cities []string

	// DefaultCity seeds the remembered last city at start-up.
	DefaultCity string

	HourlyForecastEnabled bool

	// DatabaseURL selects the PostgreSQL store; empty keeps reports in memory.
	DatabaseURL string

	// In-memory store retention.
	StoreMaxHistory int           // max number of reports per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of reports (0 = unlimited)

	Port     string
	LogLevel zerolog.Level
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	if cfg.OutboundRPS, err = getenvFloat("OUTBOUND_RPS", 5); err != nil {
		return nil, err
	}
	if cfg.OutboundBurst, err = getenvInt("OUTBOUND_BURST", 5); err != nil {
		return nil, err
	}
	// Roughly 24h at 15-minute intervals.
	if cfg.StoreMaxHistory, err = getenvInt("STORE_MAX_HISTORY", 96); err != nil {
		return nil, err
	}

	cfg.HourlyForecastEnabled, err = strconv.ParseBool(getenvDefault("HOURLY_FORECAST_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid HOURLY_FORECAST_ENABLED: %w", err)
	}

	cfg.Cities = splitList(os.Getenv("WEATHER_LOCATION_CITY"))
	cfg.DefaultCity = strings.TrimSpace(os.Getenv("DEFAULT_CITY"))
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.LogLevel, err = zerolog.ParseLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
