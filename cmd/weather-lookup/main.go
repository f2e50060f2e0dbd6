package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	httpapi "github.com/i474232898/weather-lookup/internal/api/http"
	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/scheduler"
	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
	"github.com/i474232898/weather-lookup/internal/weather/providers"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if cfg.OpenWeatherAPIKey == "" {
		log.Warn().Msg("OPENWEATHER_API_KEY is not set; lookups will fail")
	}

	// Shared HTTP client and rate limit for outbound calls.
	httpCfg := providers.HTTPClientConfig{
		Client:  &http.Client{Timeout: cfg.HTTPTimeout},
		Backoff: providers.DefaultBackoff,
		Limiter: rate.NewLimiter(rate.Limit(cfg.OutboundRPS), cfg.OutboundBurst),
	}
	client := providers.NewOpenWeatherClient(httpCfg, cfg.OpenWeatherAPIKey, cfg.OpenWeatherBaseURL)

	// Report store: PostgreSQL when DATABASE_URL is set, memory otherwise.
	var st weather.Store
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL, cfg.StoreMaxHistory, cfg.StoreMaxAge)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pgStore.Close()
		st = pgStore
	} else {
		st = store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	}
	if _, ok := st.LastCity(); !ok && cfg.DefaultCity != "" {
		st.SetLastCity(cfg.DefaultCity)
	}

	opts := []weather.Option{weather.WithHourlyForecast(cfg.HourlyForecastEnabled)}
	if g := providers.NewGoogleGeocoder(cfg.GeocoderAPIKey); g != nil {
		opts = append(opts, weather.WithGeocoder(g))
	} else {
		log.Info().Msg("GEOCODER_API_KEY is not set; location search disabled")
	}

	service := weather.NewService(st, client, opts...)

	// Warm the store for the remembered city.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := service.RefreshLastCity(ctx); err != nil {
			log.Warn().Err(err).Msg("initial refresh of last city failed")
		}
	}()

	// Scheduler that periodically refreshes reports.
	sched := scheduler.New(cfg.Cities, cfg.RefreshInterval, service)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-lookup",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          20 * time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-lookup",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}
