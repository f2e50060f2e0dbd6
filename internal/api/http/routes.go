package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/weather-lookup/internal/store"
	"github.com/i474232898/weather-lookup/internal/weather"
)

var validate = validator.New()

// requestTimeout bounds the upstream calls made on behalf of one request.
const requestTimeout = 15 * time.Second

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		report, err := service.Lookup(ctx, q.City)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(weather.NewReportView(report, service.Now()))
	})

	v1.Get("/weather/coordinates", func(c *fiber.Ctx) error {
		q, err := parseCoordinatesQuery(c, true)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		report, err := service.LookupCoordinates(ctx, q.toCoordinates())
		if err != nil {
			return mapError(err)
		}
		return c.JSON(weather.NewReportView(report, service.Now()))
	})

	v1.Get("/weather/last", func(c *fiber.Ctx) error {
		city, ok := service.LastCity()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no city has been looked up yet")
		}

		report, err := service.Latest(city)
		if errors.Is(err, store.ErrNotFound) {
			ctx, cancel := requestContext(c)
			defer cancel()
			report, err = service.Refresh(ctx, city)
		}
		if err != nil {
			return mapError(err)
		}
		return c.JSON(weather.NewReportView(report, service.Now()))
	})

	v1.Get("/weather/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reports, err := service.History(req.City.City, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather history for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather history")
		}

		return c.JSON(fiber.Map{
			"city":    req.City.City,
			"from":    req.From,
			"to":      req.To,
			"reports": reports,
		})
	})

	v1.Get("/forecast/daily", func(c *fiber.Ctx) error {
		q, err := parseCoordinatesQuery(c, true)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		daily, err := service.DailyForecast(ctx, q.toCoordinates())
		if err != nil {
			return mapError(err)
		}

		days := make([]weather.DayView, 0, len(daily))
		for _, e := range daily {
			days = append(days, weather.NewDayView(e))
		}
		return c.JSON(fiber.Map{"days": days})
	})

	v1.Get("/forecast/hourly", func(c *fiber.Ctx) error {
		q, err := parseCoordinatesQuery(c, false)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		return c.JSON(fiber.Map{"points": service.HourlyChart(ctx, q.toCoordinates())})
	})

	v1.Get("/search", func(c *fiber.Ctx) error {
		q, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		pin, err := service.Search(ctx, q.City)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(pin)
	})
}

// ErrorHandler renders every handler error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Int("status", code).Msg("request failed")
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// mapError turns service errors into HTTP errors with user-facing messages.
func mapError(err error) error {
	switch {
	case errors.Is(err, weather.ErrInvalidCity):
		return fiber.NewError(fiber.StatusNotFound, weather.UserMessage(err))
	case errors.Is(err, weather.ErrNetwork):
		return fiber.NewError(fiber.StatusBadGateway, weather.UserMessage(err))
	case errors.Is(err, weather.ErrGeocoderDisabled):
		return fiber.NewError(fiber.StatusNotImplemented, "location search is not configured")
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "no weather data for requested location")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}

func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), requestTimeout)
}

// cityQuery holds query parameters for identifying a city.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (cityQuery, error) {
	var q cityQuery

	q.City = c.Query("city")

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// coordinatesQuery holds latitude/longitude query parameters.
type coordinatesQuery struct {
	Lat float64 `validate:"min=-90,max=90"`
	Lon float64 `validate:"min=-180,max=180"`
}

func (q coordinatesQuery) toCoordinates() weather.Coordinates {
	return weather.Coordinates{Lat: q.Lat, Lon: q.Lon}
}

// parseCoordinatesQuery reads lat/lon. When required is false both may be
// omitted, which yields 0,0.
func parseCoordinatesQuery(c *fiber.Ctx, required bool) (coordinatesQuery, error) {
	var q coordinatesQuery

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" && lonStr == "" && !required {
		return q, nil
	}
	if latStr == "" || lonStr == "" {
		return q, errors.New("lat and lon query parameters are required")
	}

	var err error
	if q.Lat, err = strconv.ParseFloat(latStr, 64); err != nil {
		return q, errors.New("invalid lat; expected a decimal number")
	}
	if q.Lon, err = strconv.ParseFloat(lonStr, 64); err != nil {
		return q, errors.New("invalid lon; expected a decimal number")
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	City cityQuery
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	city, err := parseCityQuery(c)
	if err != nil {
		return err
	}
	h.City = city

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
