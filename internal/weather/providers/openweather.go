package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherClient implements weather.Client and weather.HourlyClient for
// OpenWeatherMap. Temperatures are requested in the API's default Kelvin.
type OpenWeatherClient struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	newID   func() string
}

// NewOpenWeatherClient creates a client. An empty baseURL selects
// DefaultOpenWeatherBaseURL.
func NewOpenWeatherClient(httpCfg HTTPClientConfig, apiKey, baseURL string) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	if httpCfg.Backoff == (BackoffConfig{}) {
		httpCfg.Backoff = DefaultBackoff
	}

	return &OpenWeatherClient{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: httpCfg,
		circuit: newCircuitBreaker("openweather"),
		newID:   uuid.NewString,
	}
}

func (p *OpenWeatherClient) Name() string {
	return p.name
}

// FetchCurrent calls /weather?q=<city>.
func (p *OpenWeatherClient) FetchCurrent(ctx context.Context, city string) (weather.CurrentConditions, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return weather.CurrentConditions{}, fmt.Errorf("%w: empty city name", weather.ErrInvalidCity)
	}

	values := url.Values{}
	values.Set("q", city)

	var payload currentPayload
	if err := p.getJSON(ctx, "/weather", values, &payload); err != nil {
		return weather.CurrentConditions{}, err
	}
	return payload.toConditions(), nil
}

// FetchCurrentByCoordinates calls /weather?lat=&lon=.
func (p *OpenWeatherClient) FetchCurrentByCoordinates(ctx context.Context, coord weather.Coordinates) (weather.CurrentConditions, error) {
	var payload currentPayload
	if err := p.getJSON(ctx, "/weather", coordValues(coord), &payload); err != nil {
		return weather.CurrentConditions{}, err
	}
	return payload.toConditions(), nil
}

// FetchForecast calls /forecast?lat=&lon= and returns the three-hourly list
// in upstream order.
func (p *OpenWeatherClient) FetchForecast(ctx context.Context, coord weather.Coordinates) ([]weather.ForecastEntry, error) {
	var payload forecastPayload
	if err := p.getJSON(ctx, "/forecast", coordValues(coord), &payload); err != nil {
		return nil, err
	}
	return p.toEntries(payload.List), nil
}

// FetchHourly calls /forecast/hourly?lat=&lon=. The endpoint needs a paid
// OpenWeatherMap plan.
func (p *OpenWeatherClient) FetchHourly(ctx context.Context, coord weather.Coordinates) ([]weather.ForecastEntry, error) {
	var payload forecastPayload
	if err := p.getJSON(ctx, "/forecast/hourly", coordValues(coord), &payload); err != nil {
		return nil, err
	}
	return p.toEntries(payload.List), nil
}

func (p *OpenWeatherClient) getJSON(ctx context.Context, path string, values url.Values, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("%w: openweather api key is not configured", weather.ErrNetwork)
	}

	buildRequest := func() (*http.Request, error) {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("appid", p.apiKey)

		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, q.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", weather.ErrNetwork, path, err)
	}
	return nil
}

func (p *OpenWeatherClient) toEntries(items []forecastItem) []weather.ForecastEntry {
	entries := make([]weather.ForecastEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, item.toEntry(p.newID()))
	}
	return entries
}

func coordValues(coord weather.Coordinates) url.Values {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	return values
}

// Payload shapes below mirror the OpenWeatherMap JSON field names and nesting.

type mainBlock struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
	SeaLevel  int     `json:"sea_level"`
	GrndLevel int     `json:"grnd_level"`
}

type conditionBlock struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type windBlock struct {
	Speed float64 `json:"speed"`
	Deg   int     `json:"deg"`
	Gust  float64 `json:"gust"`
}

type currentPayload struct {
	Coord      weather.Coordinates `json:"coord"`
	Weather    []conditionBlock    `json:"weather"`
	Main       mainBlock           `json:"main"`
	Visibility int                 `json:"visibility"`
	Wind       windBlock           `json:"wind"`
	Clouds     struct {
		All int `json:"all"`
	} `json:"clouds"`
	Dt  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	ID       int    `json:"id"`
	Name     string `json:"name"`
}

func (c currentPayload) toConditions() weather.CurrentConditions {
	cond := firstCondition(c.Weather)

	observed := time.Now().UTC()
	if c.Dt > 0 {
		observed = time.Unix(c.Dt, 0).UTC()
	}

	return weather.CurrentConditions{
		City:                 c.Name,
		Country:              c.Sys.Country,
		Coordinates:          c.Coord,
		Temperature:          c.Main.Temp,
		FeelsLike:            c.Main.FeelsLike,
		TempMin:              c.Main.TempMin,
		TempMax:              c.Main.TempMax,
		Pressure:             c.Main.Pressure,
		Humidity:             c.Main.Humidity,
		Visibility:           c.Visibility,
		WindSpeed:            c.Wind.Speed,
		WindDeg:              c.Wind.Deg,
		Cloudiness:           c.Clouds.All,
		ConditionSummary:     cond.Main,
		ConditionDescription: cond.Description,
		IconCode:             cond.Icon,
		ObservedAt:           observed,
		Sunrise:              time.Unix(c.Sys.Sunrise, 0).UTC(),
		Sunset:               time.Unix(c.Sys.Sunset, 0).UTC(),
		TimezoneOffset:       c.Timezone,
	}
}

type forecastPayload struct {
	Cod  string         `json:"cod"`
	Cnt  int            `json:"cnt"`
	List []forecastItem `json:"list"`
	City struct {
		ID      int                 `json:"id"`
		Name    string              `json:"name"`
		Coord   weather.Coordinates `json:"coord"`
		Country string              `json:"country"`
	} `json:"city"`
}

type forecastItem struct {
	Dt         int64            `json:"dt"`
	Main       mainBlock        `json:"main"`
	Weather    []conditionBlock `json:"weather"`
	Wind       windBlock        `json:"wind"`
	Visibility int              `json:"visibility"`
	Pop        float64          `json:"pop"`
	DtTxt      string           `json:"dt_txt"`
}

func (f forecastItem) toEntry(id string) weather.ForecastEntry {
	cond := firstCondition(f.Weather)
	return weather.ForecastEntry{
		ID:                       id,
		TimestampText:            f.DtTxt,
		Temperature:              f.Main.Temp,
		FeelsLike:                f.Main.FeelsLike,
		TempMin:                  f.Main.TempMin,
		TempMax:                  f.Main.TempMax,
		Pressure:                 f.Main.Pressure,
		Humidity:                 f.Main.Humidity,
		WindSpeed:                f.Wind.Speed,
		Visibility:               f.Visibility,
		ConditionSummary:         cond.Main,
		ConditionDescription:     cond.Description,
		IconCode:                 cond.Icon,
		PrecipitationProbability: f.Pop,
	}
}

func firstCondition(items []conditionBlock) conditionBlock {
	if len(items) == 0 {
		return conditionBlock{}
	}
	return items[0]
}

var (
	_ weather.Client       = (*OpenWeatherClient)(nil)
	_ weather.HourlyClient = (*OpenWeatherClient)(nil)
)
