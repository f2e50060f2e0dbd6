package weather

import (
	"fmt"
	"strings"
	"time"
)

// Coordinates is a latitude/longitude pair as reported by OpenWeatherMap.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Key returns a canonical string key for indexing coordinate lookups in stores.
func (c Coordinates) Key() string {
	return fmt.Sprintf("@%.4f,%.4f", c.Lat, c.Lon)
}

// CityKey normalizes a city name for indexing in stores.
func CityKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// ForecastEntry is one three-hourly weather sample from the forecast list.
// Temperatures are Kelvin, wind speed m/s, visibility meters.
type ForecastEntry struct {
	// ID is assigned when the entry is parsed; only its uniqueness matters.
	ID string `json:"id"`

	// TimestampText is "yyyy-MM-dd HH:mm:ss" in the upstream payload and
	// just "yyyy-MM-dd" once the entry went through ReduceToDaily.
	TimestampText string `json:"dtTxt"`

	Temperature float64 `json:"temp"`
	FeelsLike   float64 `json:"feelsLike"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`
	Pressure    int     `json:"pressure"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Visibility  int     `json:"visibility"`

	ConditionSummary     string `json:"main"`
	ConditionDescription string `json:"description"`
	IconCode             string `json:"icon"`

	PrecipitationProbability float64 `json:"pop"`
}

// CurrentConditions is the normalized current-weather payload for a place.
type CurrentConditions struct {
	City        string      `json:"city"`
	Country     string      `json:"country"`
	Coordinates Coordinates `json:"coord"`

	Temperature float64 `json:"temp"`
	FeelsLike   float64 `json:"feelsLike"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`
	Pressure    int     `json:"pressure"`
	Humidity    int     `json:"humidity"`
	Visibility  int     `json:"visibility"`
	WindSpeed   float64 `json:"windSpeed"`
	WindDeg     int     `json:"windDeg"`
	Cloudiness  int     `json:"clouds"`

	ConditionSummary     string `json:"main"`
	ConditionDescription string `json:"description"`
	IconCode             string `json:"icon"`

	ObservedAt time.Time `json:"observedAt"` // always UTC
	Sunrise    time.Time `json:"sunrise"`
	Sunset     time.Time `json:"sunset"`
	// TimezoneOffset is the shift from UTC in seconds.
	TimezoneOffset int `json:"timezone"`
}

// Report is the result of one lookup: current conditions plus the daily
// forecast built from the same fetch cycle.
type Report struct {
	Current CurrentConditions `json:"current"`
	Daily   []ForecastEntry   `json:"daily"`

	// ForecastError is set when current conditions were fetched but the
	// forecast call failed.
	ForecastError string    `json:"forecastError,omitempty"`
	FetchedAt     time.Time `json:"fetchedAt"`
}

// HourlyPoint is one sample of the hourly chart series.
type HourlyPoint struct {
	Time            string  `json:"time"`
	Temperature     float64 `json:"temperatureC"`
	RainIntensity   float64 `json:"rainIntensityMmH"`
	RainProbability int     `json:"rainProbability"`
	WindSpeed       float64 `json:"windSpeed"`
}

// MapPin marks a searched place on a map.
type MapPin struct {
	Title       string      `json:"title"`
	Coordinates Coordinates `json:"coord"`
}
