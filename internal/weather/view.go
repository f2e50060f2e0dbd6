package weather

import (
	"fmt"
	"strconv"
	"time"

	"github.com/i474232898/weather-lookup/internal/common"
)

// CurrentView is the display-ready form of CurrentConditions.
type CurrentView struct {
	Place       string      `json:"place"`
	DateTime    string      `json:"dateTime"`
	Coordinates Coordinates `json:"coord"`
	Temperature string      `json:"temperature"`
	FeelsLike   string      `json:"feelsLike"`
	Summary     string      `json:"summary"`
	Description string      `json:"description"`
	Condition   Condition   `json:"condition"`
	Icon        string      `json:"icon"`
	Wind        string      `json:"wind"`
	Humidity    string      `json:"humidity"`
	Pressure    string      `json:"pressure"`
	DewPoint    string      `json:"dewPoint"`
	Visibility  string      `json:"visibility"`
}

// DayView is the display-ready form of one daily forecast entry.
type DayView struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Condition   Condition `json:"condition"`
	Icon        string    `json:"icon"`
	HighLow     string    `json:"highLow"`
	Outlook     string    `json:"outlook"`
	Wind        string    `json:"wind"`
	Humidity    string    `json:"humidity"`
	Pressure    string    `json:"pressure"`
	DewPoint    string    `json:"dewPoint"`
	Pop         float64   `json:"pop"`
}

// ReportView bundles the views for one lookup.
type ReportView struct {
	Current       CurrentView `json:"current"`
	Daily         []DayView   `json:"daily"`
	ForecastError string      `json:"forecastError,omitempty"`
}

// NewCurrentView formats current conditions; now is the reader's clock.
func NewCurrentView(c CurrentConditions, now time.Time) CurrentView {
	place := c.City
	if c.Country != "" {
		place = fmt.Sprintf("%s, %s", c.City, c.Country)
	}

	return CurrentView{
		Place:       place,
		DateTime:    FormatCurrentDateTime(now),
		Coordinates: c.Coordinates,
		Temperature: KelvinToCelsius(c.Temperature) + "°C",
		FeelsLike:   "Feels like " + KelvinToCelsius(c.FeelsLike) + "°C",
		Summary:     c.ConditionSummary + ".",
		Description: c.ConditionDescription,
		Condition:   NormalizeCondition(c.ConditionSummary, c.ConditionDescription),
		Icon:        c.IconCode,
		Wind:        formatWind(c.WindSpeed),
		Humidity:    fmt.Sprintf("Humidity: %d%%", c.Humidity),
		Pressure:    fmt.Sprintf("%dhPa", c.Pressure),
		DewPoint:    formatDewPoint(c.FeelsLike, c.Humidity),
		Visibility:  fmt.Sprintf("Visibility: %.1fKm", MetersToKilometers(float64(c.Visibility))),
	}
}

// NewDayView formats a reduced forecast entry. Entries whose date does not
// parse get an empty Date.
func NewDayView(e ForecastEntry) DayView {
	date, _ := FormatDisplayDate(e.TimestampText)
	high := KelvinToCelsius(e.TempMax)
	low := KelvinToCelsius(e.TempMin)

	return DayView{
		ID:          e.ID,
		Date:        date,
		Description: common.FirstNonEmpty(e.ConditionDescription, e.ConditionSummary),
		Condition:   NormalizeCondition(e.ConditionSummary, e.ConditionDescription),
		Icon:        e.IconCode,
		HighLow:     fmt.Sprintf("%s/%s °C", high, low),
		Outlook:     fmt.Sprintf("The high will be %s°C, the low will be %s°C", high, low),
		Wind:        formatWind(e.WindSpeed),
		Humidity:    fmt.Sprintf("Humidity: %d%%", e.Humidity),
		Pressure:    fmt.Sprintf("%dhPa", e.Pressure),
		DewPoint:    formatDewPoint(e.FeelsLike, e.Humidity),
		Pop:         e.PrecipitationProbability,
	}
}

// NewReportView formats a whole report.
func NewReportView(r Report, now time.Time) ReportView {
	days := make([]DayView, 0, len(r.Daily))
	for _, e := range r.Daily {
		days = append(days, NewDayView(e))
	}
	return ReportView{
		Current:       NewCurrentView(r.Current, now),
		Daily:         days,
		ForecastError: r.ForecastError,
	}
}

func formatWind(speed float64) string {
	return fmt.Sprintf("%.1fm/s", speed)
}

// formatDewPoint feeds the displayed (ceiled) feels-like Celsius value into
// the dew point approximation.
func formatDewPoint(feelsLikeK float64, humidity int) string {
	tempC, err := strconv.ParseFloat(KelvinToCelsius(feelsLikeK), 64)
	if err != nil {
		tempC = 0
	}
	return fmt.Sprintf("Dew Point: %.1f °C", CalculateDewPoint(tempC, float64(humidity)))
}
