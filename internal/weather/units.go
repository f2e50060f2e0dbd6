package weather

import (
	"math"
	"strconv"
	"time"
)

const (
	absoluteZeroC = 273.15

	displayDateInput  = "2006-01-02"
	displayDateOutput = "Mon, Jan 2"
	currentDateTime   = "Jan 02, 3:04 PM"
	forecastTimestamp = "2006-01-02 15:04:05"
)

// KelvinToCelsius converts and rounds up to a whole degree, e.g. 300 K -> "27".
func KelvinToCelsius(kelvin float64) string {
	c := math.Ceil(kelvin - absoluteZeroC)
	if c == 0 {
		// ceil(-0.2) is -0, which would print as "-0".
		c = 0
	}
	return strconv.FormatFloat(c, 'f', 0, 64)
}

// MetersToKilometers divides by 1000 without rounding.
func MetersToKilometers(meters float64) float64 {
	return meters / 1000.0
}

// CalculateDewPoint uses the linear approximation
// temp - (100 - humidity) / 5. It is not the Magnus formula.
func CalculateDewPoint(tempC, humidity float64) float64 {
	return tempC - ((100 - humidity) / 5)
}

// FormatDisplayDate turns "2024-09-16" into "Mon, Sep 16". The second return
// value is false when the input is not a yyyy-MM-dd date.
func FormatDisplayDate(date string) (string, bool) {
	t, err := time.Parse(displayDateInput, date)
	if err != nil {
		return "", false
	}
	return t.Format(displayDateOutput), true
}

// FormatCurrentDateTime renders t like "Sep 16, 3:04 PM".
func FormatCurrentDateTime(t time.Time) string {
	return t.Format(currentDateTime)
}

func parseTimestamp(ts string) (time.Time, error) {
	return time.Parse(forecastTimestamp, ts)
}
