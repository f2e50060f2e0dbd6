package weather

import (
	"math"
	"strings"
)

// StaticHourlyChart is the fixed sample series the hourly chart renders when
// no hourly forecast is fetched.
func StaticHourlyChart() []HourlyPoint {
	return []HourlyPoint{
		{Time: "11am", Temperature: 22.0, RainIntensity: 0.28, RainProbability: 100, WindSpeed: 4.7},
		{Time: "12pm", Temperature: 22.5, RainIntensity: 0.15, RainProbability: 100, WindSpeed: 4.0},
		{Time: "1pm", Temperature: 23.0, RainIntensity: 0.75, RainProbability: 100, WindSpeed: 2.8},
		{Time: "2pm", Temperature: 23.5, RainIntensity: 0.62, RainProbability: 100, WindSpeed: 2.2},
		{Time: "3pm", Temperature: 24.0, RainIntensity: 0.87, RainProbability: 100, WindSpeed: 1.9},
		{Time: "4pm", Temperature: 24.2, RainIntensity: 0.81, RainProbability: 100, WindSpeed: 1.4},
		{Time: "5pm", Temperature: 24.5, RainIntensity: 0.47, RainProbability: 100, WindSpeed: 1.2},
		{Time: "6pm", Temperature: 24.3, RainIntensity: 0.80, RainProbability: 100, WindSpeed: 1.4},
		{Time: "7pm", Temperature: 24.0, RainIntensity: 0.89, RainProbability: 100, WindSpeed: 2.1},
	}
}

// HourlyChartFromEntries converts fetched hourly entries into chart points.
// Rain intensity is not part of ForecastEntry and is left at zero.
func HourlyChartFromEntries(entries []ForecastEntry) []HourlyPoint {
	points := make([]HourlyPoint, 0, len(entries))
	for _, e := range entries {
		points = append(points, HourlyPoint{
			Time:            hourLabel(e.TimestampText),
			Temperature:     e.Temperature - absoluteZeroC,
			RainProbability: int(math.Round(e.PrecipitationProbability * 100)),
			WindSpeed:       e.WindSpeed,
		})
	}
	return points
}

// hourLabel renders "2024-09-16 13:00:00" as "1pm". Unparseable input is
// returned unchanged.
func hourLabel(ts string) string {
	t, err := parseTimestamp(ts)
	if err != nil {
		return ts
	}
	return strings.ToLower(t.Format("3PM"))
}
