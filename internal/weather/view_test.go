package weather

import (
	"testing"
	"time"
)

func TestNewDayView(t *testing.T) {
	e := ForecastEntry{
		ID:                       "id-1",
		TimestampText:            "2024-09-16",
		FeelsLike:                292.9, // ceil(19.75) = 20 °C
		TempMin:                  290.0,
		TempMax:                  300.0,
		Pressure:                 1013,
		Humidity:                 50,
		WindSpeed:                3.456,
		ConditionSummary:         "Clouds",
		ConditionDescription:     "scattered clouds",
		IconCode:                 "03d",
		PrecipitationProbability: 0.4,
	}

	v := NewDayView(e)

	checks := []struct {
		field, got, want string
	}{
		{"ID", v.ID, "id-1"},
		{"Date", v.Date, "Mon, Sep 16"},
		{"Description", v.Description, "scattered clouds"},
		{"HighLow", v.HighLow, "27/17 °C"},
		{"Outlook", v.Outlook, "The high will be 27°C, the low will be 17°C"},
		{"Wind", v.Wind, "3.5m/s"},
		{"Humidity", v.Humidity, "Humidity: 50%"},
		{"Pressure", v.Pressure, "1013hPa"},
		{"DewPoint", v.DewPoint, "Dew Point: 10.0 °C"},
		{"Icon", v.Icon, "03d"},
		{"Condition", string(v.Condition), string(ConditionCloudy)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if v.Pop != 0.4 {
		t.Errorf("Pop = %v, want 0.4", v.Pop)
	}
}

func TestNewDayViewUnparseableDate(t *testing.T) {
	v := NewDayView(ForecastEntry{TimestampText: "garbage", ConditionSummary: "Rain"})
	if v.Date != "" {
		t.Errorf("Date = %q, want empty", v.Date)
	}
	if v.Description != "Rain" {
		t.Errorf("Description = %q, want summary fallback %q", v.Description, "Rain")
	}
}

func TestNewCurrentView(t *testing.T) {
	c := CurrentConditions{
		City:             "Plano",
		Country:          "US",
		Temperature:      300.0,
		FeelsLike:        299.0, // ceil(25.85) = 26
		Humidity:         60,
		Pressure:         1012,
		Visibility:       10000,
		WindSpeed:        3.1,
		ConditionSummary: "Clear",
		IconCode:         "01d",
	}
	now := time.Date(2024, time.September, 16, 15, 4, 0, 0, time.UTC)

	v := NewCurrentView(c, now)

	checks := []struct {
		field, got, want string
	}{
		{"Place", v.Place, "Plano, US"},
		{"DateTime", v.DateTime, "Sep 16, 3:04 PM"},
		{"Temperature", v.Temperature, "27°C"},
		{"FeelsLike", v.FeelsLike, "Feels like 26°C"},
		{"Summary", v.Summary, "Clear."},
		{"Wind", v.Wind, "3.1m/s"},
		{"Humidity", v.Humidity, "Humidity: 60%"},
		{"Pressure", v.Pressure, "1012hPa"},
		{"DewPoint", v.DewPoint, "Dew Point: 18.0 °C"},
		{"Visibility", v.Visibility, "Visibility: 10.0Km"},
		{"Condition", string(v.Condition), string(ConditionClear)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
}

func TestNewReportView(t *testing.T) {
	r := Report{
		Current: CurrentConditions{City: "Oslo"},
		Daily: []ForecastEntry{
			{ID: "1", TimestampText: "2024-09-16"},
			{ID: "2", TimestampText: "2024-09-17"},
		},
		ForecastError: "boom",
	}

	v := NewReportView(r, time.Now())

	if v.Current.Place != "Oslo" {
		t.Errorf("Place = %q, want Oslo", v.Current.Place)
	}
	if len(v.Daily) != 2 || v.Daily[1].Date != "Tue, Sep 17" {
		t.Errorf("Daily = %+v", v.Daily)
	}
	if v.ForecastError != "boom" {
		t.Errorf("ForecastError = %q", v.ForecastError)
	}
}

func TestNormalizeCondition(t *testing.T) {
	tests := []struct {
		summary, description string
		want                 Condition
	}{
		{"Clear", "clear sky", ConditionClear},
		{"Clouds", "overcast clouds", ConditionCloudy},
		{"Drizzle", "light intensity drizzle", ConditionRain},
		{"Thunderstorm", "", ConditionStorm},
		{"Fog", "fog", ConditionMist},
		{"", "heavy snow", ConditionSnow},
		{"", "thunderstorm with rain", ConditionStorm},
		{"", "", ConditionUnknown},
		{"Tornado", "tornado", ConditionUnknown},
	}

	for _, tt := range tests {
		if got := NormalizeCondition(tt.summary, tt.description); got != tt.want {
			t.Errorf("NormalizeCondition(%q, %q) = %q, want %q", tt.summary, tt.description, got, tt.want)
		}
	}
}

func TestHourlyChartFromEntries(t *testing.T) {
	points := HourlyChartFromEntries([]ForecastEntry{
		{TimestampText: "2024-09-16 13:00:00", Temperature: 295.15, PrecipitationProbability: 0.29, WindSpeed: 2},
		{TimestampText: "bad", Temperature: 273.15},
	})

	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Time != "1pm" || points[0].RainProbability != 29 || points[0].WindSpeed != 2 {
		t.Errorf("first point = %+v", points[0])
	}
	if d := points[0].Temperature - 22; d > 1e-9 || d < -1e-9 {
		t.Errorf("first point temperature = %v, want 22", points[0].Temperature)
	}
	if points[1].Time != "bad" {
		t.Errorf("unparseable time label = %q, want %q", points[1].Time, "bad")
	}
}

func TestStaticHourlyChart(t *testing.T) {
	points := StaticHourlyChart()
	if len(points) != 9 || points[0].Time != "11am" || points[8].Time != "7pm" {
		t.Fatalf("unexpected static series: %+v", points)
	}
}
