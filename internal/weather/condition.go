package weather

import (
	"strings"

	"github.com/i474232898/weather-lookup/internal/common"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// NormalizeCondition maps an OpenWeatherMap "main" group, falling back to
// the free-text description when the group is unfamiliar.
func NormalizeCondition(summary, description string) Condition {
	switch summary {
	case "Clear":
		return ConditionClear
	case "Clouds":
		return ConditionCloudy
	case "Rain", "Drizzle":
		return ConditionRain
	case "Snow":
		return ConditionSnow
	case "Thunderstorm":
		return ConditionStorm
	case "Mist", "Fog", "Haze", "Smoke":
		return ConditionMist
	}

	text := strings.ToLower(description)
	switch {
	case text == "":
		return ConditionUnknown
	case common.HasAny(text, "thunder", "storm"):
		return ConditionStorm
	case common.HasAny(text, "rain", "shower", "drizzle"):
		return ConditionRain
	case common.HasAny(text, "snow", "sleet"):
		return ConditionSnow
	case common.HasAny(text, "mist", "fog", "haze"):
		return ConditionMist
	case common.HasAny(text, "cloud"):
		return ConditionCloudy
	case common.HasAny(text, "clear", "sunny"):
		return ConditionClear
	default:
		return ConditionUnknown
	}
}
