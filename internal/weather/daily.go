package weather

import "strings"

// DatePortion returns everything before the first space of a forecast
// timestamp, or the whole string when it has no space.
func DatePortion(timestampText string) string {
	if i := strings.IndexByte(timestampText, ' '); i >= 0 {
		return timestampText[:i]
	}
	return timestampText
}

// ReduceToDaily collapses a chronological three-hourly forecast into at most
// one entry per calendar date. The first entry seen for a date wins and its
// TimestampText is cut down to the date. Dates that do not parse are still
// grouped by their literal text. The input slice is left untouched.
func ReduceToDaily(raw []ForecastEntry) []ForecastEntry {
	daily := make([]ForecastEntry, 0, len(raw)/8+1)
	seen := make(map[string]struct{}, len(raw)/8+1)

	for _, entry := range raw {
		date := DatePortion(entry.TimestampText)
		if _, ok := seen[date]; ok {
			continue
		}
		seen[date] = struct{}{}

		entry.TimestampText = date
		daily = append(daily, entry)
	}

	return daily
}
