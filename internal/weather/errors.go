package weather

import "errors"

// Fetch failures surfaced to callers. Providers wrap the underlying cause, so
// callers should match with errors.Is.
var (
	// ErrInvalidCity covers an empty or unknown lookup target.
	ErrInvalidCity = errors.New("invalid city")
	// ErrNetwork covers transport, upstream and decoding failures.
	ErrNetwork = errors.New("network error")
	// ErrGeocoderDisabled is returned by Service.Search without a geocoder.
	ErrGeocoderDisabled = errors.New("geocoder not configured")
)

// UserMessage maps an error to the text shown to end users.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCity):
		return "Invalid city name. Please try again."
	case errors.Is(err, ErrNetwork):
		return "Unable to fetch weather data. Please check your connection."
	default:
		return "Something went wrong. Please try again."
	}
}
