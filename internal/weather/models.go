package weather

import "strings"

// Condition is a high-level sky condition in OpenWeatherMap's vocabulary
// (for example "Clear" or "Rain"). Synthetic observations use the same
// vocabulary, so downstream demand rules never care which mode produced
// a reading. Unrecognized upstream values pass through untouched.
type Condition string

const (
	ConditionClear   Condition = "Clear"
	ConditionClouds  Condition = "Clouds"
	ConditionRain    Condition = "Rain"
	ConditionDrizzle Condition = "Drizzle"
	ConditionStorm   Condition = "Thunderstorm"
	ConditionSnow    Condition = "Snow"
	ConditionMist    Condition = "Mist"
)

// ForecastDay is one day of outlook, temperatures in whole °F.
type ForecastDay struct {
	Date      string    `json:"date"` // YYYY-MM-DD
	TempHigh  int       `json:"tempHigh"`
	TempLow   int       `json:"tempLow"`
	Condition Condition `json:"condition"`
}

// Observation is the normalized weather view served to clients: the
// current reading plus a five-day outlook.
type Observation struct {
	Temperature int           `json:"temperature"` // °F
	Condition   Condition     `json:"condition"`
	Humidity    int           `json:"humidity"` // percent
	Forecast    []ForecastDay `json:"forecast"`
}

// Coordinates is a resolved latitude/longitude pair for a location name.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SanitizeLocation trims surrounding whitespace and strips control
// characters and URL-breaking punctuation from a user-supplied location.
// An empty result means the input was unusable.
func SanitizeLocation(raw string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		switch r {
		case '<', '>', '&', '"', '\'', ';', '{', '}':
			return -1
		}
		return r
	}, raw)
	return strings.TrimSpace(cleaned)
}
