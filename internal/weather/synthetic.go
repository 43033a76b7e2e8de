package weather

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

var (
	currentConditions  = []Condition{ConditionClear, ConditionClouds, ConditionRain}
	forecastConditions = []Condition{ConditionClear, ConditionClouds, ConditionRain, ConditionStorm}
)

// Simulator produces plausible seasonal weather when no OpenWeatherMap
// credential is configured.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		rng: rand.New(rand.NewSource(seed)),
		now: time.Now,
	}
}

// seasonalBase is the typical temperature in °F for the month's season.
func seasonalBase(m time.Month) float64 {
	switch m {
	case time.December, time.January, time.February:
		return 35
	case time.March, time.April, time.May:
		return 65
	case time.June, time.July, time.August:
		return 85
	default:
		return 60
	}
}

// Observation returns a synthetic current reading plus a five-day outlook.
// The diurnal curve peaks near 18:00 and bottoms out near 06:00 local time.
func (s *Simulator) Observation() Observation {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	base := seasonalBase(now.Month())
	hour := float64(now.Hour())
	diurnal := 15 * math.Sin(2*math.Pi*(hour-12)/24)
	jitter := float64(s.rng.Intn(11) - 5)

	obs := Observation{
		Temperature: int(math.Round(base + diurnal + jitter)),
		Condition:   currentConditions[s.rng.Intn(len(currentConditions))],
		Humidity:    40 + s.rng.Intn(41),
		Forecast:    make([]ForecastDay, 0, 5),
	}

	for day := 1; day <= 5; day++ {
		high := int(base) + s.rng.Intn(11)
		low := high - 10 - s.rng.Intn(11)
		obs.Forecast = append(obs.Forecast, ForecastDay{
			Date:      now.AddDate(0, 0, day).Format("2006-01-02"),
			TempHigh:  high,
			TempLow:   low,
			Condition: forecastConditions[s.rng.Intn(len(forecastConditions))],
		})
	}

	return obs
}
