package weather

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/kelvins/geocoder"

	"github.com/DanielChillemi/pourcast/internal/cache"
)

// Service serves normalized weather observations. With an OpenWeatherMap
// key it fetches live data through the rate-limited cache; without one it
// falls back to the seasonal simulator. Either way, repeated requests for
// the same location within the TTL return identical data.
type Service struct {
	cache   *cache.Store
	client  *openWeatherClient
	sim     *Simulator
	geocode bool
	limits  cache.Limits
}

func NewService(store *cache.Store, httpc *http.Client, apiKey string, ttl time.Duration, geocodeEnabled bool) *Service {
	svc := &Service{
		cache:   store,
		sim:     NewSimulator(time.Now().UnixNano()),
		geocode: geocodeEnabled,
		limits:  cache.Limits{TTL: ttl, MaxCalls: 60, Window: time.Minute},
	}
	if apiKey != "" {
		svc.client = newOpenWeatherClient(httpc, apiKey)
	}
	return svc
}

// Live reports whether the service is backed by OpenWeatherMap.
func (s *Service) Live() bool { return s.client != nil }

// Current returns the observation for a location, sanitized first.
// Concurrent misses on the same location may each fetch; the cache keeps
// whichever result lands last.
func (s *Service) Current(ctx context.Context, rawLocation string) (Observation, error) {
	loc := SanitizeLocation(rawLocation)
	if loc == "" {
		return Observation{}, fmt.Errorf("weather: empty location")
	}

	if s.client == nil {
		lim := cache.Limits{TTL: s.limits.TTL, MaxCalls: 1 << 20, Window: time.Minute}
		return cache.GetOrFetch(ctx, s.cache, "weather-sim", loc, lim, func(context.Context) (Observation, error) {
			return s.sim.Observation(), nil
		})
	}

	coords := s.coordinates(ctx, loc)

	cur, err := cache.GetOrFetch(ctx, s.cache, "openweather", "current:"+loc, s.limits, func(ctx context.Context) (currentPayload, error) {
		return s.client.current(ctx, loc, coords)
	})
	if err != nil {
		return Observation{}, fmt.Errorf("openweather current: %w", err)
	}

	fc, err := cache.GetOrFetch(ctx, s.cache, "openweather", "forecast:"+loc, s.limits, func(ctx context.Context) (forecastPayload, error) {
		return s.client.forecast(ctx, loc, coords)
	})
	if err != nil {
		return Observation{}, fmt.Errorf("openweather forecast: %w", err)
	}

	return assemble(cur, fc), nil
}

// coordinates resolves a location name to lat/lon through the Google
// geocoder, cached for a day. A failed lookup falls back to
// OpenWeatherMap's own name matching.
func (s *Service) coordinates(ctx context.Context, loc string) *Coordinates {
	if !s.geocode {
		return nil
	}

	lim := cache.Limits{TTL: 24 * time.Hour, MaxCalls: 50, Window: time.Minute}
	coords, err := cache.GetOrFetch(ctx, s.cache, "geocoder", loc, lim, func(context.Context) (Coordinates, error) {
		res, err := geocoder.Geocoding(geocoder.Address{City: loc})
		if err != nil {
			return Coordinates{}, err
		}
		return Coordinates{Lat: res.Latitude, Lon: res.Longitude}, nil
	})
	if err != nil {
		log.Printf("weather: geocode %q failed, using name lookup: %v", loc, err)
		return nil
	}
	return &coords
}

// assemble joins the two OpenWeatherMap payloads into one Observation,
// downsampling the 3-hourly forecast list to one entry per day. The
// five-day endpoint returns eight entries per day, so every eighth entry
// lands at roughly the same time of day.
func assemble(cur currentPayload, fc forecastPayload) Observation {
	obs := Observation{
		Temperature: int(math.Round(cur.Main.Temp)),
		Condition:   conditionFrom(cur.Weather),
		Humidity:    cur.Main.Humidity,
		Forecast:    make([]ForecastDay, 0, 5),
	}

	for i := 0; i < len(fc.List) && len(obs.Forecast) < 5; i += 8 {
		item := fc.List[i]
		obs.Forecast = append(obs.Forecast, ForecastDay{
			Date:      time.Unix(item.Dt, 0).UTC().Format("2006-01-02"),
			TempHigh:  int(math.Round(item.Main.TempMax)),
			TempLow:   int(math.Round(item.Main.TempMin)),
			Condition: conditionFrom(item.Weather),
		})
	}

	return obs
}
