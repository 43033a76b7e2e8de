package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port        string
	MetricsPort string

	OpenWeatherAPIKey   string
	GoogleVisionAPIKey  string
	GoogleMapsAPIKey    string
	BarcodeLookupAPIKey string

	// DatabaseURL switches the catalog to Postgres when set.
	DatabaseURL string

	// DefaultLocation answers forecast requests without a location.
	DefaultLocation string

	// WarmLocations are kept fresh by the background scheduler.
	WarmLocations []string

	WeatherCacheTTL time.Duration
	ProductCacheTTL time.Duration
	RefreshInterval time.Duration
	HTTPTimeout     time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:        getenvDefault("PORT", "8080"),
		MetricsPort: getenvDefault("METRICS_PORT", "9091"),

		OpenWeatherAPIKey:   os.Getenv("OPENWEATHER_API_KEY"),
		GoogleVisionAPIKey:  os.Getenv("GOOGLE_VISION_API_KEY"),
		GoogleMapsAPIKey:    os.Getenv("GOOGLE_MAPS_API_KEY"),
		BarcodeLookupAPIKey: os.Getenv("BARCODELOOKUP_API_KEY"),

		DatabaseURL:     os.Getenv("DATABASE_URL"),
		DefaultLocation: getenvDefault("DEFAULT_LOCATION", "Austin"),
	}

	cfg.WarmLocations = splitList(getenvDefault("WARM_LOCATIONS", cfg.DefaultLocation))

	var err error
	if cfg.WeatherCacheTTL, err = getenvDuration("WEATHER_CACHE_TTL", "10m"); err != nil {
		return nil, err
	}
	if cfg.ProductCacheTTL, err = getenvDuration("PRODUCT_CACHE_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("WEATHER_REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
