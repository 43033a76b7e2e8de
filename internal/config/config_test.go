package config

import (
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "METRICS_PORT", "OPENWEATHER_API_KEY", "GOOGLE_VISION_API_KEY",
		"GOOGLE_MAPS_API_KEY", "BARCODELOOKUP_API_KEY", "DATABASE_URL",
		"DEFAULT_LOCATION", "WARM_LOCATIONS", "WEATHER_CACHE_TTL",
		"PRODUCT_CACHE_TTL", "WEATHER_REFRESH_INTERVAL", "HTTP_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.MetricsPort != "9091" {
		t.Errorf("ports = %s/%s, want 8080/9091", cfg.Port, cfg.MetricsPort)
	}
	if cfg.DefaultLocation != "Austin" {
		t.Errorf("default location = %q, want Austin", cfg.DefaultLocation)
	}
	if !reflect.DeepEqual(cfg.WarmLocations, []string{"Austin"}) {
		t.Errorf("warm locations = %v, want [Austin]", cfg.WarmLocations)
	}
	if cfg.WeatherCacheTTL != 10*time.Minute {
		t.Errorf("weather TTL = %v, want 10m", cfg.WeatherCacheTTL)
	}
	if cfg.ProductCacheTTL != 24*time.Hour {
		t.Errorf("product TTL = %v, want 24h", cfg.ProductCacheTTL)
	}
	if cfg.RefreshInterval != 15*time.Minute {
		t.Errorf("refresh interval = %v, want 15m", cfg.RefreshInterval)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("http timeout = %v, want 10s", cfg.HTTPTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DEFAULT_LOCATION", "Chicago")
	t.Setenv("WARM_LOCATIONS", "Austin, New York ,Chicago")
	t.Setenv("WEATHER_CACHE_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("port = %s, want 9000", cfg.Port)
	}
	if cfg.DefaultLocation != "Chicago" {
		t.Errorf("default location = %q, want Chicago", cfg.DefaultLocation)
	}
	want := []string{"Austin", "New York", "Chicago"}
	if !reflect.DeepEqual(cfg.WarmLocations, want) {
		t.Errorf("warm locations = %v, want %v", cfg.WarmLocations, want)
	}
	if cfg.WeatherCacheTTL != 5*time.Minute {
		t.Errorf("weather TTL = %v, want 5m", cfg.WeatherCacheTTL)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}
