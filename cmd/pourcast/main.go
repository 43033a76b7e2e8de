package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelvins/geocoder"

	httpapi "github.com/DanielChillemi/pourcast/internal/api/http"
	"github.com/DanielChillemi/pourcast/internal/cache"
	"github.com/DanielChillemi/pourcast/internal/catalog"
	"github.com/DanielChillemi/pourcast/internal/config"
	"github.com/DanielChillemi/pourcast/internal/demand"
	"github.com/DanielChillemi/pourcast/internal/metrics"
	"github.com/DanielChillemi/pourcast/internal/product"
	"github.com/DanielChillemi/pourcast/internal/scheduler"
	"github.com/DanielChillemi/pourcast/internal/speech"
	"github.com/DanielChillemi/pourcast/internal/vision"
	"github.com/DanielChillemi/pourcast/internal/weather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for all outbound calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	met := metrics.NewRegistry()
	cacheStore := cache.New(met)

	// Google geocoding is optional; without a key OpenWeatherMap matches
	// location names itself.
	if cfg.GoogleMapsAPIKey != "" {
		geocoder.ApiKey = cfg.GoogleMapsAPIKey
	}

	weatherSvc := weather.NewService(cacheStore, httpClient, cfg.OpenWeatherAPIKey,
		cfg.WeatherCacheTTL, cfg.GoogleMapsAPIKey != "")
	if weatherSvc.Live() {
		log.Println("weather: live OpenWeatherMap mode")
	} else {
		log.Println("weather: no OPENWEATHER_API_KEY, synthetic seasonal mode")
	}

	// Catalog backend: Postgres when configured, seeded memory otherwise.
	var catStore catalog.Store
	suggester := demand.NewGenerator()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to open database pool: %v", err)
		}
		defer pool.Close()

		pg := catalog.NewPostgresStore(pool)
		if err := pg.Migrate(context.Background()); err != nil {
			log.Fatalf("failed to migrate catalog: %v", err)
		}
		catStore = pg
		log.Println("catalog: postgres mode")
	} else {
		mem := catalog.NewMemoryStore()
		if err := mem.Seed(context.Background(), catalog.DemoStock()); err != nil {
			log.Fatalf("failed to seed demo catalog: %v", err)
		}
		catStore = mem
		// Demo installs invent stock levels for uncounted items.
		suggester = suggester.WithDemoDefaults(rand.NewSource(time.Now().UnixNano()))
		log.Println("catalog: in-memory demo mode")
	}

	resolver := product.NewResolver(met,
		product.NewOpenFoodFactsTier(cacheStore, httpClient, cfg.ProductCacheTTL),
		product.NewUPCItemDBTier(cacheStore, httpClient, cfg.ProductCacheTTL),
		product.NewBarcodeLookupTier(cacheStore, httpClient, cfg.BarcodeLookupAPIKey, cfg.ProductCacheTTL),
		product.NewCocktailDBTier(cacheStore, httpClient, cfg.ProductCacheTTL),
	)
	scanner := product.NewScanner(resolver, catStore, met)

	var detector vision.Detector = vision.NewDemoDetector()
	if cfg.GoogleVisionAPIKey != "" {
		detector = vision.NewGoogleDetector(httpClient, cfg.GoogleVisionAPIKey)
	}

	// Background warm refresh keeps dashboard locations cached.
	sched := scheduler.New(cfg.WarmLocations, cfg.RefreshInterval, weatherSvc)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "pourcast",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	httpapi.RegisterRoutes(app, &httpapi.Handlers{
		Weather:         weatherSvc,
		Catalog:         catStore,
		Scanner:         scanner,
		Resolver:        resolver,
		Detector:        detector,
		Transcriber:     speech.NewDemoTranscriber(),
		Suggester:       suggester,
		Metrics:         met,
		DefaultLocation: cfg.DefaultLocation,
	})

	// Metrics stay off the public app on their own listener.
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", met.Handler())
	metricsSrv := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("metrics server stopped: %v", err)
		}
	}()

	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down metrics server: %v", err)
	}
}
