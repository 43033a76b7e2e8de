package httpapi

import (
	"errors"
	"math"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/DanielChillemi/pourcast/internal/cache"
	"github.com/DanielChillemi/pourcast/internal/catalog"
	"github.com/DanielChillemi/pourcast/internal/demand"
	"github.com/DanielChillemi/pourcast/internal/metrics"
	"github.com/DanielChillemi/pourcast/internal/product"
	"github.com/DanielChillemi/pourcast/internal/quantity"
	"github.com/DanielChillemi/pourcast/internal/speech"
	"github.com/DanielChillemi/pourcast/internal/vision"
	"github.com/DanielChillemi/pourcast/internal/weather"
)

var validate = validator.New()

// Handlers bundles the services the HTTP layer exposes.
type Handlers struct {
	Weather         *weather.Service
	Catalog         catalog.Store
	Scanner         *product.Scanner
	Resolver        *product.Resolver
	Detector        vision.Detector
	Transcriber     speech.Transcriber
	Suggester       *demand.Generator
	Metrics         *metrics.Registry
	DefaultLocation string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, h *Handlers) {
	app.Get("/health", h.health)

	api := app.Group("/api")
	api.Get("/weather-forecast", h.weatherForecast)
	api.Get("/weather-forecast/:location", h.weatherForecast)
	api.Post("/scan-barcode", h.scanBarcode)
	api.Get("/upc-lookup/:barcode", h.upcLookup)
	api.Post("/test-barcode/:barcode", h.testBarcode)
	api.Post("/speech-to-text", h.speechToText)
}

func (h *Handlers) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"service":     "pourcast",
		"weatherLive": h.Weather.Live(),
	})
}

// weatherForecast serves the dashboard payload: current weather, the
// demand forecasts derived from it, and reorder suggestions against the
// catalog's stock levels.
func (h *Handlers) weatherForecast(c *fiber.Ctx) error {
	h.Metrics.ForecastRequests.Inc()

	raw := h.DefaultLocation
	if param := c.Params("location"); param != "" {
		if unescaped, err := url.PathUnescape(param); err == nil {
			param = unescaped
		}
		raw = param
	}

	location := weather.SanitizeLocation(raw)
	if location == "" {
		return fiber.NewError(fiber.StatusBadRequest, "location is required")
	}

	obs, err := h.Weather.Current(c.Context(), location)
	if err != nil {
		if errors.Is(err, cache.ErrRateLimited) {
			return fiber.NewError(fiber.StatusTooManyRequests, "weather provider rate limit exceeded")
		}
		return fiber.NewError(fiber.StatusBadGateway, "failed to fetch weather data")
	}

	forecasts := demand.Calculate(obs)

	products, err := h.Catalog.List(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load catalog")
	}

	items := make([]demand.StockItem, 0, len(products))
	prices := make(map[string]string, len(products))
	for _, p := range products {
		items = append(items, demand.StockItem{
			ID:         p.ID,
			Name:       p.Name,
			CategoryID: p.CategoryID,
			LastCount:  p.LastCount,
			ParLevel:   p.ParLevel,
		})
		prices[p.ID] = p.Price
	}

	suggestions := h.Suggester.Suggestions(items, forecasts)
	if len(suggestions) > 10 {
		suggestions = suggestions[:10]
	}

	return c.JSON(fiber.Map{
		"location":           location,
		"weather":            obs,
		"demandForecasts":    forecasts,
		"reorderSuggestions": suggestions,
		"summary":            summarize(suggestions, prices),
	})
}

// summarize totals the suggestion list for the dashboard header card.
// Items without a usable price are valued at a flat $25 per unit.
func summarize(suggestions []demand.Suggestion, prices map[string]string) fiber.Map {
	var high int
	var revenue float64
	for _, s := range suggestions {
		if s.Priority == demand.PriorityHigh {
			high++
		}
		unit := 25.0
		if p, err := strconv.ParseFloat(prices[s.ProductID], 64); err == nil && p > 0 {
			unit = p
		}
		revenue += float64(s.OrderQty) * unit
	}

	return fiber.Map{
		"totalSuggestions":           len(suggestions),
		"highPriority":               high,
		"estimatedAdditionalRevenue": math.Round(revenue*100) / 100,
	}
}

type scanRequest struct {
	ImageData string `json:"imageData" validate:"required"`
}

// scanBarcode runs OCR over a captured frame, pulls a barcode out of the
// text, and resolves it. A frame without a readable barcode is a soft
// miss the client simply retries.
func (h *Handlers) scanBarcode(c *fiber.Ctx) error {
	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	det, err := h.Detector.Detect(c.Context(), req.ImageData)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "text detection failed")
	}

	result, err := h.Scanner.ResolveText(c.Context(), det.Text)
	if err != nil {
		return c.JSON(fiber.Map{
			"success":    false,
			"barcode":    "",
			"confidence": 0,
			"message":    "No barcode detected in image",
		})
	}

	return c.JSON(scanResponse(result, det.Confidence))
}

// scanResponse flattens the resolved info into the wire shape. The
// catalog row rides along under "product" when the scan was filed.
func scanResponse(result product.ScanResult, confidence int) fiber.Map {
	resp := fiber.Map{
		"success":     result.Info.Source != product.SourceFallback,
		"barcode":     result.Barcode,
		"confidence":  confidence,
		"productName": result.Info.Name,
		"source":      result.Info.Source,
	}
	if result.Info.Brand != "" {
		resp["brand"] = result.Info.Brand
	}
	if result.Info.Category != "" {
		resp["category"] = result.Info.Category
	}
	if result.Info.Image != "" {
		resp["image"] = result.Info.Image
	}
	if result.Product != nil {
		resp["product"] = result.Product
		resp["created"] = result.Created
	}
	return resp
}

// lookupResponse spreads the resolved info flat next to the lookup
// outcome.
type lookupResponse struct {
	Success bool   `json:"success"`
	Barcode string `json:"barcode"`
	product.Info
}

// upcLookup resolves a barcode through the tier chain without touching
// the catalog.
func (h *Handlers) upcLookup(c *fiber.Ctx) error {
	barcode := c.Params("barcode")
	if err := validate.Var(barcode, "required,numeric,min=8,max=14"); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "barcode must be 8 to 14 digits")
	}

	info := h.Resolver.Lookup(c.Context(), barcode)
	return c.JSON(lookupResponse{
		Success: info.Source != product.SourceFallback,
		Barcode: barcode,
		Info:    info,
	})
}

// testBarcode exercises the resolution pipeline for a hand-typed
// barcode. Known catalog rows answer directly with full confidence.
func (h *Handlers) testBarcode(c *fiber.Ctx) error {
	barcode := c.Params("barcode")
	if err := validate.Var(barcode, "required,numeric,min=8,max=14"); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "barcode must be 8 to 14 digits")
	}

	existing, err := h.Catalog.GetByBarcode(c.Context(), barcode)
	if err == nil {
		return c.JSON(fiber.Map{
			"success":     true,
			"barcode":     barcode,
			"confidence":  95,
			"source":      product.SourceDatabase,
			"productName": existing.Name,
			"product":     existing,
		})
	}
	if !errors.Is(err, catalog.ErrNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "catalog lookup failed")
	}

	result := h.Scanner.Resolve(c.Context(), barcode)
	confidence := 85
	if result.Info.Source == product.SourceFallback {
		confidence = 0
	}
	return c.JSON(scanResponse(result, confidence))
}

type speechRequest struct {
	AudioData string `json:"audioData"`
}

// speechToText transcribes a voice count and extracts the quantity.
func (h *Handlers) speechToText(c *fiber.Ctx) error {
	var req speechRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	transcript, err := h.Transcriber.Transcribe(c.Context(), req.AudioData)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "transcription failed")
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"transcript": transcript,
		"quantity":   quantity.Extract(transcript),
	})
}
