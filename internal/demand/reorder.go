package demand

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/DanielChillemi/pourcast/internal/common"
)

// StockItem is the slice of the catalog the reorder generator needs.
// LastCount and ParLevel are nil when the product has never been counted
// or configured.
type StockItem struct {
	ID         string
	Name       string
	CategoryID int
	LastCount  *int
	ParLevel   *int
}

// Priority flags how urgently a suggestion should be acted on.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
)

// Suggestion is one reorder recommendation tied to a demand forecast.
type Suggestion struct {
	ProductID   string   `json:"productId"`
	ProductName string   `json:"productName"`
	Current     int      `json:"currentStock"`
	ParLevel    int      `json:"normalParLevel"`
	AdjustedPar int      `json:"weatherAdjustedParLevel"`
	OrderQty    int      `json:"suggestedOrderQuantity"`
	Reasoning   string   `json:"reasoning"`
	Priority    Priority `json:"priority"`
}

// categoryIDs maps forecast categories onto catalog category ids.
var categoryIDs = map[Category]int{
	CategoryBeer:    1,
	CategoryWine:    2,
	CategorySpirits: 3,
}

// beerKeywords catch beer products filed without a category id.
var beerKeywords = []string{
	"ipa", "lager", "pilsner", "stout", "ale",
	"bud", "miller", "coors", "corona", "modelo", "heineken", "stella",
}

// Generator turns demand forecasts plus stock levels into reorder
// suggestions. With demo defaults enabled it invents plausible stock
// levels for uncounted items, for installs with an unseeded catalog.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator() *Generator {
	return &Generator{}
}

// WithDemoDefaults enables invented stock levels for items missing
// counts, drawn from src. Returns the generator for chaining.
func (g *Generator) WithDemoDefaults(src rand.Source) *Generator {
	g.rng = rand.New(src)
	return g
}

// Suggestions produces at most five suggestions per forecast. A product
// is suggested only when its current stock sits below the weather
// adjusted par level; results are ordered by order quantity, largest
// first. The same product may appear under more than one forecast.
func (g *Generator) Suggestions(items []StockItem, forecasts []Forecast) []Suggestion {
	g.mu.Lock()
	defer g.mu.Unlock()

	suggestions := make([]Suggestion, 0, len(forecasts)*5)

	for _, f := range forecasts {
		candidates := g.candidates(items, f.Category)
		if len(candidates) > 5 {
			candidates = candidates[:5]
		}

		for _, item := range candidates {
			current, par, ok := g.levels(item)
			if !ok {
				continue
			}

			adjusted := int(math.Round(float64(par) * f.Multiplier))
			if current >= adjusted {
				continue
			}

			priority := PriorityMedium
			if f.Multiplier > 1.3 {
				priority = PriorityHigh
			}

			suggestions = append(suggestions, Suggestion{
				ProductID:   item.ID,
				ProductName: item.Name,
				Current:     current,
				ParLevel:    par,
				AdjustedPar: adjusted,
				OrderQty:    adjusted - current,
				Reasoning:   f.Reasoning,
				Priority:    priority,
			})
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].OrderQty > suggestions[j].OrderQty
	})

	return suggestions
}

// candidates picks the items a forecast applies to. Exact category id
// match wins. Beer additionally falls back to name keywords for products
// filed without a category. The last resort is the first three items.
func (g *Generator) candidates(items []StockItem, cat Category) []StockItem {
	if cat == CategoryAll {
		return items
	}

	id := categoryIDs[cat]
	matched := make([]StockItem, 0, len(items))
	for _, item := range items {
		if item.CategoryID == id {
			matched = append(matched, item)
		}
	}
	if len(matched) > 0 {
		return matched
	}

	if cat == CategoryBeer {
		for _, item := range items {
			if common.HasAny(strings.ToLower(item.Name), beerKeywords...) {
				matched = append(matched, item)
			}
		}
		if len(matched) > 0 {
			return matched
		}
	}

	if len(items) > 3 {
		return items[:3]
	}
	return items
}

// levels resolves current stock and par for an item. Missing values are
// invented only when demo defaults are enabled; otherwise the item is
// skipped.
func (g *Generator) levels(item StockItem) (current, par int, ok bool) {
	switch {
	case item.LastCount != nil:
		current = *item.LastCount
	case g.rng != nil:
		current = 15 + g.rng.Intn(26)
	default:
		return 0, 0, false
	}

	switch {
	case item.ParLevel != nil:
		par = *item.ParLevel
	case g.rng != nil:
		par = 30 + g.rng.Intn(41)
	default:
		return 0, 0, false
	}

	return current, par, true
}
