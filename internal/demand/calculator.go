package demand

import (
	"fmt"

	"github.com/DanielChillemi/pourcast/internal/weather"
)

// Category is a product category the demand rules know about.
type Category string

const (
	CategoryBeer    Category = "Beer"
	CategoryWine    Category = "Wine"
	CategorySpirits Category = "Spirits"
	CategoryAll     Category = "All Categories"
)

// Forecast is one category-level demand adjustment derived from current
// weather. Multiplier scales par levels downstream.
type Forecast struct {
	Category          Category `json:"productCategory"`
	Multiplier        float64  `json:"demandMultiplier"`
	Reasoning         string   `json:"reasoning"`
	RecommendedAction string   `json:"recommendedAction"`
}

// Calculate maps an observation onto demand forecasts using fixed rules.
// Categories emit in a stable order (Beer, Wine, Spirits, All Categories)
// and only when a rule fires.
func Calculate(obs weather.Observation) []Forecast {
	t := obs.Temperature
	cond := obs.Condition
	rainy := cond == weather.ConditionRain
	stormy := rainy || cond == weather.ConditionStorm

	forecasts := make([]Forecast, 0, 4)

	switch {
	case t >= 75:
		forecasts = append(forecasts, Forecast{
			Category:          CategoryBeer,
			Multiplier:        1.4,
			Reasoning:         fmt.Sprintf("Hot weather (%d°F) significantly increases beer demand", t),
			RecommendedAction: "Increase beer stock by 40%",
		})
	case t >= 60:
		forecasts = append(forecasts, Forecast{
			Category:          CategoryBeer,
			Multiplier:        1.2,
			Reasoning:         fmt.Sprintf("Warm weather (%d°F) increases beer demand", t),
			RecommendedAction: "Increase beer stock by 20%",
		})
	case t <= 50:
		forecasts = append(forecasts, Forecast{
			Category:          CategoryBeer,
			Multiplier:        0.8,
			Reasoning:         fmt.Sprintf("Cold weather (%d°F) decreases beer demand", t),
			RecommendedAction: "Reduce beer stock by 20%",
		})
	}

	if t <= 60 || rainy {
		reason := fmt.Sprintf("Cool weather (%d°F) increases wine demand", t)
		if rainy {
			reason = "Rainy weather increases wine demand"
		}
		forecasts = append(forecasts, Forecast{
			Category:          CategoryWine,
			Multiplier:        1.2,
			Reasoning:         reason,
			RecommendedAction: "Increase wine stock by 20%",
		})
	}

	if t <= 45 {
		forecasts = append(forecasts, Forecast{
			Category:          CategorySpirits,
			Multiplier:        1.3,
			Reasoning:         fmt.Sprintf("Cold weather (%d°F) increases demand for spirits and warm cocktails", t),
			RecommendedAction: "Increase spirits stock by 30%",
		})
	}

	if stormy {
		forecasts = append(forecasts, Forecast{
			Category:          CategoryAll,
			Multiplier:        1.15,
			Reasoning:         "Precipitation keeps guests indoors longer and lifts overall demand",
			RecommendedAction: "Increase overall stock by 15%",
		})
	}

	return forecasts
}
