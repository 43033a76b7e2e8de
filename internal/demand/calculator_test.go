package demand

import (
	"strings"
	"testing"

	"github.com/DanielChillemi/pourcast/internal/weather"
)

type catMult struct {
	cat  Category
	mult float64
}

func TestCalculateRuleTable(t *testing.T) {
	cases := []struct {
		name string
		temp int
		cond weather.Condition
		want []catMult
	}{
		{"hot and clear", 90, weather.ConditionClear, []catMult{{CategoryBeer, 1.4}}},
		{"warm", 65, weather.ConditionClouds, []catMult{{CategoryBeer, 1.2}}},
		{"mild gap", 55, weather.ConditionClear, []catMult{{CategoryWine, 1.2}}},
		{"cold snap", 45, weather.ConditionClear, []catMult{
			{CategoryBeer, 0.8}, {CategoryWine, 1.2}, {CategorySpirits, 1.3},
		}},
		{"hot rain", 80, weather.ConditionRain, []catMult{
			{CategoryBeer, 1.4}, {CategoryWine, 1.2}, {CategoryAll, 1.15},
		}},
		{"freezing storm", 40, weather.ConditionStorm, []catMult{
			{CategoryBeer, 0.8}, {CategoryWine, 1.2}, {CategorySpirits, 1.3}, {CategoryAll, 1.15},
		}},
		{"boundary 75", 75, weather.ConditionClear, []catMult{{CategoryBeer, 1.4}}},
		{"boundary 60", 60, weather.ConditionClear, []catMult{
			{CategoryBeer, 1.2}, {CategoryWine, 1.2},
		}},
		{"boundary 50", 50, weather.ConditionClear, []catMult{
			{CategoryBeer, 0.8}, {CategoryWine, 1.2},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Calculate(weather.Observation{Temperature: tc.temp, Condition: tc.cond})

			if len(got) != len(tc.want) {
				t.Fatalf("got %d forecasts, want %d: %+v", len(got), len(tc.want), got)
			}
			for i, w := range tc.want {
				if got[i].Category != w.cat || got[i].Multiplier != w.mult {
					t.Errorf("forecast %d = %s/%v, want %s/%v",
						i, got[i].Category, got[i].Multiplier, w.cat, w.mult)
				}
			}
		})
	}
}

func TestCalculateReasoningMentionsTemperature(t *testing.T) {
	got := Calculate(weather.Observation{Temperature: 90, Condition: weather.ConditionClear})

	if len(got) != 1 {
		t.Fatalf("expected a single forecast, got %d", len(got))
	}
	if !strings.Contains(got[0].Reasoning, "90°F") {
		t.Errorf("reasoning %q does not mention the temperature", got[0].Reasoning)
	}
	if got[0].RecommendedAction == "" {
		t.Error("expected a recommended action")
	}
}

func TestCalculateMildWeatherIsQuiet(t *testing.T) {
	got := Calculate(weather.Observation{Temperature: 68, Condition: weather.ConditionClear})

	// 68°F clear still lifts beer; nothing else fires.
	if len(got) != 1 || got[0].Category != CategoryBeer {
		t.Fatalf("unexpected forecasts: %+v", got)
	}
}
