package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/DanielChillemi/pourcast/internal/upstream"
)

type currentPayload struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMax float64 `json:"temp_max"`
			TempMin float64 `json:"temp_min"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	} `json:"list"`
}

// openWeatherClient talks to OpenWeatherMap's current-weather and
// five-day forecast endpoints, imperial units.
type openWeatherClient struct {
	apiKey  string
	baseURL string
	client  *upstream.Client
}

func newOpenWeatherClient(httpc *http.Client, apiKey string) *openWeatherClient {
	return &openWeatherClient{
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5",
		client:  upstream.NewClient("openweather", httpc),
	}
}

func (c *openWeatherClient) query(location string, coords *Coordinates) url.Values {
	values := url.Values{}
	values.Set("appid", c.apiKey)
	values.Set("units", "imperial")

	if coords != nil {
		values.Set("lat", fmt.Sprintf("%.4f", coords.Lat))
		values.Set("lon", fmt.Sprintf("%.4f", coords.Lon))
	} else {
		values.Set("q", location)
	}
	return values
}

func (c *openWeatherClient) current(ctx context.Context, location string, coords *Coordinates) (currentPayload, error) {
	u := fmt.Sprintf("%s/weather?%s", c.baseURL, c.query(location, coords).Encode())
	return upstream.GetJSON[currentPayload](ctx, c.client, u)
}

func (c *openWeatherClient) forecast(ctx context.Context, location string, coords *Coordinates) (forecastPayload, error) {
	u := fmt.Sprintf("%s/forecast?%s", c.baseURL, c.query(location, coords).Encode())
	return upstream.GetJSON[forecastPayload](ctx, c.client, u)
}

func conditionFrom(items []struct {
	Main string `json:"main"`
}) Condition {
	if len(items) == 0 {
		return ConditionClear
	}
	return Condition(items[0].Main)
}
