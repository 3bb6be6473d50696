package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-watchface/internal/companion"
)

const (
	openWeatherCurrentURL  = "https://api.openweathermap.org/data/2.5/weather"
	openWeatherForecastURL = "https://api.openweathermap.org/data/2.5/forecast/daily"
)

// OpenWeatherProvider serves current conditions and daily forecasts from
// OpenWeatherMap.
type OpenWeatherProvider struct {
	name        string
	apiKey      string
	currentURL  string
	forecastURL string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:        "openweathermap",
		apiKey:      apiKey,
		currentURL:  openWeatherCurrentURL,
		forecastURL: openWeatherForecastURL,
		httpCfg:     DefaultHTTPConfig(client),
		circuit:     newCircuit("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

func (p *OpenWeatherProvider) query(loc companion.Location) (url.Values, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "metric")
	switch {
	case loc.HasCoordinates():
		values.Set("lat", strconv.FormatFloat(*loc.Lat, 'f', 4, 64))
		values.Set("lon", strconv.FormatFloat(*loc.Lon, 'f', 4, 64))
	case loc.City != "":
		values.Set("q", cityQuery(loc))
	default:
		return nil, fmt.Errorf("openweather: %w", errNeedsLocation)
	}
	return values, nil
}

func (p *OpenWeatherProvider) Current(ctx context.Context, loc companion.Location) (companion.Reading, error) {
	values, err := p.query(loc)
	if err != nil {
		return companion.Reading{}, err
	}

	var payload struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Weather []openWeatherCondition `json:"weather"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.currentURL, values, &payload); err != nil {
		return companion.Reading{}, err
	}

	ts := time.Now().UTC()
	if payload.Dt > 0 {
		ts = time.Unix(payload.Dt, 0).UTC()
	}

	r := companion.Reading{
		ProviderName:     p.name,
		Timestamp:        ts,
		TemperatureC:     payload.Main.Temp,
		WindSpeedMS:      payload.Wind.Speed,
		WindDirectionDeg: payload.Wind.Deg,
		Condition:        mapOpenWeatherCondition(payload.Weather),
	}
	if len(payload.Weather) > 0 {
		r.Description = payload.Weather[0].Description
	}
	return r, nil
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, loc companion.Location, days int) ([]companion.DailyReading, error) {
	values, err := p.query(loc)
	if err != nil {
		return nil, err
	}
	values.Set("cnt", strconv.Itoa(days))

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Temp struct {
				Min float64 `json:"min"`
				Max float64 `json:"max"`
			} `json:"temp"`
			Weather []openWeatherCondition `json:"weather"`
		} `json:"list"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.forecastURL, values, &payload); err != nil {
		return nil, err
	}
	if len(payload.List) == 0 {
		return nil, fmt.Errorf("openweather: %w", errEmptyForecast)
	}

	out := make([]companion.DailyReading, 0, len(payload.List))
	for _, d := range payload.List {
		r := companion.DailyReading{
			ProviderName: p.name,
			Date:         time.Unix(d.Dt, 0).UTC(),
			LowC:         d.Temp.Min,
			HighC:        d.Temp.Max,
			Condition:    mapOpenWeatherCondition(d.Weather),
		}
		// Day records carry the short group name ("Rain"), not the description.
		if len(d.Weather) > 0 {
			r.Description = d.Weather[0].Main
		}
		out = append(out, r)
	}
	return out, nil
}

func mapOpenWeatherCondition(items []openWeatherCondition) companion.Condition {
	if len(items) == 0 {
		return companion.ConditionUnknown
	}
	switch items[0].Main {
	case "Clear":
		return companion.ConditionClear
	case "Clouds":
		return companion.ConditionCloudy
	case "Rain", "Drizzle":
		return companion.ConditionRain
	case "Snow":
		return companion.ConditionSnow
	case "Thunderstorm":
		return companion.ConditionStorm
	case "Mist", "Fog", "Haze":
		return companion.ConditionMist
	default:
		return companion.ConditionUnknown
	}
}
