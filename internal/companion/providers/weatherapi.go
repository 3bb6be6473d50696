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
	weatherAPICurrentURL  = "https://api.weatherapi.com/v1/current.json"
	weatherAPIForecastURL = "https://api.weatherapi.com/v1/forecast.json"
)

// WeatherAPIProvider serves current conditions and daily forecasts from
// WeatherAPI.com.
type WeatherAPIProvider struct {
	name        string
	apiKey      string
	currentURL  string
	forecastURL string
	httpCfg     HTTPClientConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:        "weatherapi",
		apiKey:      apiKey,
		currentURL:  weatherAPICurrentURL,
		forecastURL: weatherAPIForecastURL,
		httpCfg:     DefaultHTTPConfig(client),
		circuit:     newCircuit("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) query(loc companion.Location) (url.Values, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi: %w", errMissingAPIKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	// "q" accepts either "lat,lon" or "city,country".
	switch {
	case loc.HasCoordinates():
		values.Set("q", fmt.Sprintf("%.4f,%.4f", *loc.Lat, *loc.Lon))
	case loc.City != "":
		values.Set("q", cityQuery(loc))
	default:
		return nil, fmt.Errorf("weatherapi: %w", errNeedsLocation)
	}
	return values, nil
}

func (p *WeatherAPIProvider) Current(ctx context.Context, loc companion.Location) (companion.Reading, error) {
	values, err := p.query(loc)
	if err != nil {
		return companion.Reading{}, err
	}

	var payload struct {
		Current struct {
			LastUpdatedEpoch int64   `json:"last_updated_epoch"`
			TempC            float64 `json:"temp_c"`
			WindKph          float64 `json:"wind_kph"`
			WindDegree       float64 `json:"wind_degree"`
			Condition        struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.currentURL, values, &payload); err != nil {
		return companion.Reading{}, err
	}

	ts := time.Now().UTC()
	if payload.Current.LastUpdatedEpoch > 0 {
		ts = time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC()
	}

	text := payload.Current.Condition.Text
	return companion.Reading{
		ProviderName:     p.name,
		Timestamp:        ts,
		TemperatureC:     payload.Current.TempC,
		WindSpeedMS:      payload.Current.WindKph / 3.6,
		WindDirectionDeg: payload.Current.WindDegree,
		Condition:        mapWeatherAPICondition(text),
		Description:      text,
	}, nil
}

func (p *WeatherAPIProvider) Forecast(ctx context.Context, loc companion.Location, days int) ([]companion.DailyReading, error) {
	values, err := p.query(loc)
	if err != nil {
		return nil, err
	}
	values.Set("days", strconv.Itoa(days))

	var payload struct {
		Forecast struct {
			ForecastDay []struct {
				DateEpoch int64 `json:"date_epoch"`
				Day       struct {
					MinTempC  float64 `json:"mintemp_c"`
					MaxTempC  float64 `json:"maxtemp_c"`
					Condition struct {
						Text string `json:"text"`
					} `json:"condition"`
				} `json:"day"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.forecastURL, values, &payload); err != nil {
		return nil, err
	}
	if len(payload.Forecast.ForecastDay) == 0 {
		return nil, fmt.Errorf("weatherapi: %w", errEmptyForecast)
	}

	out := make([]companion.DailyReading, 0, len(payload.Forecast.ForecastDay))
	for _, d := range payload.Forecast.ForecastDay {
		text := d.Day.Condition.Text
		out = append(out, companion.DailyReading{
			ProviderName: p.name,
			// date_epoch is midnight UTC of the day; move to midday so the
			// day survives conversion to zones west of UTC.
			Date:        time.Unix(d.DateEpoch, 0).UTC().Add(12 * time.Hour),
			LowC:        d.Day.MinTempC,
			HighC:       d.Day.MaxTempC,
			Condition:   mapWeatherAPICondition(text),
			Description: text,
		})
	}
	return out, nil
}

func mapWeatherAPICondition(text string) companion.Condition {
	switch {
	case text == "":
		return companion.ConditionUnknown
	case containsFold(text, "thunder") || containsFold(text, "storm"):
		return companion.ConditionStorm
	case containsFold(text, "rain") || containsFold(text, "shower") || containsFold(text, "drizzle"):
		return companion.ConditionRain
	case containsFold(text, "snow") || containsFold(text, "sleet") || containsFold(text, "blizzard"):
		return companion.ConditionSnow
	case containsFold(text, "mist") || containsFold(text, "fog"):
		return companion.ConditionMist
	case containsFold(text, "cloud") || containsFold(text, "overcast"):
		return companion.ConditionCloudy
	case containsFold(text, "sunny") || containsFold(text, "clear"):
		return companion.ConditionClear
	default:
		return companion.ConditionUnknown
	}
}
