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

const openMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider serves current conditions and daily forecasts from
// Open-Meteo. It needs coordinates and no API key.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: openMeteoURL,
		httpCfg: DefaultHTTPConfig(client),
		circuit: newCircuit("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) query(loc companion.Location) (url.Values, error) {
	if !loc.HasCoordinates() {
		return nil, fmt.Errorf("openmeteo: %w", errNeedsLatLon)
	}
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(*loc.Lat, 'f', 4, 64))
	values.Set("longitude", strconv.FormatFloat(*loc.Lon, 'f', 4, 64))
	values.Set("windspeed_unit", "ms")
	return values, nil
}

func (p *OpenMeteoProvider) Current(ctx context.Context, loc companion.Location) (companion.Reading, error) {
	values, err := p.query(loc)
	if err != nil {
		return companion.Reading{}, err
	}
	values.Set("current_weather", "true")
	values.Set("timeformat", "unixtime")

	var payload struct {
		CurrentWeather struct {
			Temperature   float64 `json:"temperature"`
			WindSpeed     float64 `json:"windspeed"`
			WindDirection float64 `json:"winddirection"`
			Time          int64   `json:"time"`
			WeatherCode   int     `json:"weathercode"`
		} `json:"current_weather"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL, values, &payload); err != nil {
		return companion.Reading{}, err
	}

	cw := payload.CurrentWeather
	ts := time.Now().UTC()
	if cw.Time > 0 {
		ts = time.Unix(cw.Time, 0).UTC()
	}

	return companion.Reading{
		ProviderName:     p.name,
		Timestamp:        ts,
		TemperatureC:     cw.Temperature,
		WindSpeedMS:      cw.WindSpeed,
		WindDirectionDeg: cw.WindDirection,
		Condition:        mapOpenMeteoCondition(cw.WeatherCode),
		Description:      describeOpenMeteoCode(cw.WeatherCode),
	}, nil
}

func (p *OpenMeteoProvider) Forecast(ctx context.Context, loc companion.Location, days int) ([]companion.DailyReading, error) {
	values, err := p.query(loc)
	if err != nil {
		return nil, err
	}
	values.Set("daily", "temperature_2m_min,temperature_2m_max,weathercode")
	values.Set("forecast_days", strconv.Itoa(days))
	values.Set("timezone", "UTC")

	var payload struct {
		Daily struct {
			Time        []string  `json:"time"`
			MinTemp     []float64 `json:"temperature_2m_min"`
			MaxTemp     []float64 `json:"temperature_2m_max"`
			WeatherCode []int     `json:"weathercode"`
		} `json:"daily"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.baseURL, values, &payload); err != nil {
		return nil, err
	}

	d := payload.Daily
	n := len(d.Time)
	if len(d.MinTemp) < n || len(d.MaxTemp) < n || len(d.WeatherCode) < n {
		return nil, fmt.Errorf("openmeteo: daily arrays have mismatched lengths")
	}
	if n == 0 {
		return nil, fmt.Errorf("openmeteo: %w", errEmptyForecast)
	}

	out := make([]companion.DailyReading, 0, n)
	for i, day := range d.Time {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("openmeteo: bad daily date %q: %w", day, err)
		}
		out = append(out, companion.DailyReading{
			ProviderName: p.name,
			Date:         date.Add(12 * time.Hour),
			LowC:         d.MinTemp[i],
			HighC:        d.MaxTemp[i],
			Condition:    mapOpenMeteoCondition(d.WeatherCode[i]),
			Description:  describeOpenMeteoCode(d.WeatherCode[i]),
		})
	}
	return out, nil
}

// mapOpenMeteoCondition follows the WMO weather interpretation codes.
func mapOpenMeteoCondition(code int) companion.Condition {
	switch {
	case code == 0:
		return companion.ConditionClear
	case code >= 1 && code <= 3:
		return companion.ConditionCloudy
	case code == 45 || code == 48:
		return companion.ConditionMist
	case (code >= 51 && code <= 67) || (code >= 80 && code <= 82):
		return companion.ConditionRain
	case (code >= 71 && code <= 77) || code == 85 || code == 86:
		return companion.ConditionSnow
	case code >= 95:
		return companion.ConditionStorm
	default:
		return companion.ConditionUnknown
	}
}

func describeOpenMeteoCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code == 1:
		return "mainly clear"
	case code == 2:
		return "partly cloudy"
	case code == 3:
		return "overcast"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code == 61:
		return "light rain"
	case code >= 62 && code <= 67:
		return "rain"
	case code >= 71 && code <= 77:
		return "snow"
	case code >= 80 && code <= 82:
		return "rain showers"
	case code == 85 || code == 86:
		return "snow showers"
	case code >= 95:
		return "thunderstorm"
	default:
		return "unknown"
	}
}
