// Package companion is the paired-device side of the data channel. It answers
// forecast requests by querying weather providers and delivering a tuple
// bundle back to the watchface.
package companion

import (
	"context"
	"fmt"
	"time"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// Location is the place the watch wants weather for. City/Country are used
// by name-based providers; Lat/Lon by coordinate-based ones.
type Location struct {
	City    string   `json:"city"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat,omitempty"`
	Lon     *float64 `json:"lon,omitempty"`
}

// Key returns a short identifier for logs.
func (l Location) Key() string {
	if l.City == "" && l.Lat != nil && l.Lon != nil {
		return fmt.Sprintf("%.4f,%.4f", *l.Lat, *l.Lon)
	}
	return l.City + ":" + l.Country
}

// HasCoordinates reports whether both latitude and longitude are known.
func (l Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lon != nil
}

// Reading is a single provider's normalized current conditions.
type Reading struct {
	ProviderName string
	Timestamp    time.Time

	TemperatureC     float64
	WindSpeedMS      float64
	WindDirectionDeg float64
	Condition        Condition
	// Description is the provider's own wording, e.g. "light rain".
	Description string
}

// DailyReading is a single provider's forecast for one calendar day.
type DailyReading struct {
	ProviderName string
	// Date is any instant inside the forecast day.
	Date time.Time

	LowC        float64
	HighC       float64
	Condition   Condition
	Description string
}

// Provider abstracts a weather data source (OpenWeatherMap, WeatherAPI,
// Open-Meteo).
type Provider interface {
	Name() string
	Current(ctx context.Context, loc Location) (Reading, error)
}

// ForecastProvider is implemented by providers that also serve daily
// forecasts.
type ForecastProvider interface {
	Provider
	Forecast(ctx context.Context, loc Location, days int) ([]DailyReading, error)
}
