package companion

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/i474232898/weather-watchface/internal/logging"
	"github.com/i474232898/weather-watchface/internal/weather"
)

// ErrNoData is returned when no provider produced either current conditions
// or a forecast.
var ErrNoData = errors.New("no weather data available")

// Settings are configuration strings pushed to the watch with every bundle.
// Empty values are not sent.
type Settings struct {
	TemperatureUnits string
	WindSpeedUnits   string
	WeekNumbers      string
	MondayFirst      string
}

func (s Settings) list() []weather.Setting {
	var out []weather.Setting
	add := func(tag weather.Tag, v string) {
		if v != "" {
			out = append(out, weather.Setting{Tag: tag, Value: v})
		}
	}
	add(weather.TagTemperatureUnits, s.TemperatureUnits)
	add(weather.TagWindSpeedUnits, s.WindSpeedUnits)
	add(weather.TagWeekNumberEnabled, s.WeekNumbers)
	add(weather.TagMondayFirst, s.MondayFirst)
	return out
}

// Options configure a Service.
type Options struct {
	Location Location
	// Zone is the watch's time zone; forecast days are grouped in it.
	Zone     *time.Location
	Settings Settings
	// RateLimit caps outbound fetches per second. Zero disables the limit.
	RateLimit float64
}

// Service orchestrates fetching from multiple providers and encoding the
// result as a bundle for the watch.
type Service struct {
	providers []Provider
	opts      Options
	limiter   *rate.Limiter
}

// NewService creates a new Service.
func NewService(providers []Provider, opts Options) *Service {
	if opts.Zone == nil {
		opts.Zone = time.Local
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	return &Service{
		providers: providers,
		opts:      opts,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// FetchBundle fetches current conditions and a daily forecast from all
// providers concurrently and encodes them as tuples. Provider failures are
// logged; an error is returned only when nothing at all came back.
func (s *Service) FetchBundle(ctx context.Context) ([]weather.Tuple, error) {
	if len(s.providers) == 0 {
		return nil, fmt.Errorf("no weather providers configured")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	loc := s.opts.Location

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		current  []Reading
		forecast []DailyReading
	)

	for _, p := range s.providers {
		p := p

		wg.Add(1)
		go func() {
			defer wg.Done()

			r, err := p.Current(ctx, loc)
			if err != nil {
				logging.Warn("companion: current conditions failed", "provider", p.Name(), "location", loc.Key(), "err", err)
				return
			}
			mu.Lock()
			current = append(current, r)
			mu.Unlock()
		}()

		fp, ok := p.(ForecastProvider)
		if !ok {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()

			days, err := fp.Forecast(ctx, loc, weather.ForecastDays)
			if err != nil {
				logging.Warn("companion: forecast failed", "provider", fp.Name(), "location", loc.Key(), "err", err)
				return
			}
			mu.Lock()
			forecast = append(forecast, days...)
			mu.Unlock()
		}()
	}

	wg.Wait()

	if len(current) == 0 && len(forecast) == 0 {
		return nil, ErrNoData
	}

	logging.Debug("companion: aggregated provider data",
		"location", loc.Key(),
		"currentReadings", len(current),
		"forecastReadings", len(forecast),
	)

	b := s.buildBundle(current, forecast)
	return b.Tuples(), nil
}

func (s *Service) buildBundle(current []Reading, forecast []DailyReading) weather.Bundle {
	var b weather.Bundle

	if len(current) > 0 {
		agg := AggregateCurrent(current)
		temp := int(math.Round(agg.TemperatureC))
		wind := int(math.Round(agg.WindSpeedMS))
		dir := weather.NormalizeDegrees(int(math.Round(agg.WindDirectionDeg)))
		desc := weather.NewShortText(agg.Description)

		b.TemperatureC = &temp
		b.WindSpeedMps = &wind
		b.WindDirectionDeg = &dir
		b.Description = &desc
	}

	for i, day := range AggregateDays(forecast, s.opts.Zone, weather.ForecastDays) {
		b.Days[i] = day
	}

	b.Settings = s.opts.Settings.list()
	return b
}
