package companion

import (
	"math"
	"sort"
	"time"

	"github.com/i474232898/weather-watchface/internal/weather"
)

// AggregateCurrent combines provider readings into one. Numeric fields are
// averaged (wind direction on the circle); the condition is the majority,
// the first condition to reach the top count wins ties.
func AggregateCurrent(readings []Reading) Reading {
	if len(readings) == 0 {
		return Reading{Timestamp: time.Now().UTC(), Condition: ConditionUnknown}
	}

	var (
		sumTemp, sumWind float64
		sumSin, sumCos   float64
		newestTS         time.Time
	)
	votes := make([]vote, 0, len(readings))

	for _, r := range readings {
		sumTemp += r.TemperatureC
		sumWind += r.WindSpeedMS

		rad := r.WindDirectionDeg * math.Pi / 180
		sumSin += math.Sin(rad)
		sumCos += math.Cos(rad)

		votes = append(votes, vote{r.Condition, r.Description})

		if r.Timestamp.After(newestTS) {
			newestTS = r.Timestamp
		}
	}

	n := float64(len(readings))
	cond, desc := majority(votes)

	dir := math.Atan2(sumSin/n, sumCos/n) * 180 / math.Pi
	if dir < 0 {
		dir += 360
	}

	if newestTS.IsZero() {
		newestTS = time.Now().UTC()
	}

	return Reading{
		ProviderName:     "aggregate",
		Timestamp:        newestTS,
		TemperatureC:     sumTemp / n,
		WindSpeedMS:      sumWind / n,
		WindDirectionDeg: dir,
		Condition:        cond,
		Description:      desc,
	}
}

// AggregateDays groups daily readings by calendar day in zone, averages
// each group and returns at most days entries in date order, starting at
// the earliest day any provider returned.
func AggregateDays(readings []DailyReading, zone *time.Location, days int) []weather.ForecastDay {
	if zone == nil {
		zone = time.Local
	}

	type dayKey string

	var (
		groups     = make(map[dayKey][]DailyReading)
		timestamps = make(map[dayKey]time.Time)
	)
	for _, r := range readings {
		local := r.Date.In(zone)
		k := dayKey(local.Format("2006-01-02"))
		groups[k] = append(groups[k], r)
		if _, ok := timestamps[k]; !ok {
			timestamps[k] = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
		}
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	out := make([]weather.ForecastDay, 0, days)
	for _, k := range keys {
		if len(out) >= days {
			break
		}
		group := groups[dayKey(k)]

		var sumLow, sumHigh float64
		votes := make([]vote, 0, len(group))
		for _, r := range group {
			sumLow += r.LowC
			sumHigh += r.HighC
			votes = append(votes, vote{r.Condition, r.Description})
		}
		n := float64(len(group))
		_, desc := majority(votes)

		out = append(out, weather.ForecastDay{
			Timestamp:  timestamps[dayKey(k)].Unix(),
			LowC:       int(math.Round(sumLow / n)),
			HighC:      int(math.Round(sumHigh / n)),
			Conditions: weather.NewShortText(desc),
		})
	}
	return out
}

type vote struct {
	condition   Condition
	description string
}

// majority returns the most common condition and the description of the
// first reading that voted for it.
func majority(votes []vote) (Condition, string) {
	counts := make(map[Condition]int, len(votes))
	best, bestCount := ConditionUnknown, 0
	for _, v := range votes {
		counts[v.condition]++
		if counts[v.condition] > bestCount {
			best, bestCount = v.condition, counts[v.condition]
		}
	}

	for _, v := range votes {
		if v.condition == best && v.description != "" {
			return best, v.description
		}
	}
	return best, string(best)
}
