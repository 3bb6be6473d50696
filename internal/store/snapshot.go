package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/i474232898/weather-watchface/internal/logging"
	"github.com/i474232898/weather-watchface/internal/weather"
)

// Keys of the persisted watchface snapshot.
const (
	KeyCurrentTemperatureC      Key = 100
	KeyCurrentConditions        Key = 101
	KeyCurrentLowC              Key = 102
	KeyCurrentHighC             Key = 103
	KeyCurrentWindDirDeg        Key = 104
	KeyCurrentWindSpeedKts      Key = 105
	KeyCurrentDay               Key = 106
	KeyForecastLowC             Key = 107
	KeyForecastHighC            Key = 108
	KeyForecastConditions       Key = 109
	KeyCurrentForecastCondition Key = 110
	KeyTemperatureUnits         Key = 111
	KeyWindSpeedUnits           Key = 112
	KeyWeekNumberEnabled        Key = 113
	KeyMondayFirst              Key = 114
)

// LoadSnapshot reads every persisted field, substituting defaults for keys
// that were never written. Read failures other than absence are logged and
// also fall back to the default; a snapshot is always returned.
func LoadSnapshot(ctx context.Context, kv KV) weather.Snapshot {
	r := snapshotReader{ctx: ctx, kv: kv}
	defaults := weather.DefaultUnitConfig()

	var snap weather.Snapshot

	snap.Current = weather.CurrentConditions{
		TemperatureC:     r.readInt(KeyCurrentTemperatureC, 0),
		WindSpeedKts:     r.readInt(KeyCurrentWindSpeedKts, 0),
		WindDirectionDeg: weather.NormalizeDegrees(r.readInt(KeyCurrentWindDirDeg, 0)),
		Description:      weather.NewShortText(r.readString(KeyCurrentConditions, "")),
	}

	currentDay := int64(r.readInt(KeyCurrentDay, 0))
	snap.Forecast = weather.ReconciledForecast{
		CurrentDayTimestamp: currentDay,
		CurrentDay: weather.ForecastDay{
			Timestamp:  currentDay,
			LowC:       r.readInt(KeyCurrentLowC, 0),
			HighC:      r.readInt(KeyCurrentHighC, 0),
			Conditions: weather.NewShortText(r.readString(KeyCurrentForecastCondition, "")),
		},
		NextDay: weather.ForecastDay{
			LowC:       r.readInt(KeyForecastLowC, 0),
			HighC:      r.readInt(KeyForecastHighC, 0),
			Conditions: weather.NewShortText(r.readString(KeyForecastConditions, "")),
		},
	}
	if currentDay != 0 {
		snap.Forecast.NextDay.Timestamp = currentDay + 86400
	}

	snap.Units = weather.UnitConfig{
		Temperature:   weather.TemperatureUnit(r.readInt(KeyTemperatureUnits, int(defaults.Temperature))),
		Wind:          weather.WindUnit(r.readInt(KeyWindSpeedUnits, int(defaults.Wind))),
		WeekNumbering: r.readInt(KeyWeekNumberEnabled, boolToInt(defaults.WeekNumbering)) == 1,
		WeekStart:     weather.WeekStart(r.readInt(KeyMondayFirst, int(defaults.WeekStart))),
	}
	if !snap.Units.Temperature.Valid() {
		logging.Warn("store: ignoring out-of-range unit", "key", KeyTemperatureUnits, "value", snap.Units.Temperature)
		snap.Units.Temperature = defaults.Temperature
	}
	if !snap.Units.Wind.Valid() {
		logging.Warn("store: ignoring out-of-range unit", "key", KeyWindSpeedUnits, "value", snap.Units.Wind)
		snap.Units.Wind = defaults.Wind
	}
	if !snap.Units.WeekStart.Valid() {
		logging.Warn("store: ignoring out-of-range unit", "key", KeyMondayFirst, "value", snap.Units.WeekStart)
		snap.Units.WeekStart = defaults.WeekStart
	}

	return snap
}

// SaveSnapshot writes every field of snap. It keeps going after a failed
// write and returns all failures joined.
func SaveSnapshot(ctx context.Context, kv KV, snap weather.Snapshot) error {
	var errs []error
	setInt := func(key Key, v int) {
		if err := kv.SetInt(ctx, key, v); err != nil {
			errs = append(errs, err)
		}
	}
	setString := func(key Key, v weather.ShortText) {
		if err := kv.SetString(ctx, key, v.String()); err != nil {
			errs = append(errs, err)
		}
	}

	setInt(KeyCurrentTemperatureC, snap.Current.TemperatureC)
	setString(KeyCurrentConditions, snap.Current.Description)
	setString(KeyCurrentForecastCondition, snap.Forecast.CurrentDay.Conditions)
	setInt(KeyCurrentLowC, snap.Forecast.CurrentDay.LowC)
	setInt(KeyCurrentHighC, snap.Forecast.CurrentDay.HighC)
	setInt(KeyCurrentWindDirDeg, snap.Current.WindDirectionDeg)
	setInt(KeyCurrentWindSpeedKts, snap.Current.WindSpeedKts)
	setInt(KeyCurrentDay, int(snap.Forecast.CurrentDayTimestamp))
	setInt(KeyForecastLowC, snap.Forecast.NextDay.LowC)
	setInt(KeyForecastHighC, snap.Forecast.NextDay.HighC)
	setString(KeyForecastConditions, snap.Forecast.NextDay.Conditions)

	setInt(KeyTemperatureUnits, int(snap.Units.Temperature))
	setInt(KeyWindSpeedUnits, int(snap.Units.Wind))
	setInt(KeyWeekNumberEnabled, boolToInt(snap.Units.WeekNumbering))
	setInt(KeyMondayFirst, int(snap.Units.WeekStart))

	if len(errs) > 0 {
		return fmt.Errorf("failed to persist %d of 15 fields: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

type snapshotReader struct {
	ctx context.Context
	kv  KV
}

func (r snapshotReader) readInt(key Key, def int) int {
	v, err := r.kv.GetInt(r.ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.Warn("store: using default after read failure", "key", key, "err", err)
		}
		return def
	}
	return v
}

func (r snapshotReader) readString(key Key, def string) string {
	v, err := r.kv.GetString(r.ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logging.Warn("store: using default after read failure", "key", key, "err", err)
		}
		return def
	}
	return v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
