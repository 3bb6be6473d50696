package face

import (
	"time"

	"github.com/i474232898/weather-watchface/internal/display"
	"github.com/i474232898/weather-watchface/internal/weather"
)

// State is everything the watchface knows. It is owned by the engine
// goroutine and never shared.
type State struct {
	Current  weather.CurrentConditions
	Forecast weather.ReconciledForecast
	Units    weather.UnitConfig
	Battery  display.Battery

	BluetoothConnected bool
	DataConnected      bool
	ShowingSeconds     bool

	LastRequest  time.Time
	LastResponse time.Time
	LastTap      time.Time

	// Day of month the date and calendar were last drawn for; 0 before the
	// first draw.
	LastCalendarDay int
}

// NewState returns the start-of-process state.
func NewState() State {
	return State{Units: weather.DefaultUnitConfig()}
}

// Snapshot returns the persisted part of the state.
func (s State) Snapshot() weather.Snapshot {
	return weather.Snapshot{
		Current:  s.Current,
		Forecast: s.Forecast,
		Units:    s.Units,
	}
}

// Restore replaces the persisted part of the state.
func (s *State) Restore(snap weather.Snapshot) {
	s.Current = snap.Current
	s.Forecast = snap.Forecast
	s.Units = snap.Units
}

// LinkLabel is the status line text: empty while bluetooth and data are both
// up, "No Data" when bluetooth is up but data stopped, "No Link" otherwise.
func (s State) LinkLabel() string {
	switch {
	case !s.BluetoothConnected:
		return "No Link"
	case !s.DataConnected:
		return "No Data"
	default:
		return ""
	}
}

// ingest applies a decoded bundle's current conditions and settings. Fields
// the bundle did not carry keep their previous value. It reports whether any
// setting changed.
func (s *State) ingest(b weather.Bundle) (settingsChanged bool, rejected []weather.Setting) {
	if b.TemperatureC != nil {
		s.Current.TemperatureC = *b.TemperatureC
	}
	if b.WindSpeedMps != nil {
		s.Current.WindSpeedKts = int(weather.MpsToKnots(float64(*b.WindSpeedMps)))
	}
	if b.WindDirectionDeg != nil {
		s.Current.WindDirectionDeg = weather.NormalizeDegrees(*b.WindDirectionDeg)
	}
	if b.Description != nil {
		s.Current.Description = *b.Description
	}

	before := s.Units
	for _, setting := range b.Settings {
		if !s.Units.Apply(setting.Tag, setting.Value) {
			rejected = append(rejected, setting)
		}
	}
	return s.Units != before, rejected
}
