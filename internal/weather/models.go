package weather

import (
	"unicode/utf8"
)

// MaxTextLen is the longest condition/description text kept, in bytes.
// It matches the 32-byte buffers of the display (31 bytes plus terminator).
const MaxTextLen = 31

// ShortText is a string bounded to MaxTextLen bytes.
// Use NewShortText to build one; the zero value is the empty string.
type ShortText string

// NewShortText truncates s to at most MaxTextLen bytes without splitting a
// UTF-8 sequence.
func NewShortText(s string) ShortText {
	if len(s) <= MaxTextLen {
		return ShortText(s)
	}
	cut := MaxTextLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return ShortText(s[:cut])
}

func (t ShortText) String() string {
	return string(t)
}

// ForecastDay describes one forecast day slot as received from the companion.
// A zero Timestamp marks the record as absent.
type ForecastDay struct {
	Timestamp  int64     `json:"dayTimestamp"` // epoch seconds
	LowC       int       `json:"lowC"`
	HighC      int       `json:"highC"`
	Conditions ShortText `json:"conditions"`
}

// Present reports whether the record carries a day timestamp.
func (d ForecastDay) Present() bool {
	return d.Timestamp != 0
}

// CurrentConditions is the live weather snapshot.
type CurrentConditions struct {
	TemperatureC     int       `json:"temperatureC"`
	WindSpeedKts     int       `json:"windSpeedKts"`
	WindDirectionDeg int       `json:"windDirectionDeg"` // always in [0, 360)
	Description      ShortText `json:"description"`
}

// ReconciledForecast is the two-slot forecast derived by Reconcile.
type ReconciledForecast struct {
	CurrentDayTimestamp int64       `json:"currentDayTimestamp"`
	CurrentDay          ForecastDay `json:"currentDay"`
	NextDay             ForecastDay `json:"nextDay"`
}

// Snapshot is everything persisted across restarts.
type Snapshot struct {
	Current  CurrentConditions  `json:"current"`
	Forecast ReconciledForecast `json:"forecast"`
	Units    UnitConfig         `json:"units"`
}

// NormalizeDegrees maps any integer bearing into [0, 360).
func NormalizeDegrees(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
