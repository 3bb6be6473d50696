package weather

import (
	"fmt"
	"math"
)

const (
	knotsPerMps = 1.94384
	mphPerKnot  = 1.15077945
	kphPerKnot  = 1.85200
)

// CelsiusToFahrenheit converts and truncates toward zero for display.
func CelsiusToFahrenheit(c int) int {
	return int(float64(c)*9/5 + 32)
}

// FahrenheitToCelsius is the truncating inverse of CelsiusToFahrenheit.
func FahrenheitToCelsius(f int) int {
	return int(float64(f-32) * 5 / 9)
}

// MpsToKnots converts a wind speed in metres per second to knots.
func MpsToKnots(mps float64) float64 {
	return mps * knotsPerMps
}

// KnotsToPreferred converts a speed in knots to the configured unit.
// Unrecognized units are treated as knots.
func KnotsToPreferred(kts float64, unit WindUnit) float64 {
	switch unit {
	case Mph:
		return kts * mphPerKnot
	case Kph:
		return kts * kphPerKnot
	default:
		return kts
	}
}

// BearingToCompass buckets a bearing into one of eight compass labels.
//
// Sector bounds alternate between inclusive and exclusive comparisons
// (E, S and W own both of their boundaries, NE, SE, SW and NW neither);
// exact boundary angles resolve deterministically by that rule.
// NaN and infinite bearings read as "N".
func BearingToCompass(deg float64) string {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return "N"
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}

	switch {
	case deg >= 337.5 || deg <= 22.5:
		return "N"
	case deg < 67.5:
		return "NE"
	case deg <= 112.5:
		return "E"
	case deg < 157.5:
		return "SE"
	case deg <= 202.5:
		return "S"
	case deg < 247.5:
		return "SW"
	case deg <= 292.5:
		return "W"
	default:
		return "NW"
	}
}

// FormatTemperature renders a Celsius reading as "<n>F" or "<n>C".
func FormatTemperature(c int, unit TemperatureUnit) string {
	return fmt.Sprintf("%d%s", convertTemperature(c, unit), unit.Letter())
}

// FormatCurrentLine renders the live conditions line, e.g. "68F 12NW light rain".
func FormatCurrentLine(tempC, windKts, windDeg int, condition ShortText, cfg UnitConfig) string {
	return fmt.Sprintf("%s %d%s %s",
		FormatTemperature(tempC, cfg.Temperature),
		int(KnotsToPreferred(float64(windKts), cfg.Wind)),
		BearingToCompass(float64(NormalizeDegrees(windDeg))),
		condition,
	)
}

// FormatDayLine renders a forecast day, e.g. "50/68F Rain".
func FormatDayLine(lowC, highC int, condition ShortText, unit TemperatureUnit) string {
	return fmt.Sprintf("%d/%d%s %s",
		convertTemperature(lowC, unit),
		convertTemperature(highC, unit),
		unit.Letter(),
		condition,
	)
}

func convertTemperature(c int, unit TemperatureUnit) int {
	if unit == Celsius {
		return c
	}
	return CelsiusToFahrenheit(c)
}
