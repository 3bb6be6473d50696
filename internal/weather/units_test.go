package weather

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCelsiusFahrenheitRoundTrip(t *testing.T) {
	for c := -40; c <= 50; c++ {
		back := FahrenheitToCelsius(CelsiusToFahrenheit(c))
		assert.InDelta(t, c, back, 1, "celsius %d came back as %d", c, back)
	}
}

func TestCelsiusToFahrenheit(t *testing.T) {
	assert.Equal(t, 32, CelsiusToFahrenheit(0))
	assert.Equal(t, 212, CelsiusToFahrenheit(100))
	assert.Equal(t, -40, CelsiusToFahrenheit(-40))
	// 21C is 69.8F and truncates.
	assert.Equal(t, 69, CelsiusToFahrenheit(21))
}

func TestWindConversions(t *testing.T) {
	assert.InDelta(t, 19.4384, MpsToKnots(10), 1e-9)
	assert.InDelta(t, 10, KnotsToPreferred(10, Knots), 1e-9)
	assert.InDelta(t, 11.5077945, KnotsToPreferred(10, Mph), 1e-9)
	assert.InDelta(t, 18.52, KnotsToPreferred(10, Kph), 1e-9)
	assert.InDelta(t, 10, KnotsToPreferred(10, WindUnit(9)), 1e-9)
}

func TestBearingToCompass(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{22.5, "N"},
		{337.5, "N"},
		{359, "N"},
		{23, "NE"},
		{45, "NE"},
		{67.5, "E"},
		{90, "E"},
		{112.5, "E"},
		{113, "SE"},
		{157.5, "S"},
		{202.5, "S"},
		{203, "SW"},
		{247.5, "W"},
		{292.5, "W"},
		{300, "NW"},
		{360, "N"},
		{-90, "W"},
		{405, "NE"},
		{-360.5, "N"},
		{1e300, "N"},
		{-1e300, "N"},
		{math.Inf(1), "N"},
		{math.Inf(-1), "N"},
		{math.NaN(), "N"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BearingToCompass(tt.deg), "bearing %v", tt.deg)
	}
}

func TestFormatTemperature(t *testing.T) {
	assert.Equal(t, "68F", FormatTemperature(20, Fahrenheit))
	assert.Equal(t, "20C", FormatTemperature(20, Celsius))
	assert.Equal(t, "-5C", FormatTemperature(-5, Celsius))
}

func TestFormatCurrentLine(t *testing.T) {
	cfg := DefaultUnitConfig()
	assert.Equal(t, "68F 12NW light rain", FormatCurrentLine(20, 12, 315, "light rain", cfg))

	cfg.Temperature = Celsius
	cfg.Wind = Kph
	assert.Equal(t, "20C 18S clear sky", FormatCurrentLine(20, 10, 180, "clear sky", cfg))

	// Direction is normalized before bucketing.
	assert.Equal(t, "20C 0E calm", FormatCurrentLine(20, 0, 450, "calm", cfg))
}

func TestFormatDayLine(t *testing.T) {
	assert.Equal(t, "50/68F Rain", FormatDayLine(10, 20, "Rain", Fahrenheit))
	assert.Equal(t, "10/20C Rain", FormatDayLine(10, 20, "Rain", Celsius))
}

func TestNewShortText(t *testing.T) {
	assert.Equal(t, ShortText("Rain"), NewShortText("Rain"))

	long := strings.Repeat("x", 40)
	assert.Len(t, NewShortText(long).String(), MaxTextLen)

	// A multi-byte rune straddling the limit is dropped whole.
	straddle := strings.Repeat("a", MaxTextLen-1) + "é"
	got := NewShortText(straddle)
	assert.Equal(t, strings.Repeat("a", MaxTextLen-1), got.String())
}

func TestNormalizeDegrees(t *testing.T) {
	assert.Equal(t, 0, NormalizeDegrees(360))
	assert.Equal(t, 270, NormalizeDegrees(-90))
	assert.Equal(t, 45, NormalizeDegrees(765))
	assert.Equal(t, 359, NormalizeDegrees(359))
}
