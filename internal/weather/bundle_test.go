package weather

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBundle(t *testing.T) {
	tuples := []Tuple{
		IntTuple(TagTemperature, 18),
		IntTuple(TagWindSpeed, 5),
		IntTuple(TagWindDirection, 200),
		TextTuple(TagDescription, "scattered clouds"),
		IntTuple(TagHumidity, 80),
		TextTuple(TagDay1Conditions, "Rain"),
		IntTuple(TagDay1TempMin, 10),
		IntTuple(TagDay1TempMax, 20),
		IntTuple(TagDay1Time, int(juneDay(5))),
		IntTuple(TagDay3Time, int(juneDay(7))),
		TextTuple(TagTemperatureUnits, "C"),
		IntTuple(Tag(99), 1),
	}

	b, unknown := DecodeBundle(tuples)

	require.NotNil(t, b.TemperatureC)
	assert.Equal(t, 18, *b.TemperatureC)
	require.NotNil(t, b.WindSpeedMps)
	assert.Equal(t, 5, *b.WindSpeedMps)
	require.NotNil(t, b.WindDirectionDeg)
	assert.Equal(t, 200, *b.WindDirectionDeg)
	require.NotNil(t, b.Description)
	assert.Equal(t, ShortText("scattered clouds"), *b.Description)

	assert.Equal(t, ForecastDay{Timestamp: juneDay(5), LowC: 10, HighC: 20, Conditions: "Rain"}, b.Days[0])
	assert.False(t, b.Days[1].Present())
	assert.Equal(t, juneDay(7), b.Days[2].Timestamp)
	assert.True(t, b.HasForecast())

	assert.Equal(t, []Setting{{Tag: TagTemperatureUnits, Value: "C"}}, b.Settings)
	assert.Equal(t, []Tag{99}, unknown)
}

func TestDecodeBundlePartial(t *testing.T) {
	b, unknown := DecodeBundle([]Tuple{TextTuple(TagDescription, strings.Repeat("y", 64))})

	assert.Empty(t, unknown)
	assert.Nil(t, b.TemperatureC)
	assert.Nil(t, b.WindSpeedMps)
	assert.False(t, b.HasForecast())
	require.NotNil(t, b.Description)
	assert.Len(t, b.Description.String(), MaxTextLen)
}

func TestBundleTuplesDecodeBack(t *testing.T) {
	temp, wind, dir := -2, 7, 10
	desc := NewShortText("snow")
	b := Bundle{
		TemperatureC:     &temp,
		WindSpeedMps:     &wind,
		WindDirectionDeg: &dir,
		Description:      &desc,
	}
	b.Days = juneBundle()
	b.Settings = []Setting{{Tag: TagMondayFirst, Value: "ENABLED"}}

	got, unknown := DecodeBundle(b.Tuples())
	assert.Empty(t, unknown)
	assert.Equal(t, b, got)
}

func TestUnitConfigApply(t *testing.T) {
	cfg := DefaultUnitConfig()

	assert.True(t, cfg.Apply(TagTemperatureUnits, "C"))
	assert.True(t, cfg.Apply(TagWindSpeedUnits, "KPH"))
	assert.True(t, cfg.Apply(TagWeekNumberEnabled, "ENABLED"))
	assert.True(t, cfg.Apply(TagMondayFirst, "ENABLED"))
	assert.Equal(t, UnitConfig{Temperature: Celsius, Wind: Kph, WeekNumbering: true, WeekStart: WeekStartsMonday}, cfg)

	before := cfg
	assert.False(t, cfg.Apply(TagTemperatureUnits, "K"))
	assert.False(t, cfg.Apply(TagWindSpeedUnits, "m/s"))
	assert.False(t, cfg.Apply(TagMondayFirst, "yes"))
	assert.False(t, cfg.Apply(TagDescription, "C"))
	assert.Equal(t, before, cfg, "unknown values keep prior configuration")

	assert.True(t, cfg.Apply(TagWindSpeedUnits, "MPH"))
	assert.Equal(t, Mph, cfg.Wind)
}
