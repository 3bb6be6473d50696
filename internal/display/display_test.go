package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScreen() Screen {
	s := Screen{
		Link:           "No Data",
		Battery:        Battery{Percent: 80, Charging: true},
		Time:           "10:42",
		AmPm:           "AM",
		Date:           "Wednesday, Jun  5",
		CurrentWeather: "68F 12NW light rain",
		TodayLabel:     "We",
		TodayForecast:  "50/68F Rain",
		NextLabel:      "Th",
		NextForecast:   "53/71F Clear",
	}
	for i := range s.Calendar {
		s.Calendar[i] = CalendarCell{Label: "1", Today: i == 3}
	}
	return s
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	_, ok := r.Latest()
	assert.False(t, ok)

	r.Render(sampleScreen())
	got, ok := r.Latest()
	require.True(t, ok)
	assert.Equal(t, "10:42", got.Time)
}

func TestMultiForwardsToAll(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	Multi{a, b}.Render(sampleScreen())

	_, okA := a.Latest()
	_, okB := b.Latest()
	assert.True(t, okA)
	assert.True(t, okB)
}

func TestFormatBattery(t *testing.T) {
	assert.Equal(t, " 80%+", FormatBattery(Battery{Percent: 80, Charging: true}))
	assert.Equal(t, " 5%", FormatBattery(Battery{Percent: 5}))
}

func TestTerminalRender(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf, false).Render(sampleScreen())

	out := buf.String()
	for _, want := range []string{"No Data", "80%+", "10:42", "AM", "Wednesday", "68F 12NW light rain", "50/68F Rain", "53/71F Clear"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[2J")
}

func TestTerminalRenderClears(t *testing.T) {
	var buf bytes.Buffer
	NewTerminal(&buf, true).Render(sampleScreen())
	assert.Contains(t, buf.String(), "\x1b[H\x1b[2J")
}
