package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func juneDay(day int) int64 {
	return time.Date(2024, time.June, day, 12, 0, 0, 0, time.UTC).Unix()
}

func juneBundle() [ForecastDays]ForecastDay {
	return [ForecastDays]ForecastDay{
		{Timestamp: juneDay(5), LowC: 10, HighC: 20, Conditions: "Rain"},
		{Timestamp: juneDay(6), LowC: 12, HighC: 22, Conditions: "Clear"},
		{Timestamp: juneDay(7), LowC: 8, HighC: 18, Conditions: "Fog"},
	}
}

func staleForecast() ReconciledForecast {
	return ReconciledForecast{
		CurrentDayTimestamp: juneDay(1),
		CurrentDay:          ForecastDay{Timestamp: juneDay(1), LowC: -3, HighC: 4, Conditions: "Snow"},
		NextDay:             ForecastDay{Timestamp: juneDay(2), LowC: -1, HighC: 6, Conditions: "Clouds"},
	}
}

func TestReconcileScenarios(t *testing.T) {
	days := juneBundle()

	tests := []struct {
		name    string
		today   int
		updated bool
		want    ReconciledForecast
	}{
		{
			name:    "first record is today",
			today:   5,
			updated: true,
			want: ReconciledForecast{
				CurrentDayTimestamp: juneDay(5),
				CurrentDay:          days[0],
				NextDay:             days[1],
			},
		},
		{
			name:    "second record is today",
			today:   6,
			updated: true,
			want: ReconciledForecast{
				CurrentDayTimestamp: juneDay(6),
				CurrentDay:          days[1],
				NextDay:             days[2],
			},
		},
		{
			name:    "no record is today",
			today:   9,
			updated: false,
			want:    staleForecast(),
		},
		{
			name:    "third record alone never becomes today",
			today:   7,
			updated: false,
			want:    staleForecast(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := staleForecast()
			updated := Reconcile(days, tt.today, time.UTC, &got)

			assert.Equal(t, tt.updated, updated)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReconcileScenarioValues(t *testing.T) {
	got := ReconciledForecast{}
	require.True(t, Reconcile(juneBundle(), 5, time.UTC, &got))

	assert.Equal(t, 10, got.CurrentDay.LowC)
	assert.Equal(t, 20, got.CurrentDay.HighC)
	assert.Equal(t, ShortText("Rain"), got.CurrentDay.Conditions)
	assert.Equal(t, 12, got.NextDay.LowC)
	assert.Equal(t, 22, got.NextDay.HighC)
	assert.Equal(t, ShortText("Clear"), got.NextDay.Conditions)
}

func TestReconcileIgnoresPriorState(t *testing.T) {
	days := juneBundle()
	priors := []ReconciledForecast{{}, staleForecast(), {CurrentDay: days[2], NextDay: days[0]}}

	for _, prior := range priors {
		got := prior
		require.True(t, Reconcile(days, 5, time.UTC, &got))
		assert.Equal(t, days[0], got.CurrentDay)
		assert.Equal(t, days[1], got.NextDay)
	}
}

func TestReconcileAbsentFirstDayRetainsState(t *testing.T) {
	days := juneBundle()
	days[0] = ForecastDay{}

	got := staleForecast()
	assert.False(t, Reconcile(days, 6, time.UTC, &got))
	assert.Equal(t, staleForecast(), got)
}

func TestReconcileAbsentSuccessorClearsNextDay(t *testing.T) {
	days := juneBundle()
	days[1] = ForecastDay{}

	got := staleForecast()
	require.True(t, Reconcile(days, 5, time.UTC, &got))
	assert.Equal(t, days[0], got.CurrentDay)
	assert.Equal(t, ForecastDay{}, got.NextDay)
}

func TestReconcileUsesLocalCalendarDay(t *testing.T) {
	// Midnight UTC records read as the previous evening in New York, so the
	// second record is "today" there even though it is the 6th in UTC.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	days := [ForecastDays]ForecastDay{
		{Timestamp: time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC).Unix(), LowC: 1, Conditions: "Rain"},
		{Timestamp: time.Date(2024, time.June, 6, 0, 0, 0, 0, time.UTC).Unix(), LowC: 2, Conditions: "Clear"},
		{Timestamp: time.Date(2024, time.June, 7, 0, 0, 0, 0, time.UTC).Unix(), LowC: 3, Conditions: "Fog"},
	}

	got := ReconciledForecast{}
	require.True(t, Reconcile(days, 5, ny, &got))
	assert.Equal(t, days[1], got.CurrentDay)
	assert.Equal(t, days[2], got.NextDay)
}
