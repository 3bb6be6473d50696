package face

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-watchface/internal/display"
	"github.com/i474232898/weather-watchface/internal/store"
	"github.com/i474232898/weather-watchface/internal/weather"
)

type fakeTicker struct {
	resolutions []time.Duration
}

func (f *fakeTicker) SetResolution(d time.Duration) {
	f.resolutions = append(f.resolutions, d)
}

type fakeRequester struct {
	calls int
}

func (f *fakeRequester) RequestForecast() {
	f.calls++
}

type fixture struct {
	engine    *Engine
	kv        *store.MemoryStore
	recorder  *display.Recorder
	ticker    *fakeTicker
	requester *fakeRequester
	now       time.Time
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	f := &fixture{
		kv:        store.NewMemoryStore(),
		recorder:  display.NewRecorder(),
		ticker:    &fakeTicker{},
		requester: &fakeRequester{},
		now:       time.Date(2024, time.June, 5, 9, 0, 0, 0, time.UTC),
	}

	opts.Location = time.UTC
	opts.Now = func() time.Time { return f.now }
	f.engine = NewEngine(opts, f.kv, f.recorder, f.ticker, f.requester)
	f.engine.refresh(f.now)
	return f
}

func (f *fixture) screen(t *testing.T) display.Screen {
	t.Helper()
	s, ok := f.recorder.Latest()
	require.True(t, ok)
	return s
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) tick() {
	f.engine.handle(tickEvent{at: f.now})
}

func juneTuples() []weather.Tuple {
	day := func(d int) int {
		return int(time.Date(2024, time.June, d, 12, 0, 0, 0, time.UTC).Unix())
	}
	return []weather.Tuple{
		weather.IntTuple(weather.TagTemperature, 20),
		weather.IntTuple(weather.TagWindSpeed, 5),
		weather.IntTuple(weather.TagWindDirection, 315),
		weather.TextTuple(weather.TagDescription, "light rain"),
		weather.IntTuple(weather.TagDay1Time, day(5)),
		weather.TextTuple(weather.TagDay1Conditions, "Rain"),
		weather.IntTuple(weather.TagDay1TempMin, 10),
		weather.IntTuple(weather.TagDay1TempMax, 20),
		weather.IntTuple(weather.TagDay2Time, day(6)),
		weather.TextTuple(weather.TagDay2Conditions, "Clear"),
		weather.IntTuple(weather.TagDay2TempMin, 12),
		weather.IntTuple(weather.TagDay2TempMax, 22),
		weather.IntTuple(weather.TagDay3Time, day(7)),
		weather.TextTuple(weather.TagDay3Conditions, "Fog"),
		weather.IntTuple(weather.TagDay3TempMin, 8),
		weather.IntTuple(weather.TagDay3TempMax, 18),
	}
}

func TestBundleIngestion(t *testing.T) {
	f := newFixture(t, Options{})

	f.engine.handle(bundleEvent{tuples: juneTuples()})

	s := f.screen(t)
	// 5 m/s is 9.7 knots, truncated.
	assert.Equal(t, "68F 9NW light rain", s.CurrentWeather)
	assert.Equal(t, "We", s.TodayLabel)
	assert.Equal(t, "50/68F Rain", s.TodayForecast)
	assert.Equal(t, "Th", s.NextLabel)
	assert.Equal(t, "53/71F Clear", s.NextForecast)
	assert.True(t, f.engine.state.DataConnected)
	assert.Equal(t, f.now, f.engine.state.LastResponse)
}

func TestBundleAfterRolloverUsesSecondDay(t *testing.T) {
	f := newFixture(t, Options{})
	f.now = time.Date(2024, time.June, 6, 0, 30, 0, 0, time.UTC)

	f.engine.handle(bundleEvent{tuples: juneTuples()})

	fc := f.engine.state.Forecast
	assert.Equal(t, weather.ShortText("Clear"), fc.CurrentDay.Conditions)
	assert.Equal(t, weather.ShortText("Fog"), fc.NextDay.Conditions)
	assert.Equal(t, "Th", f.screen(t).TodayLabel)
	assert.Equal(t, "Fr", f.screen(t).NextLabel)
}

func TestBundleWithoutMatchingDayKeepsForecast(t *testing.T) {
	f := newFixture(t, Options{})
	f.engine.handle(bundleEvent{tuples: juneTuples()})
	before := f.engine.state.Forecast

	f.now = time.Date(2024, time.June, 9, 10, 0, 0, 0, time.UTC)
	f.engine.handle(bundleEvent{tuples: juneTuples()})

	assert.Equal(t, before, f.engine.state.Forecast)
}

func TestPartialBundleKeepsPriorValues(t *testing.T) {
	f := newFixture(t, Options{})
	f.engine.handle(bundleEvent{tuples: juneTuples()})

	f.engine.handle(bundleEvent{tuples: []weather.Tuple{
		weather.IntTuple(weather.TagTemperature, 25),
		weather.IntTuple(weather.Tag(200), 1),
	}})

	cur := f.engine.state.Current
	assert.Equal(t, 25, cur.TemperatureC)
	assert.Equal(t, 9, cur.WindSpeedKts)
	assert.Equal(t, 315, cur.WindDirectionDeg)
	assert.Equal(t, weather.ShortText("light rain"), cur.Description)
	assert.Equal(t, weather.ShortText("Rain"), f.engine.state.Forecast.CurrentDay.Conditions)
}

func TestBundleSettings(t *testing.T) {
	f := newFixture(t, Options{})
	f.engine.handle(bundleEvent{tuples: juneTuples()})

	f.engine.handle(bundleEvent{tuples: []weather.Tuple{
		weather.TextTuple(weather.TagTemperatureUnits, "C"),
		weather.TextTuple(weather.TagWindSpeedUnits, "furlongs"),
		weather.TextTuple(weather.TagWeekNumberEnabled, "ENABLED"),
	}})

	units := f.engine.state.Units
	assert.Equal(t, weather.Celsius, units.Temperature)
	assert.Equal(t, weather.Knots, units.Wind, "unknown value keeps prior setting")
	assert.True(t, units.WeekNumbering)

	s := f.screen(t)
	assert.Equal(t, "10/20C Rain", s.TodayForecast)
	assert.Equal(t, "22", s.Seconds, "week number drawn immediately")
}

func TestTickRequestsForecast(t *testing.T) {
	f := newFixture(t, Options{})

	// Nothing requested yet, so the first tick asks.
	f.tick()
	assert.Equal(t, 1, f.requester.calls)

	f.advance(10 * time.Minute)
	f.tick()
	assert.Equal(t, 1, f.requester.calls)

	f.advance(21 * time.Minute)
	f.tick()
	assert.Equal(t, 2, f.requester.calls)
}

func TestTickOnNewDayRedrawsDateAndRequests(t *testing.T) {
	f := newFixture(t, Options{})
	f.tick()
	require.Equal(t, 1, f.requester.calls)
	assert.Equal(t, "Wednesday, Jun  5", f.screen(t).Date)

	f.now = time.Date(2024, time.June, 6, 0, 0, 0, 0, time.UTC)
	f.engine.state.LastRequest = f.now.Add(-time.Minute)
	f.tick()

	assert.Equal(t, 2, f.requester.calls)
	assert.Equal(t, "Thursday, Jun  6", f.screen(t).Date)
	assert.Equal(t, 6, f.engine.state.LastCalendarDay)
}

func TestDataLostWhenRequestUnanswered(t *testing.T) {
	f := newFixture(t, Options{})
	f.engine.handle(bluetoothEvent{connected: true})
	f.engine.handle(bundleEvent{tuples: juneTuples()})
	assert.Equal(t, "", f.screen(t).Link)

	f.advance(31 * time.Minute)
	f.tick()
	require.Equal(t, 1, f.requester.calls)

	f.advance(30 * time.Second)
	f.tick()
	assert.Equal(t, "", f.screen(t).Link, "still within the response window")

	f.advance(31 * time.Second)
	f.tick()
	assert.False(t, f.engine.state.DataConnected)
	assert.Equal(t, "No Data", f.screen(t).Link)

	f.engine.handle(bundleEvent{tuples: juneTuples()})
	assert.Equal(t, "", f.screen(t).Link)
}

func TestLinkLabel(t *testing.T) {
	f := newFixture(t, Options{})
	assert.Equal(t, "No Link", f.screen(t).Link)

	f.engine.handle(bluetoothEvent{connected: true})
	assert.Equal(t, "No Data", f.screen(t).Link)

	f.engine.handle(bundleEvent{tuples: juneTuples()})
	assert.Equal(t, "", f.screen(t).Link)

	f.engine.handle(bluetoothEvent{connected: false})
	assert.Equal(t, "No Link", f.screen(t).Link)
}

func TestLinkSeededConnected(t *testing.T) {
	f := newFixture(t, Options{BluetoothConnected: true})
	assert.Equal(t, "No Data", f.screen(t).Link)

	f.engine.handle(bundleEvent{tuples: juneTuples()})
	f.engine.handle(requestEvent{})

	s := f.screen(t)
	assert.Equal(t, "", s.Link)
	assert.Equal(t, "68F 9NW light rain", s.CurrentWeather)
}

func TestTapShowsSecondsThenReverts(t *testing.T) {
	f := newFixture(t, Options{})

	f.engine.handle(tapEvent{at: f.now})
	assert.True(t, f.engine.state.ShowingSeconds)
	assert.Equal(t, []time.Duration{time.Second}, f.ticker.resolutions)
	assert.Equal(t, "00", f.screen(t).Seconds)

	// A second tap while already showing seconds only extends the window.
	f.advance(100 * time.Second)
	f.engine.handle(tapEvent{at: f.now})
	assert.Len(t, f.ticker.resolutions, 1)

	f.advance(180 * time.Second)
	f.tick()
	assert.True(t, f.engine.state.ShowingSeconds)

	f.advance(time.Second)
	f.tick()
	assert.False(t, f.engine.state.ShowingSeconds)
	assert.Equal(t, []time.Duration{time.Second, time.Minute}, f.ticker.resolutions)
	assert.Equal(t, "", f.screen(t).Seconds)
}

func TestTapIgnoredOn24HourClock(t *testing.T) {
	f := newFixture(t, Options{Clock24h: true})

	f.engine.handle(tapEvent{at: f.now})
	assert.False(t, f.engine.state.ShowingSeconds)
	assert.Empty(t, f.ticker.resolutions)
	assert.Equal(t, "09:00", f.screen(t).Time)
}

func TestBatteryPassedThrough(t *testing.T) {
	f := newFixture(t, Options{})
	f.engine.handle(batteryEvent{battery: display.Battery{Percent: 40, Charging: true}})
	assert.Equal(t, display.Battery{Percent: 40, Charging: true}, f.screen(t).Battery)
}

func TestRequestNow(t *testing.T) {
	f := newFixture(t, Options{})
	f.engine.handle(requestEvent{})
	assert.Equal(t, 1, f.requester.calls)
	assert.Equal(t, f.now, f.engine.state.LastRequest)
}

func TestRunRestoresAndPersists(t *testing.T) {
	kv := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.SaveSnapshot(ctx, kv, weather.Snapshot{
		Current: weather.CurrentConditions{TemperatureC: 3, Description: "mist"},
		Units:   weather.UnitConfig{Temperature: weather.Celsius},
	}))

	now := time.Date(2024, time.June, 5, 9, 0, 0, 0, time.UTC)
	rec := display.NewRecorder()
	engine := NewEngine(Options{Location: time.UTC, Now: func() time.Time { return now }},
		kv, rec, &fakeTicker{}, &fakeRequester{})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		engine.Run(runCtx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		s, ok := rec.Latest()
		return ok && s.CurrentWeather == "3C 0N mist"
	}, time.Second, 5*time.Millisecond)

	engine.Deliver(juneTuples())
	require.Eventually(t, func() bool {
		s, _ := rec.Latest()
		return s.TodayForecast == "10/20C Rain"
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}

	snap := store.LoadSnapshot(ctx, kv)
	assert.Equal(t, 20, snap.Current.TemperatureC)
	assert.Equal(t, weather.ShortText("Rain"), snap.Forecast.CurrentDay.Conditions)
	assert.Equal(t, weather.ShortText("Clear"), snap.Forecast.NextDay.Conditions)
	assert.Equal(t, weather.Celsius, snap.Units.Temperature)
}
