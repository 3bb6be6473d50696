// Package face runs the watchface: it owns the weather and status state,
// serializes every stimulus onto one goroutine, and renders the screen.
package face

import (
	"context"
	"time"

	"github.com/i474232898/weather-watchface/internal/display"
	"github.com/i474232898/weather-watchface/internal/logging"
	"github.com/i474232898/weather-watchface/internal/store"
	"github.com/i474232898/weather-watchface/internal/weather"
)

// Ticker is the timer collaborator. The engine asks for per-second ticks
// while seconds are shown and per-minute ticks otherwise.
type Ticker interface {
	SetResolution(d time.Duration)
}

// Requester is the outbound side of the data channel. RequestForecast must
// not block; the answer arrives later through Engine.Deliver.
type Requester interface {
	RequestForecast()
}

// Options tune the engine.
type Options struct {
	// Clock24h selects the 24-hour clock, which never shows seconds.
	Clock24h bool
	// Location is the zone of the local calendar. Defaults to time.Local.
	Location *time.Location
	// UpdateInterval is how long after the last request a new one is sent.
	UpdateInterval time.Duration
	// DataLostAfter is how long a request may stay unanswered before the
	// data link is considered lost.
	DataLostAfter time.Duration
	// ShowSecondsFor is how long seconds stay visible after a tap.
	ShowSecondsFor time.Duration
	// BluetoothConnected seeds the link state before the first
	// connectivity event arrives.
	BluetoothConnected bool
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the standard timings.
func DefaultOptions() Options {
	return Options{
		Location:       time.Local,
		UpdateInterval: 30 * time.Minute,
		DataLostAfter:  60 * time.Second,
		ShowSecondsFor: 180 * time.Second,
		Now:            time.Now,
	}
}

const eventQueueSize = 64

type event interface{}

type (
	tickEvent      struct{ at time.Time }
	tapEvent       struct{ at time.Time }
	bundleEvent    struct{ tuples []weather.Tuple }
	bluetoothEvent struct{ connected bool }
	batteryEvent   struct{ battery display.Battery }
	requestEvent   struct{}
)

// Engine is the watchface event loop.
type Engine struct {
	opts      Options
	state     State
	screen    display.Screen
	kv        store.KV
	display   display.Display
	ticker    Ticker
	requester Requester
	events    chan event
}

// NewEngine creates an engine. Zero-valued options fall back to
// DefaultOptions.
func NewEngine(opts Options, kv store.KV, d display.Display, ticker Ticker, requester Requester) *Engine {
	def := DefaultOptions()
	if opts.Location == nil {
		opts.Location = def.Location
	}
	if opts.UpdateInterval <= 0 {
		opts.UpdateInterval = def.UpdateInterval
	}
	if opts.DataLostAfter <= 0 {
		opts.DataLostAfter = def.DataLostAfter
	}
	if opts.ShowSecondsFor <= 0 {
		opts.ShowSecondsFor = def.ShowSecondsFor
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}

	state := NewState()
	state.BluetoothConnected = opts.BluetoothConnected

	return &Engine{
		opts:      opts,
		state:     state,
		kv:        kv,
		display:   d,
		ticker:    ticker,
		requester: requester,
		events:    make(chan event, eventQueueSize),
	}
}

// Tick delivers a timer tick.
func (e *Engine) Tick(at time.Time) { e.post(tickEvent{at: at}) }

// Tap records a wrist tap.
func (e *Engine) Tap() { e.post(tapEvent{at: e.opts.Now()}) }

// Deliver hands an inbound bundle to the engine.
func (e *Engine) Deliver(tuples []weather.Tuple) { e.post(bundleEvent{tuples: tuples}) }

// SetBluetooth reports a connectivity change.
func (e *Engine) SetBluetooth(connected bool) { e.post(bluetoothEvent{connected: connected}) }

// SetBattery reports a battery change.
func (e *Engine) SetBattery(b display.Battery) { e.post(batteryEvent{battery: b}) }

// RequestNow asks for a forecast on the next loop iteration.
func (e *Engine) RequestNow() { e.post(requestEvent{}) }

func (e *Engine) post(ev event) {
	select {
	case e.events <- ev:
	default:
		logging.Warn("face: event queue full, dropping event", "event", ev)
	}
}

// Run restores the persisted snapshot, draws the first screen and processes
// events until ctx is done, then persists the snapshot again.
func (e *Engine) Run(ctx context.Context) {
	e.Restore(ctx)
	e.refresh(e.opts.Now())

	for {
		select {
		case <-ctx.Done():
			// ctx is already cancelled; give the final write its own deadline.
			persistCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			e.Persist(persistCtx)
			cancel()
			return
		case ev := <-e.events:
			e.handle(ev)
		}
	}
}

// Restore loads the persisted snapshot into the state.
func (e *Engine) Restore(ctx context.Context) {
	e.state.Restore(store.LoadSnapshot(ctx, e.kv))
	logging.Info("face: restored snapshot",
		"temperatureC", e.state.Current.TemperatureC,
		"currentDay", e.state.Forecast.CurrentDayTimestamp,
	)
}

// Persist writes the snapshot. Failures are logged; the next shutdown tries
// again.
func (e *Engine) Persist(ctx context.Context) {
	if err := store.SaveSnapshot(ctx, e.kv, e.state.Snapshot()); err != nil {
		logging.Error("face: failed to persist snapshot", "err", err)
		return
	}
	logging.Debug("face: snapshot persisted")
}

func (e *Engine) handle(ev event) {
	now := e.opts.Now()

	switch ev := ev.(type) {
	case tickEvent:
		e.handleTick(ev.at)
	case tapEvent:
		e.handleTap(ev.at)
	case bundleEvent:
		e.handleBundle(ev.tuples, now)
	case bluetoothEvent:
		e.state.BluetoothConnected = ev.connected
		e.updateLink()
	case batteryEvent:
		e.state.Battery = ev.battery
		e.screen.Battery = ev.battery
	case requestEvent:
		e.requestForecast(now)
	default:
		logging.Warn("face: unknown event", "event", ev)
		return
	}

	e.render(now)
}

func (e *Engine) handleTick(now time.Time) {
	if e.state.ShowingSeconds && now.Sub(e.state.LastTap) > e.opts.ShowSecondsFor {
		// Back to minute ticks until the next tap.
		e.state.ShowingSeconds = false
		e.setResolution(time.Minute)
	}

	e.updateTime(now)

	if e.state.LastCalendarDay != e.local(now).Day() {
		e.updateDate(now)
		// A new day needs the new day's forecast.
		e.requestForecast(now)
	}

	if now.Sub(e.state.LastRequest) > e.opts.UpdateInterval {
		e.requestForecast(now)
	}

	if e.state.DataConnected &&
		e.state.LastRequest.After(e.state.LastResponse) &&
		now.Sub(e.state.LastRequest) > e.opts.DataLostAfter {
		logging.Warn("face: no response to forecast request, marking data lost",
			"requestedAt", e.state.LastRequest,
			"lastResponse", e.state.LastResponse,
		)
		e.state.DataConnected = false
		e.updateLink()
	}
}

func (e *Engine) handleTap(now time.Time) {
	e.state.LastTap = now

	if e.state.Units.WeekNumbering || e.opts.Clock24h || e.state.ShowingSeconds {
		return
	}

	e.state.ShowingSeconds = true
	e.updateTime(now)
	e.setResolution(time.Second)
}

func (e *Engine) handleBundle(tuples []weather.Tuple, now time.Time) {
	e.state.LastResponse = now
	e.state.DataConnected = true
	e.updateLink()

	bundle, unknown := weather.DecodeBundle(tuples)
	for _, tag := range unknown {
		logging.Error("face: key not recognized", "key", tag)
	}

	settingsChanged, rejected := e.state.ingest(bundle)
	for _, s := range rejected {
		logging.Warn("face: ignoring unknown setting value", "key", s.Tag, "value", s.Value)
	}

	if bundle.HasForecast() {
		today := e.local(now).Day()
		if !weather.Reconcile(bundle.Days, today, e.opts.Location, &e.state.Forecast) {
			logging.Info("face: no forecast day matches today, keeping previous forecast",
				"today", today,
				"day1", bundle.Days[0].Timestamp,
				"day2", bundle.Days[1].Timestamp,
			)
		}
	}

	if settingsChanged {
		e.updateTime(now)
		e.updateDate(now)
	}
	e.updateWeather()
}

func (e *Engine) requestForecast(now time.Time) {
	e.state.LastRequest = now
	e.requester.RequestForecast()
}

func (e *Engine) setResolution(d time.Duration) {
	if e.ticker != nil {
		e.ticker.SetResolution(d)
	}
}

// refresh redraws every field, as after start-up.
func (e *Engine) refresh(now time.Time) {
	e.updateTime(now)
	e.updateDate(now)
	e.updateLink()
	e.screen.Battery = e.state.Battery
	e.updateWeather()
	e.render(now)
}

func (e *Engine) updateLink() {
	e.screen.Link = e.state.LinkLabel()
}

func (e *Engine) updateTime(now time.Time) {
	e.screen.Time, e.screen.AmPm, e.screen.Seconds = ClockFields(
		e.local(now), e.opts.Clock24h, e.state.ShowingSeconds, e.state.Units,
	)
}

func (e *Engine) updateDate(now time.Time) {
	local := e.local(now)
	e.state.LastCalendarDay = local.Day()
	e.screen.Date = DateLine(local)
	e.screen.Calendar = Calendar(local, e.state.Units.WeekStart)
}

func (e *Engine) updateWeather() {
	cur := e.state.Current
	units := e.state.Units
	fc := e.state.Forecast

	e.screen.CurrentWeather = weather.FormatCurrentLine(
		cur.TemperatureC, cur.WindSpeedKts, cur.WindDirectionDeg, cur.Description, units,
	)

	if fc.CurrentDayTimestamp > 0 {
		e.screen.TodayLabel = DayLabel(fc.CurrentDayTimestamp, e.opts.Location)
		e.screen.NextLabel = DayLabel(fc.CurrentDayTimestamp+secondsPerDay, e.opts.Location)
	}

	e.screen.TodayForecast = weather.FormatDayLine(fc.CurrentDay.LowC, fc.CurrentDay.HighC, fc.CurrentDay.Conditions, units.Temperature)
	e.screen.NextForecast = weather.FormatDayLine(fc.NextDay.LowC, fc.NextDay.HighC, fc.NextDay.Conditions, units.Temperature)
}

func (e *Engine) render(now time.Time) {
	e.screen.RenderedAt = now
	if e.display != nil {
		e.display.Render(e.screen)
	}
}

func (e *Engine) local(t time.Time) time.Time {
	return t.In(e.opts.Location)
}
