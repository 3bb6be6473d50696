// Package display holds the display collaborators of the watchface. The
// engine hands them a fully formatted Screen; layout and styling live here.
package display

import (
	"sync"
	"time"
)

// CalendarDays is the number of cells in the two-week calendar strip.
const CalendarDays = 14

// CalendarCell is one day-of-month label of the calendar strip.
type CalendarCell struct {
	Label string `json:"label"`
	Today bool   `json:"today"`
}

// Battery is the raw charge state; rendering it is up to the display.
type Battery struct {
	Percent  int  `json:"percent"`
	Charging bool `json:"charging"`
}

// Screen is every text field of the watchface at one point in time.
type Screen struct {
	Link           string                     `json:"link"`
	Battery        Battery                    `json:"battery"`
	Time           string                     `json:"time"`
	AmPm           string                     `json:"amPm"`
	Seconds        string                     `json:"seconds"`
	Date           string                     `json:"date"`
	CurrentWeather string                     `json:"currentWeather"`
	TodayLabel     string                     `json:"todayLabel"`
	TodayForecast  string                     `json:"todayForecast"`
	NextLabel      string                     `json:"nextLabel"`
	NextForecast   string                     `json:"nextForecast"`
	Calendar       [CalendarDays]CalendarCell `json:"calendar"`
	RenderedAt     time.Time                  `json:"renderedAt"`
}

// Display receives rendered screens.
type Display interface {
	Render(Screen)
}

// Recorder keeps the most recent screen for concurrent readers.
type Recorder struct {
	mu     sync.RWMutex
	screen Screen
	ok     bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Render stores s as the latest screen.
func (r *Recorder) Render(s Screen) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screen = s
	r.ok = true
}

// Latest returns the last rendered screen, and false before the first render.
func (r *Recorder) Latest() (Screen, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.screen, r.ok
}

// Multi fans a screen out to several displays in order.
type Multi []Display

// Render forwards s to every display.
func (m Multi) Render(s Screen) {
	for _, d := range m {
		d.Render(s)
	}
}

var (
	_ Display = (*Recorder)(nil)
	_ Display = Multi(nil)
)
