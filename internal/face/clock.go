package face

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/i474232898/weather-watchface/internal/display"
	"github.com/i474232898/weather-watchface/internal/weather"
)

const secondsPerDay = 86400

// ClockFields renders the time, AM/PM and seconds slots.
//
// The 24-hour clock shows neither AM/PM nor seconds because "24:00" runs into
// them. On the 12-hour clock the seconds slot shows the week number when
// enabled, the seconds while seconds mode is on, and nothing otherwise.
func ClockFields(now time.Time, clock24h, showSeconds bool, units weather.UnitConfig) (hm, ampm, secs string) {
	if clock24h {
		return now.Format("15:04"), "", ""
	}

	hour := now.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	hm = fmt.Sprintf("%2d:%02d", hour, now.Minute())

	switch {
	case units.WeekNumbering:
		secs = WeekNumber(now, units.WeekStart)
	case showSeconds:
		secs = now.Format("05")
	}

	ampm = "AM"
	if now.Hour() >= 12 {
		ampm = "PM"
	}
	return hm, ampm, secs
}

// WeekNumber returns the two-digit week of the year, counting weeks from the
// first Monday (Monday start) or first Sunday (Sunday start).
func WeekNumber(t time.Time, start weather.WeekStart) string {
	if start == weather.WeekStartsMonday {
		return strftime.Format("%W", t)
	}
	return strftime.Format("%U", t)
}

// DateLine renders the long date, e.g. "Wednesday, Jun  5".
func DateLine(t time.Time) string {
	return strftime.Format("%A, %b %e", t)
}

// Calendar lays out two weeks of day-of-month labels starting at the
// beginning of the current week, flagging today's cell.
func Calendar(now time.Time, start weather.WeekStart) [display.CalendarDays]display.CalendarCell {
	idx := int(now.Weekday())
	if start == weather.WeekStartsMonday {
		// Sunday wraps to the end of a Monday-first week.
		idx = (idx + 6) % 7
	}

	first := now.AddDate(0, 0, -idx)

	var cells [display.CalendarDays]display.CalendarCell
	for i := range cells {
		day := first.AddDate(0, 0, i)
		cells[i] = display.CalendarCell{
			Label: strconv.Itoa(day.Day()),
			Today: i == idx,
		}
	}
	return cells
}

// DayLabel renders a two-letter weekday for a day timestamp, e.g. "We".
func DayLabel(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(loc).Format("Mon")[:2]
}
