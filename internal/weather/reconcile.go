package weather

import "time"

// Reconcile decides which received day record describes "today" and writes
// the today/tomorrow pair into out.
//
// The companion's first record is usually today, but around midnight in some
// time zones it still describes yesterday, so records are matched by calendar
// day rather than by position. today is the local day of month and loc the
// zone used to turn day timestamps into calendar days.
//
// When neither of the first two records matches, or the first record is
// absent, out is left untouched: a stale forecast is preferred over a guess.
// It reports whether out was updated.
func Reconcile(days [ForecastDays]ForecastDay, today int, loc *time.Location, out *ReconciledForecast) bool {
	if loc == nil {
		loc = time.Local
	}

	day1, day2, day3 := days[0], days[1], days[2]
	if !day1.Present() {
		return false
	}

	switch {
	case dayOfMonth(day1, loc) == today:
		*out = ReconciledForecast{
			CurrentDayTimestamp: day1.Timestamp,
			CurrentDay:          day1,
			NextDay:             successor(day2),
		}
	case day2.Present() && dayOfMonth(day2, loc) == today:
		*out = ReconciledForecast{
			CurrentDayTimestamp: day2.Timestamp,
			CurrentDay:          day2,
			NextDay:             successor(day3),
		}
	default:
		return false
	}

	return true
}

func dayOfMonth(d ForecastDay, loc *time.Location) int {
	return time.Unix(d.Timestamp, 0).In(loc).Day()
}

// successor returns d, or an empty day when the bundle did not carry it, so
// the next-day slot never holds a record from an older bundle.
func successor(d ForecastDay) ForecastDay {
	if !d.Present() {
		return ForecastDay{}
	}
	return d
}
