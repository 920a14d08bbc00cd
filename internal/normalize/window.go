package normalize

import "time"

// Window is a 24-hour display-day span anchored at a fixed local hour.
type Window struct {
	Start time.Time // Inclusive
	End   time.Time // Exclusive
}

// DayWindow computes the display window for the given day in zone, anchored
// at startHour local time. The window ends at the following day's startHour
// in local time, not 24 wall-clock hours later, so DST transition days span
// 23 or 25 hours and consecutive windows stay contiguous without overlap.
func DayWindow(day time.Time, zone *time.Location, startHour int) Window {
	y, m, d := day.In(zone).Date()
	return Window{
		Start: time.Date(y, m, d, startHour, 0, 0, 0, zone),
		End:   time.Date(y, m, d+1, startHour, 0, 0, 0, zone),
	}
}

// Contains reports whether ts falls inside the window. The lower boundary is
// inclusive, the upper exclusive.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && ts.Before(w.End)
}
