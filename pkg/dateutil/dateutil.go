package dateutil

import "time"

// LocalDate truncates t to its calendar date in loc.
func LocalDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameLocalDay reports whether a and b fall on the same calendar date when
// observed in loc.
func SameLocalDay(a, b time.Time, loc *time.Location) bool {
	return LocalDate(a, loc).Equal(LocalDate(b, loc))
}
