package dto

import "time"

// DocumentFilter narrows the listing to an inclusive date range.
type DocumentFilter struct {
	StartDate time.Time
	EndDate   time.Time
}

// Active reports whether any bound is set.
func (f DocumentFilter) Active() bool {
	return !f.StartDate.IsZero() || !f.EndDate.IsZero()
}

// Matches compares calendar dates only, so both bounds are inclusive for the
// whole day they name.
func (f DocumentFilter) Matches(ts time.Time) bool {
	day := dateOf(ts)
	if !f.StartDate.IsZero() && day.Before(dateOf(f.StartDate)) {
		return false
	}
	if !f.EndDate.IsZero() && day.After(dateOf(f.EndDate)) {
		return false
	}
	return true
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
