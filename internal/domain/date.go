package domain

import "time"

// hoursPerDay is used for whole-day arithmetic on date-only values.
const hoursPerDay = 24

// DateOnly truncates a timestamp to its calendar date in UTC.
// All due-date comparisons in the loan ledger are date-only: a loan due
// "today" is not overdue until tomorrow, regardless of time-of-day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
// The result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / hoursPerDay)
}
