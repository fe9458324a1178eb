package event

import "time"

// IsActiveOn reports whether e should be shown on the calendar day of date.
// Calendar-day comparisons (same day, weekday, day of month) are made in
// date's location; the start and recurrence-end bounds compare instants.
func IsActiveOn(e *Event, date time.Time) bool {
	if date.Before(e.StartDate) {
		return false
	}
	if e.IsRecurring && e.RecurringEndDate != nil && date.After(*e.RecurringEndDate) {
		return false
	}

	start := e.StartDate.In(date.Location())

	if !e.IsRecurring {
		if date.After(e.EndDate) {
			return false
		}
		return SameDay(date, start)
	}

	switch e.FrequencyValue() {
	case Daily:
		return true
	case Weekly:
		wd := e.Weekdays()
		if wd.State != WeekdaysParsed {
			return date.Weekday() == start.Weekday()
		}
		return wd.Contains(date.Weekday())
	case Monthly:
		// No end-of-month clamping: a start on the 31st never matches
		// shorter months.
		return date.Day() == start.Day()
	}
	return false
}

func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
