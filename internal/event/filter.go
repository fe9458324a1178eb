package event

import (
	"sort"
	"strings"
	"time"
)

// EventsOn keeps the events active on date, in input order. The input is
// not modified.
func EventsOn(events []Event, date time.Time) []Event {
	out := make([]Event, 0)
	for i := range events {
		if IsActiveOn(&events[i], date) {
			out = append(out, events[i])
		}
	}
	return out
}

type When string

const (
	WhenAll      When = ""
	WhenUpcoming When = "upcoming"
	WhenPast     When = "past"
)

// ListFilter is the list-view filter: text search over title and
// description, exact category, and upcoming/past relative to now.
type ListFilter struct {
	Search   string
	Category string
	When     When
}

func (f ListFilter) Apply(events []Event, now time.Time) []Event {
	q := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]Event, 0, len(events))
	for _, e := range events {
		if q != "" && !matchesText(e, q) {
			continue
		}
		if f.Category != "" && (e.Category == nil || *e.Category != f.Category) {
			continue
		}
		switch f.When {
		case WhenUpcoming:
			if e.StartDate.Before(now) {
				continue
			}
		case WhenPast:
			if !e.EndDate.Before(now) {
				continue
			}
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

func matchesText(e Event, q string) bool {
	if strings.Contains(strings.ToLower(e.Title), q) {
		return true
	}
	return e.Description != nil && strings.Contains(strings.ToLower(*e.Description), q)
}

// EventsOnDay is EventsOn for a whole calendar day. Each event is
// evaluated at the instant of day closest to its start, so a one-off event
// at 09:00 shows on its day even though midnight precedes it.
func EventsOnDay(events []Event, day time.Time) []Event {
	y, m, d := day.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)

	out := make([]Event, 0)
	for i := range events {
		at := events[i].StartDate
		if at.Before(dayStart) {
			at = dayStart
		} else if at.After(dayEnd) {
			at = dayEnd
		}
		if IsActiveOn(&events[i], at.In(day.Location())) {
			out = append(out, events[i])
		}
	}
	return out
}
