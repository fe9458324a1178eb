package event

import "testing"

func TestEventsOnPreservesOrder(t *testing.T) {
	events := []Event{
		{ID: 1, StartDate: utc(2024, 5, 1, 9, 0), EndDate: utc(2024, 5, 1, 10, 0)},
		{ID: 2, StartDate: utc(2024, 4, 1, 9, 0), EndDate: utc(2024, 4, 1, 10, 0), IsRecurring: true, Frequency: ptr(Daily)},
		{ID: 3, StartDate: utc(2024, 5, 2, 9, 0), EndDate: utc(2024, 5, 2, 10, 0)},
		{ID: 4, StartDate: utc(2024, 1, 1, 0, 0), EndDate: utc(2024, 1, 1, 1, 0), IsRecurring: true, Frequency: ptr(Monthly)},
	}
	before := append([]Event(nil), events...)

	got := EventsOn(events, utc(2024, 5, 1, 9, 30))
	if len(got) != 3 || got[0].ID != 1 || got[1].ID != 2 || got[2].ID != 4 {
		t.Fatalf("EventsOn ids = %v", ids(got))
	}
	for i := range events {
		if events[i].ID != before[i].ID {
			t.Fatal("input was reordered")
		}
	}
}

func TestEventsOnNil(t *testing.T) {
	got := EventsOn(nil, utc(2024, 1, 1, 0, 0))
	if got == nil || len(got) != 0 {
		t.Fatalf("EventsOn(nil) = %#v, want empty slice", got)
	}
}

func TestListFilter(t *testing.T) {
	now := utc(2024, 6, 1, 12, 0)
	events := []Event{
		{ID: 1, Title: "Team Sync", Category: ptr("meeting"), StartDate: utc(2024, 7, 1, 9, 0), EndDate: utc(2024, 7, 1, 10, 0)},
		{ID: 2, Title: "Dentist", Description: ptr("bring the SYNC form"), Category: ptr("personal"), StartDate: utc(2024, 5, 1, 9, 0), EndDate: utc(2024, 5, 1, 10, 0)},
		{ID: 3, Title: "Launch", Category: ptr("work"), StartDate: utc(2024, 6, 1, 11, 0), EndDate: utc(2024, 6, 1, 13, 0)},
		{ID: 4, Title: "Retro", StartDate: utc(2024, 6, 2, 9, 0), EndDate: utc(2024, 6, 2, 10, 0)},
	}

	cases := []struct {
		name string
		f    ListFilter
		want []uint64
	}{
		{"all sorted", ListFilter{}, []uint64{2, 3, 4, 1}},
		{"search title and description", ListFilter{Search: " sync "}, []uint64{2, 1}},
		{"category", ListFilter{Category: "work"}, []uint64{3}},
		{"upcoming", ListFilter{When: WhenUpcoming}, []uint64{4, 1}},
		{"past", ListFilter{When: WhenPast}, []uint64{2}},
		{"combined", ListFilter{Search: "sync", When: WhenUpcoming}, []uint64{1}},
	}
	for _, tc := range cases {
		got := ids(tc.f.Apply(events, now))
		if !equalIDs(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func ids(events []Event) []uint64 {
	out := make([]uint64, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func equalIDs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEventsOnDay(t *testing.T) {
	events := []Event{
		{ID: 1, StartDate: utc(2024, 3, 10, 9, 0), EndDate: utc(2024, 3, 10, 10, 0)},
		{ID: 2, StartDate: utc(2024, 3, 1, 18, 0), EndDate: utc(2024, 3, 1, 19, 0), IsRecurring: true, Frequency: ptr(Daily)},
		{ID: 3, StartDate: utc(2024, 3, 11, 9, 0), EndDate: utc(2024, 3, 11, 10, 0)},
		{ID: 4, StartDate: utc(2024, 3, 4, 9, 0), EndDate: utc(2024, 3, 4, 10, 0), IsRecurring: true, Frequency: ptr(Weekly), DaysOfWeek: ptr("[0]"),
			RecurringEndDate: ptr(utc(2024, 3, 9, 0, 0))},
	}

	got := EventsOnDay(events, utc(2024, 3, 10, 0, 0))
	if !equalIDs(ids(got), []uint64{1, 2}) {
		t.Errorf("March 10 = %v", ids(got))
	}

	got = EventsOnDay(events, utc(2024, 3, 3, 15, 0))
	if !equalIDs(ids(got), []uint64{2}) {
		t.Errorf("March 3 = %v", ids(got))
	}

	got = EventsOnDay(events, utc(2024, 2, 29, 0, 0))
	if len(got) != 0 {
		t.Errorf("Feb 29 = %v", ids(got))
	}

	// The recurring event's first day counts from its own start time.
	got = EventsOnDay(events, utc(2024, 3, 1, 0, 0))
	if !equalIDs(ids(got), []uint64{2}) {
		t.Errorf("March 1 = %v", ids(got))
	}
}
