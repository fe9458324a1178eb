package ics

import (
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"evcal/internal/event"
)

func ptr[T any](v T) *T { return &v }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func sampleEvents() []event.Event {
	return []event.Event{
		{
			ID:          7,
			Title:       "Lunch; with, team \\ and\nmore",
			Description: ptr("bring snacks, please"),
			Category:    ptr("personal"),
			StartDate:   time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2024, 3, 10, 13, 30, 0, 0, time.UTC),
		},
		{
			ID:               8,
			Title:            "Gym",
			StartDate:        time.Date(2024, 1, 1, 7, 0, 0, 0, time.FixedZone("X", 2*3600)),
			EndDate:          time.Date(2024, 1, 1, 8, 0, 0, 0, time.FixedZone("X", 2*3600)),
			IsRecurring:      true,
			Frequency:        ptr(event.Weekly),
			DaysOfWeek:       ptr("[1,3,5]"),
			RecurringEndDate: ptr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		},
	}
}

func TestExportDocument(t *testing.T) {
	x := &Exporter{ProdID: DefaultProdID, Now: fixedClock(time.Date(2024, 5, 5, 8, 9, 10, 123, time.UTC))}
	got := x.Export(sampleEvents())

	want := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Calendar App//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"BEGIN:VEVENT",
		"UID:event-7@calendar-app",
		"DTSTART:20240310T120000Z",
		"DTEND:20240310T133000Z",
		`SUMMARY:Lunch\; with\, team \\ and\nmore`,
		`DESCRIPTION:bring snacks\, please`,
		"CATEGORIES:personal",
		"DTSTAMP:20240505T080910Z",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:event-8@calendar-app",
		"DTSTART:20240101T050000Z",
		"DTEND:20240101T060000Z",
		"SUMMARY:Gym",
		"RRULE:FREQ=WEEKLY;BYDAY=MO,WE,FR;UNTIL=20240601T000000Z",
		"DTSTAMP:20240505T080910Z",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	if got != want {
		t.Errorf("Export mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestExportIsValidICalendar(t *testing.T) {
	doc := NewExporter("").Export(sampleEvents())

	if strings.Count(doc, "\n") != strings.Count(doc, "\r\n") {
		t.Error("found a line not terminated by CRLF")
	}
	if strings.Count(doc, "BEGIN:VEVENT") != strings.Count(doc, "END:VEVENT") {
		t.Error("unbalanced VEVENT blocks")
	}

	cal, err := ical.ParseCalendar(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseCalendar: %v", err)
	}
	evs := cal.Events()
	if len(evs) != 2 {
		t.Fatalf("parsed %d events", len(evs))
	}
	if uid := evs[1].GetProperty(ical.ComponentPropertyUniqueId); uid == nil || uid.Value != "event-8@calendar-app" {
		t.Errorf("UID = %v", uid)
	}
	start, err := evs[1].GetStartAt()
	if err != nil || !start.Equal(time.Date(2024, 1, 1, 5, 0, 0, 0, time.UTC)) {
		t.Errorf("DTSTART = %v, %v", start, err)
	}
}

func TestExportOnlyDTStampDiffers(t *testing.T) {
	events := sampleEvents()
	a := (&Exporter{ProdID: DefaultProdID, Now: fixedClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}).Export(events)
	b := (&Exporter{ProdID: DefaultProdID, Now: fixedClock(time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC))}).Export(events)

	la, lb := strings.Split(a, "\r\n"), strings.Split(b, "\r\n")
	if len(la) != len(lb) {
		t.Fatalf("line counts differ: %d vs %d", len(la), len(lb))
	}
	diffs := 0
	for i := range la {
		if la[i] == lb[i] {
			continue
		}
		diffs++
		if !strings.HasPrefix(la[i], "DTSTAMP:") || !strings.HasPrefix(lb[i], "DTSTAMP:") {
			t.Errorf("line %d differs: %q vs %q", i, la[i], lb[i])
		}
	}
	if diffs != len(events) {
		t.Errorf("%d differing lines, want %d", diffs, len(events))
	}
}

func TestExportEmpty(t *testing.T) {
	got := NewExporter("-//Test//EN").Export(nil)
	want := "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//Test//EN\r\nCALSCALE:GREGORIAN\r\nMETHOD:PUBLISH\r\nEND:VCALENDAR\r\n"
	if got != want {
		t.Errorf("got %q", got)
	}
}

func TestRRule(t *testing.T) {
	cases := []struct {
		name string
		ev   event.Event
		want string
		ok   bool
	}{
		{"not recurring", event.Event{Frequency: ptr(event.Daily)}, "", false},
		{"no frequency", event.Event{IsRecurring: true}, "", false},
		{"daily", event.Event{IsRecurring: true, Frequency: ptr(event.Daily)}, "FREQ=DAILY", true},
		{"monthly until", event.Event{
			IsRecurring:      true,
			Frequency:        ptr(event.Monthly),
			RecurringEndDate: ptr(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		}, "FREQ=MONTHLY;UNTIL=20250101T000000Z", true},
		{"weekly sunday and saturday", event.Event{IsRecurring: true, Frequency: ptr(event.Weekly), DaysOfWeek: ptr("[0,6]")}, "FREQ=WEEKLY;BYDAY=SU,SA", true},
		{"weekly malformed days", event.Event{IsRecurring: true, Frequency: ptr(event.Weekly), DaysOfWeek: ptr("mon,wed")}, "FREQ=WEEKLY", true},
		{"weekly out of range days", event.Event{IsRecurring: true, Frequency: ptr(event.Weekly), DaysOfWeek: ptr("[9]")}, "FREQ=WEEKLY", true},
		{"weekly no days", event.Event{IsRecurring: true, Frequency: ptr(event.Weekly)}, "FREQ=WEEKLY", true},
	}
	for _, tc := range cases {
		got, ok := RRule(&tc.ev)
		if got != tc.want || ok != tc.ok {
			t.Errorf("%s: RRule = %q, %v; want %q, %v", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFilename(t *testing.T) {
	got := Filename(time.Date(2024, 12, 31, 23, 30, 0, 0, time.FixedZone("X", -2*3600)))
	if got != "calendar-export-2025-01-01.ics" {
		t.Errorf("Filename = %q", got)
	}
}
