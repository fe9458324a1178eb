package ics

import (
	"fmt"
	"strings"
	"time"

	"evcal/internal/event"
)

const (
	dateTimeFormat = "20060102T150405Z"

	DefaultProdID = "-//Calendar App//EN"
	ContentType   = "text/calendar; charset=utf-8"
)

var dayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// Exporter writes events as one VCALENDAR. Recurring events become a
// single VEVENT carrying an RRULE; occurrences are never expanded.
type Exporter struct {
	ProdID string
	// Now stamps DTSTAMP. Defaults to time.Now.
	Now func() time.Time
}

func NewExporter(prodID string) *Exporter {
	if prodID == "" {
		prodID = DefaultProdID
	}
	return &Exporter{ProdID: prodID, Now: time.Now}
}

func (x *Exporter) Export(events []event.Event) string {
	now := time.Now
	if x.Now != nil {
		now = x.Now
	}
	stamp := formatDateTime(now())

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString(fmt.Sprintf("PRODID:%s\r\n", x.ProdID))
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")

	for i := range events {
		writeEvent(&b, &events[i], stamp)
	}

	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func writeEvent(b *strings.Builder, e *event.Event, stamp string) {
	b.WriteString("BEGIN:VEVENT\r\n")
	b.WriteString(fmt.Sprintf("UID:%s\r\n", UID(e.ID)))
	b.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatDateTime(e.StartDate)))
	b.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatDateTime(e.EndDate)))
	b.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeText(e.Title)))

	if e.Description != nil && *e.Description != "" {
		b.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeText(*e.Description)))
	}
	if e.Category != nil && *e.Category != "" {
		b.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", escapeText(*e.Category)))
	}
	if rule, ok := RRule(e); ok {
		b.WriteString(fmt.Sprintf("RRULE:%s\r\n", rule))
	}

	b.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
	b.WriteString("END:VEVENT\r\n")
}

// UID is stable for the lifetime of the event.
func UID(id uint64) string {
	return fmt.Sprintf("event-%d@calendar-app", id)
}

// RRule encodes the recurrence of e, without the "RRULE:" prefix. A
// malformed weekday payload drops BYDAY rather than failing.
func RRule(e *event.Event) (string, bool) {
	if !e.IsRecurring || e.Frequency == nil || *e.Frequency == "" {
		return "", false
	}
	freq := *e.Frequency
	rule := "FREQ=" + strings.ToUpper(string(freq))

	if freq == event.Weekly {
		if wd := e.Weekdays(); wd.State == event.WeekdaysParsed {
			codes := make([]string, 0, len(wd.Days))
			for _, d := range wd.Days {
				if d >= 0 && d < len(dayCodes) {
					codes = append(codes, dayCodes[d])
				}
			}
			if len(codes) > 0 {
				rule += ";BYDAY=" + strings.Join(codes, ",")
			}
		}
	}

	if e.RecurringEndDate != nil {
		rule += ";UNTIL=" + formatDateTime(*e.RecurringEndDate)
	}
	return rule, true
}

// Filename is the suggested download name for an export taken at now.
func Filename(now time.Time) string {
	return "calendar-export-" + now.UTC().Format("2006-01-02") + ".ics"
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format(dateTimeFormat)
}

func escapeText(text string) string {
	text = strings.ReplaceAll(text, "\\", "\\\\")
	text = strings.ReplaceAll(text, ";", "\\;")
	text = strings.ReplaceAll(text, ",", "\\,")
	text = strings.ReplaceAll(text, "\n", "\\n")
	return text
}
