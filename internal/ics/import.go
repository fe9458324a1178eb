package ics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"evcal/internal/event"
)

// Parsed is one VEVENT mapped onto the editable event fields. Notes lists
// parts of the source rule that could not be carried over.
type Parsed struct {
	UID   string
	Input event.Input
	Notes []string
}

var ErrEmptyDocument = errors.New("empty calendar document")

type Skipped struct {
	UID   string `json:"uid"`
	Error string `json:"error"`
}

// Parse reads an iCalendar document. Events that cannot be mapped are
// returned in skipped; only an unreadable document is an error.
func Parse(r io.Reader) (parsed []Parsed, skipped []Skipped, err error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil, ErrEmptyDocument
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("parse calendar: %w", err)
	}

	for _, ve := range cal.Events() {
		p, perr := parseVEvent(ve)
		if perr != nil {
			skipped = append(skipped, Skipped{UID: p.UID, Error: perr.Error()})
			continue
		}
		parsed = append(parsed, p)
	}
	return parsed, skipped, nil
}

func parseVEvent(ve *ical.VEvent) (Parsed, error) {
	var out Parsed
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
		out.UID = p.Value
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Input.Title = unescapeText(p.Value)
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil && p.Value != "" {
		d := unescapeText(p.Value)
		out.Input.Description = &d
	}
	if p := ve.GetProperty("CATEGORIES"); p != nil {
		if c := firstListValue(p.Value); c != "" {
			out.Input.Category = &c
		}
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, fmt.Errorf("DTSTART: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil || end.IsZero() {
		// No DTEND: a date-only start covers the day, otherwise one hour.
		end = start.Add(time.Hour)
		if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil && !strings.Contains(p.Value, "T") {
			end = start.AddDate(0, 0, 1)
		}
	}
	out.Input.StartDate = &start
	out.Input.EndDate = &end

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		notes, err := applyRRule(&out.Input, p.Value, start)
		if err != nil {
			return out, err
		}
		out.Notes = notes
	}
	return out, nil
}

// applyRRule maps a DAILY, WEEKLY or MONTHLY rule onto in. Other
// frequencies leave the event as a single occurrence.
func applyRRule(in *event.Input, raw string, start time.Time) ([]string, error) {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return nil, fmt.Errorf("RRULE %q: %w", raw, err)
	}

	var freq event.Frequency
	switch opt.Freq {
	case rrule.DAILY:
		freq = event.Daily
	case rrule.WEEKLY:
		freq = event.Weekly
	case rrule.MONTHLY:
		freq = event.Monthly
	default:
		return []string{fmt.Sprintf("unsupported frequency in %q, imported as a single event", raw)}, nil
	}

	var notes []string
	f := string(freq)
	in.IsRecurring = true
	in.Frequency = &f

	if freq == event.Weekly {
		ordinal := false
		for _, wd := range opt.Byweekday {
			// rrule counts from Monday, events from Sunday.
			in.DaysOfWeek = append(in.DaysOfWeek, (wd.Day()+1)%7)
			ordinal = ordinal || wd.N() != 0
		}
		if ordinal {
			notes = append(notes, "BYDAY ordinals ignored")
		}
		if len(in.DaysOfWeek) == 0 {
			in.DaysOfWeek = []int{int(start.Weekday())}
		}
	} else if len(opt.Byweekday) > 0 {
		notes = append(notes, fmt.Sprintf("BYDAY ignored for FREQ=%s", strings.ToUpper(f)))
	}
	if len(opt.Bymonthday) > 0 {
		notes = append(notes, fmt.Sprintf("BYMONTHDAY=%s ignored", joinInts(opt.Bymonthday)))
	}
	if len(opt.Bysetpos) > 0 {
		notes = append(notes, fmt.Sprintf("BYSETPOS=%s ignored", joinInts(opt.Bysetpos)))
	}
	if len(opt.Bymonth) > 0 {
		notes = append(notes, fmt.Sprintf("BYMONTH=%s ignored", joinInts(opt.Bymonth)))
	}
	if !opt.Until.IsZero() {
		until := opt.Until
		in.RecurringEndDate = &until
	}

	if opt.Interval > 1 {
		notes = append(notes, fmt.Sprintf("INTERVAL=%d ignored", opt.Interval))
	}
	if opt.Count > 0 {
		notes = append(notes, fmt.Sprintf("COUNT=%d ignored", opt.Count))
	}
	return notes, nil
}

func joinInts(vs []int) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func unescapeText(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// firstListValue returns the first entry of a comma-separated text list,
// honoring escaped commas.
func firstListValue(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == ',' {
			return strings.TrimSpace(unescapeText(s[:i]))
		}
	}
	return strings.TrimSpace(unescapeText(s))
}
